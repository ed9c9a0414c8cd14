package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader reads card definitions from a source.
type Loader interface {
	Load(ctx context.Context) ([]Definition, error)
}

// File is the layout of a YAML card file.
type File struct {
	Cards []Definition        `yaml:"cards"`
	Decks map[string]DeckList `yaml:"decks,omitempty"`
}

// ParseFile decodes a YAML card file.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode card file: %w", err)
	}
	return &f, nil
}

// YAMLLoader reads definitions from a YAML file, or from in-memory bytes
// when Data is set.
type YAMLLoader struct {
	Path string
	Data []byte
}

// NewYAMLLoader creates a loader for the file at path.
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{Path: path}
}

// File reads and decodes the whole card file, decks included.
func (l *YAMLLoader) File() (*File, error) {
	data := l.Data
	if data == nil {
		var err error
		if data, err = os.ReadFile(l.Path); err != nil {
			return nil, fmt.Errorf("read card file: %w", err)
		}
	}
	return ParseFile(data)
}

// Load returns the definitions of the card file.
func (l *YAMLLoader) Load(_ context.Context) ([]Definition, error) {
	f, err := l.File()
	if err != nil {
		return nil, err
	}
	return f.Cards, nil
}

// Querier is the subset of *pgxpool.Pool used by PostgresLoader.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SelectDefinitions reads every card row. Keywords and abilities are stored
// as YAML (or JSON) text in the same layout as the card file.
const SelectDefinitions = `
SELECT id, name, title, kind, cost, inkable, strength, willpower, lore,
       subtypes, song, sing_cost, keywords, abilities
FROM lorcana_cards
ORDER BY id`

// PostgresLoader reads definitions from the lorcana_cards table.
type PostgresLoader struct {
	db     Querier
	logger *zap.Logger
}

// NewPostgresLoader creates a loader over db, usually a *pgxpool.Pool.
func NewPostgresLoader(db Querier, logger *zap.Logger) *PostgresLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresLoader{db: db, logger: logger}
}

// Load queries every definition.
func (l *PostgresLoader) Load(ctx context.Context) ([]Definition, error) {
	rows, err := l.db.Query(ctx, SelectDefinitions)
	if err != nil {
		return nil, fmt.Errorf("query card definitions: %w", err)
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var (
			d                   Definition
			keywordsText, specs string
		)
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Title, &d.Kind, &d.Cost, &d.Inkable,
			&d.Strength, &d.Willpower, &d.Lore, &d.Subtypes, &d.Song, &d.SingCost,
			&keywordsText, &specs,
		); err != nil {
			return nil, fmt.Errorf("scan card definition: %w", err)
		}
		if keywordsText != "" {
			if err := yaml.Unmarshal([]byte(keywordsText), &d.Keywords); err != nil {
				return nil, fmt.Errorf("decode keywords of %s: %w", d.ID, err)
			}
		}
		if specs != "" {
			if err := yaml.Unmarshal([]byte(specs), &d.Abilities); err != nil {
				return nil, fmt.Errorf("decode abilities of %s: %w", d.ID, err)
			}
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card definitions: %w", err)
	}
	l.logger.Debug("loaded card definitions", zap.Int("count", len(defs)))
	return defs, nil
}
