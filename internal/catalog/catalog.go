package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// DeckEntry is a number of copies of one definition.
type DeckEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// DeckList is an ordered deck description. The first entry ends up at the
// bottom of the deck.
type DeckList []DeckEntry

// Size returns the total number of cards.
func (l DeckList) Size() int {
	n := 0
	for _, e := range l {
		n += e.Count
	}
	return n
}

// Instance is a fresh card and the abilities to attach to it.
type Instance struct {
	Card      *state.Card
	Abilities []abilities.Ability
}

// Binder attaches abilities to cards. *abilities.Registry implements it.
type Binder interface {
	KeywordSource
	Attach(cardID string, list ...abilities.Ability)
}

// Catalog holds validated definitions keyed by ID.
type Catalog struct {
	defs   map[string]compiled
	mu     sync.Mutex
	issued map[string]int
	logger *zap.Logger
}

// New validates and compiles definitions. Duplicate IDs are rejected.
func New(defs []Definition, kw *keywords.Registry, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := NewBuilder(kw)
	c := &Catalog{defs: make(map[string]compiled, len(defs)), issued: make(map[string]int), logger: logger}
	for _, d := range defs {
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidDefinition, d.ID)
		}
		cd, err := b.compile(d)
		if err != nil {
			return nil, err
		}
		c.defs[d.ID] = cd
	}
	logger.Debug("catalog ready", zap.Int("definitions", len(c.defs)))
	return c, nil
}

// Load reads definitions from a loader and builds a catalog.
func Load(ctx context.Context, l Loader, kw *keywords.Registry, logger *zap.Logger) (*Catalog, error) {
	defs, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(defs, kw, logger)
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// IDs returns the definition IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.defs))
	for id := range c.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Definition looks up a definition.
func (c *Catalog) Definition(id string) (Definition, bool) {
	cd, ok := c.defs[id]
	return cd.def, ok
}

// Instantiate creates cards for ownerID, in deck-list order, together with
// their abilities. Keyword abilities come from ks. Card IDs are derived from
// the owner, a per-owner counter and the definition, so the same calls on a
// fresh catalog yield the same IDs.
func (c *Catalog) Instantiate(ks KeywordSource, ownerID string, list DeckList) ([]Instance, error) {
	for _, entry := range list {
		if _, ok := c.defs[entry.ID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCard, entry.ID)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Instance, 0, list.Size())
	for _, entry := range list {
		cd, ok := c.defs[entry.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCard, entry.ID)
		}
		for i := 0; i < entry.Count; i++ {
			inst := Instance{Card: cd.def.newCard(c.cardID(ownerID, entry.ID), ownerID)}
			for _, ref := range cd.keywords {
				ability, ok := ks.Keyword(ref.keyword, ref.value)
				if !ok {
					return nil, fmt.Errorf("%w: %s: keyword %s not supported", ErrInvalidDefinition, entry.ID, ref.keyword)
				}
				inst.Abilities = append(inst.Abilities, ability)
			}
			inst.Abilities = append(inst.Abilities, cd.abilities...)
			out = append(out, inst)
		}
	}
	c.logger.Debug("instantiated deck",
		zap.String("owner", ownerID),
		zap.Int("cards", len(out)),
	)
	return out, nil
}

func (c *Catalog) cardID(ownerID, defID string) string {
	c.issued[ownerID]++
	seed := fmt.Sprintf("%s|%d|%s", ownerID, c.issued[ownerID], defID)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// Install adds instances to the game in their own zones and attaches their
// abilities.
func Install(gs *state.GameState, b Binder, instances []Instance) error {
	for _, inst := range instances {
		if err := gs.AddCard(inst.Card); err != nil {
			return fmt.Errorf("install %s: %w", inst.Card.DefinitionID, err)
		}
		if len(inst.Abilities) > 0 {
			b.Attach(inst.Card.ID, inst.Abilities...)
		}
	}
	return nil
}
