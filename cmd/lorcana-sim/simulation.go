package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/catalog"
	"github.com/lorcanasim/lorcana-engine/internal/config"
	"github.com/lorcanasim/lorcana-engine/internal/game/engine"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/replay"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

type simulation struct {
	engine *engine.Engine
	logger *zap.Logger
}

// newSimulation loads the catalog, builds both decks and deals opening hands.
func newSimulation(ctx context.Context, cfg *config.Config, deck1, deck2 string, seed uint64, logger *zap.Logger) (*simulation, error) {
	kw := keywords.NewRegistry()
	cat, decks, err := loadCatalog(ctx, cfg.Catalog, kw, logger)
	if err != nil {
		return nil, err
	}

	players := []*state.Player{state.NewPlayer("p1", deck1), state.NewPlayer("p2", deck2)}
	gs := state.NewGameState(players, 0, logger.Named("state"))
	eng := engine.New(gs, kw, optionsFrom(cfg.Game), logger.Named("engine"))

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i, name := range []string{deck1, deck2} {
		list, ok := decks[name]
		if !ok {
			return nil, fmt.Errorf("unknown deck %q", name)
		}
		insts, err := cat.Instantiate(eng.Abilities(), players[i].ID, list)
		if err != nil {
			return nil, fmt.Errorf("build deck %s: %w", name, err)
		}
		rng.Shuffle(len(insts), func(a, b int) { insts[a], insts[b] = insts[b], insts[a] })
		if err := catalog.Install(gs, eng.Abilities(), insts); err != nil {
			return nil, err
		}
	}
	eng.DealOpeningHands(cfg.Game.StartingHand)

	logger.Info("game ready",
		zap.String("game_id", gs.ID),
		zap.String("deck1", deck1),
		zap.String("deck2", deck2),
		zap.Uint64("seed", seed),
	)
	return &simulation{engine: eng, logger: logger}, nil
}

func optionsFrom(cfg config.GameConfig) engine.Options {
	return engine.Options{
		LoreToWin:                cfg.LoreToWin,
		MaxConsecutivePasses:     cfg.MaxConsecutivePasses,
		FirstPlayerSkipsDraw:     cfg.FirstPlayerSkipsDraw,
		MaxEventDepth:            cfg.MaxEventDepth,
		ChallengeReadyCharacters: cfg.ChallengeReadyCharacters,
	}
}

// loadCatalog reads definitions from the configured source. Deck lists always
// come from the YAML file; without one, every definition gets four copies in
// a single "all" deck.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, kw *keywords.Registry, logger *zap.Logger) (*catalog.Catalog, map[string]catalog.DeckList, error) {
	file, fileErr := catalog.NewYAMLLoader(cfg.Path).File()

	var (
		cat *catalog.Catalog
		err error
	)
	switch cfg.Source {
	case config.SourcePostgres:
		pool, perr := pgxpool.New(ctx, cfg.DatabaseURL)
		if perr != nil {
			return nil, nil, fmt.Errorf("connect to catalog database: %w", perr)
		}
		defer pool.Close()
		if perr := pool.Ping(ctx); perr != nil {
			return nil, nil, fmt.Errorf("ping catalog database: %w", perr)
		}
		cat, err = catalog.Load(ctx, catalog.NewPostgresLoader(pool, logger.Named("catalog")), kw, logger.Named("catalog"))
	default:
		if fileErr != nil {
			return nil, nil, fileErr
		}
		cat, err = catalog.New(file.Cards, kw, logger.Named("catalog"))
	}
	if err != nil {
		return nil, nil, err
	}

	decks := map[string]catalog.DeckList{}
	if fileErr == nil && len(file.Decks) > 0 {
		decks = file.Decks
	} else {
		var all catalog.DeckList
		for _, id := range cat.IDs() {
			all = append(all, catalog.DeckEntry{ID: id, Count: 4})
		}
		decks["all"] = all
	}
	return cat, decks, nil
}

// run drives the message pump until the game ends. view and rec may be nil.
func (s *simulation) run(ctx context.Context, player *autoPlayer, view *renderer, rec *replay.Recorder, out io.Writer, limit int) (protocol.GameOver, error) {
	var move protocol.Move
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return protocol.GameOver{}, err
		}
		msg := s.engine.Next(move)
		if rec != nil {
			rec.Observe(move, msg)
		}
		move = nil
		if view != nil {
			fmt.Fprintln(out, view.message(msg))
		}
		if r := msg.Rejected(); r != nil {
			s.logger.Warn("move rejected", zap.String("rejection", r.String()))
		}

		switch m := msg.(type) {
		case protocol.GameOver:
			return m, nil
		case protocol.ActionRequired:
			move = player.Action(m)
		case protocol.ChoiceRequired:
			move = player.Choose(m)
		}
	}
	return protocol.GameOver{}, errors.New("no result within the step limit")
}
