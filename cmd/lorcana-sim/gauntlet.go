package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/config"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/tournament"
)

// runGauntlet plays every deck in the catalog file against every other deck.
func runGauntlet(ctx context.Context, cfg *config.Config, games int, seed uint64, limit int, out io.Writer, logger *zap.Logger) error {
	_, decks, err := loadCatalog(ctx, cfg.Catalog, keywords.NewRegistry(), logger)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(decks))
	for name := range decks {
		names = append(names, name)
	}
	sort.Strings(names)

	m := tournament.NewManager(logger.Named("tournament"))
	t, err := m.CreateTournament("gauntlet", names, games)
	if err != nil {
		return err
	}
	if err := m.Run(ctx, t, gamePlayer(cfg, seed, limit, logger)); err != nil {
		return err
	}
	fmt.Fprintln(out, standings(t))
	return nil
}

// gamePlayer returns a tournament.GameFunc that plays one quiet simulation.
// Each game gets its own seed so rematches differ.
func gamePlayer(cfg *config.Config, seed uint64, limit int, logger *zap.Logger) tournament.GameFunc {
	var played uint64
	quietLog := logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	return func(ctx context.Context, first, second string, _ int) (string, error) {
		played++
		gameSeed := seed + played
		sim, err := newSimulation(ctx, cfg, first, second, gameSeed, quietLog)
		if err != nil {
			return "", err
		}
		gs := sim.engine.Game()
		result, err := sim.run(ctx, newAutoPlayer(gameSeed, gs), nil, nil, io.Discard, limit)
		if err != nil {
			return "", err
		}
		if result.Winner == "" {
			return "", nil
		}
		return gs.Player(result.Winner).Name, nil
	}
}

func standings(t *tournament.Tournament) string {
	rows := []string{resultStyle.Render(fmt.Sprintf("%s: %d games per match", t.Name, t.GamesPerMatch))}
	for i, e := range t.Standings() {
		rows = append(rows, fmt.Sprintf("%d. %-16s %3d pts  %d-%d-%d  (%d/%d games)",
			i+1, e.Name, e.Points, e.Wins, e.Losses, e.Draws, e.GamesWon, e.GamesPlayed))
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
