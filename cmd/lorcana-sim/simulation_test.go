package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lorcanasim/lorcana-engine/internal/config"
	"github.com/lorcanasim/lorcana-engine/internal/game/choice"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/replay"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Catalog.Path = "../../data/cards.yaml"
	return cfg
}

func TestSimulationPlaysToTheEnd(t *testing.T) {
	cfg := testConfig(t)
	sim, err := newSimulation(context.Background(), cfg, "amber-steel", "ruby-amethyst", 7, zaptest.NewLogger(t))
	require.NoError(t, err)

	gs := sim.engine.Game()
	for _, p := range gs.Players {
		assert.Len(t, p.Hand, cfg.Game.StartingHand)
	}

	var out bytes.Buffer
	rec := replay.NewRecorder(gs, zaptest.NewLogger(t))
	result, err := sim.run(context.Background(), newAutoPlayer(7, gs), newRenderer(gs), rec, &out, 50000)
	require.NoError(t, err)

	frames := rec.Replay().Frames
	require.NotEmpty(t, frames)
	assert.Equal(t, "game-over", frames[len(frames)-1].MessageKind)

	assert.NotEmpty(t, result.Reason)
	assert.True(t, gs.Finished())
	assert.Contains(t, out.String(), "turn 1")
	assert.Contains(t, newRenderer(gs).summary(result), result.Reason)
}

func TestSimulationIsReproducible(t *testing.T) {
	cfg := testConfig(t)
	play := func() []replay.Frame {
		sim, err := newSimulation(context.Background(), cfg, "amber-steel", "ruby-amethyst", 11, zaptest.NewLogger(t))
		require.NoError(t, err)
		gs := sim.engine.Game()
		rec := replay.NewRecorder(gs, zaptest.NewLogger(t))
		_, err = sim.run(context.Background(), newAutoPlayer(11, gs), nil, rec, &bytes.Buffer{}, 50000)
		require.NoError(t, err)
		return rec.Replay().Frames
	}

	// moves carry card and choice ids, so equal frames mean equal ids
	frames1 := play()
	frames2 := play()
	require.Equal(t, len(frames1), len(frames2))
	for i := range frames1 {
		require.Equal(t, frames1[i], frames2[i], "frame %d", i)
	}
}

func TestSimulationUnknownDeck(t *testing.T) {
	_, err := newSimulation(context.Background(), testConfig(t), "amber-steel", "missing", 1, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestAutoPlayer(t *testing.T) {
	gs := state.NewGameState([]*state.Player{state.NewPlayer("p1", "A"), state.NewPlayer("p2", "B")}, 0, zaptest.NewLogger(t))
	mine := &state.Card{ID: "mine", Name: "Mine", OwnerID: "p1", Zone: state.ZonePlay, Cost: 2, Willpower: 2}
	theirs := &state.Card{ID: "theirs", Name: "Theirs", OwnerID: "p2", Zone: state.ZonePlay, Cost: 5, Willpower: 2}
	require.NoError(t, gs.AddCard(mine))
	require.NoError(t, gs.AddCard(theirs))
	p := newAutoPlayer(1, gs)

	t.Run("priority", func(t *testing.T) {
		mv := p.Action(protocol.ActionRequired{LegalMoves: []protocol.Move{
			protocol.PassMove{},
			protocol.QuestMove{CharacterID: "mine"},
			protocol.PlayMove{CardID: "mine"},
			protocol.PlayMove{CardID: "theirs"},
		}})
		assert.Equal(t, protocol.PlayMove{CardID: "theirs"}, mv)
	})

	t.Run("passes after a rejection", func(t *testing.T) {
		mv := p.Action(protocol.ActionRequired{
			LegalMoves: []protocol.Move{protocol.QuestMove{CharacterID: "mine"}},
			Rejection:  &protocol.Rejection{Reason: "test"},
		})
		assert.Equal(t, protocol.PassMove{}, mv)
	})

	t.Run("targets opponents first", func(t *testing.T) {
		c := choice.SelectTargets("p1", "mine", "pick", []choice.Option{{ID: "mine"}, {ID: "theirs"}}, 1, 1, true, nil)
		mv := p.Choose(protocol.ChoiceRequired{Choice: c.View()})
		assert.Equal(t, protocol.ChoiceMove{ChoiceID: c.ID, Selection: []string{"theirs"}}, mv)
	})

	t.Run("accepts may", func(t *testing.T) {
		c := choice.YesNo("p1", "mine", "ok?", nil)
		mv := p.Choose(protocol.ChoiceRequired{Choice: c.View()})
		assert.Equal(t, []string{choice.OptionYes}, mv.(protocol.ChoiceMove).Selection)
	})
}

func TestGauntlet(t *testing.T) {
	var out bytes.Buffer
	err := runGauntlet(context.Background(), testConfig(t), 1, 3, 50000, &out, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "amber-steel")
	assert.Contains(t, out.String(), "ruby-amethyst")
	assert.Contains(t, out.String(), "1 games per match")
}
