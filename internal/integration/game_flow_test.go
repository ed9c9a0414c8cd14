package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lorcanasim/lorcana-engine/internal/catalog"
	"github.com/lorcanasim/lorcana-engine/internal/game/engine"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/watchers"
)

const filler = "goofy-daredevil"

// table is a two-player game built from the sample card file.
type table struct {
	t   *testing.T
	gs  *state.GameState
	eng *engine.Engine
	cat *catalog.Catalog
}

func newTable(t *testing.T) *table {
	t.Helper()
	logger := zaptest.NewLogger(t)
	kw := keywords.NewRegistry()
	cat, err := catalog.Load(context.Background(), catalog.NewYAMLLoader("../../data/cards.yaml"), kw, logger)
	require.NoError(t, err)

	gs := state.NewGameState([]*state.Player{
		state.NewPlayer("p1", "Amber"),
		state.NewPlayer("p2", "Ruby"),
	}, 0, logger)
	tb := &table{t: t, gs: gs, eng: engine.New(gs, kw, engine.DefaultOptions(), logger), cat: cat}
	for _, owner := range []string{"p1", "p2"} {
		for i := 0; i < 10; i++ {
			tb.put(owner, filler, state.ZoneDeck)
		}
	}
	return tb
}

// put creates one card from the catalog directly in zone.
func (tb *table) put(owner, id string, zone state.Zone) *state.Card {
	tb.t.Helper()
	insts, err := tb.cat.Instantiate(tb.eng.Abilities(), owner, catalog.DeckList{{ID: id, Count: 1}})
	require.NoError(tb.t, err)
	insts[0].Card.Zone = zone
	require.NoError(tb.t, catalog.Install(tb.gs, tb.eng.Abilities(), insts))
	return insts[0].Card
}

func (tb *table) ink(owner string, n int) {
	tb.t.Helper()
	for i := 0; i < n; i++ {
		tb.put(owner, filler, state.ZoneInkwell)
	}
}

// untilAction pumps until a move is requested and fails on choices.
func (tb *table) untilAction() protocol.ActionRequired {
	tb.t.Helper()
	for i := 0; i < 200; i++ {
		switch msg := tb.eng.Next(nil).(type) {
		case protocol.ActionRequired:
			return msg
		case protocol.StepExecuted:
			require.Nil(tb.t, msg.Rejection)
		default:
			tb.t.Fatalf("unexpected message while pumping: %s", msg)
		}
	}
	tb.t.Fatalf("no action required after 200 calls")
	return protocol.ActionRequired{}
}

// play submits a move that must be legal and returns the first step.
func (tb *table) play(ar protocol.ActionRequired, move protocol.Move) protocol.Step {
	tb.t.Helper()
	require.True(tb.t, protocol.ContainsMove(ar.LegalMoves, move), "%s not legal", move)
	msg := tb.eng.Next(move)
	se, ok := msg.(protocol.StepExecuted)
	require.True(tb.t, ok, "expected a step, got %s", msg)
	require.Nil(tb.t, se.Rejection)
	return se.Step
}

func TestTurnsAlternateWithDraws(t *testing.T) {
	tb := newTable(t)

	ar := tb.untilAction()
	assert.Equal(t, "p1", ar.PlayerID)
	assert.Equal(t, 1, ar.Turn)
	assert.Empty(t, tb.gs.Player("p1").Hand)

	tb.play(ar, protocol.PassMove{})
	ar = tb.untilAction()
	assert.Equal(t, "p2", ar.PlayerID)
	assert.Equal(t, 2, ar.Turn)
	assert.Len(t, tb.gs.Player("p2").Hand, 1)

	tb.play(ar, protocol.PassMove{})
	ar = tb.untilAction()
	assert.Equal(t, "p1", ar.PlayerID)
	assert.Equal(t, 3, ar.Turn)
	assert.Len(t, tb.gs.Player("p1").Hand, 1)
	assert.Equal(t, rules.PhasePlay, ar.Phase)
}

func TestSingSongFromCatalog(t *testing.T) {
	tb := newTable(t)
	ariel := tb.put("p1", "ariel-spectacular-singer", state.ZonePlay)
	song := tb.put("p1", "friends-on-the-other-side", state.ZoneHand)

	ar := tb.untilAction()
	step := tb.play(ar, protocol.SingMove{SingerID: ariel.ID, SongID: song.ID})
	assert.Equal(t, protocol.StepSongSung, step.Kind)

	tb.untilAction()
	p1 := tb.gs.Player("p1")
	assert.True(t, ariel.Exerted)
	assert.Equal(t, state.ZoneDiscard, song.Zone)
	assert.Equal(t, 1, p1.Lore, "song grants one lore")
	assert.Len(t, p1.Hand, 1, "song draws one card")
	assert.Equal(t, 0, p1.Ink.Capacity(), "singing costs no ink")
	assert.Equal(t, 1, watchers.CountFor(tb.eng.Watchers(), watchers.SongsSungKey, "p1"))
}

func TestShiftFromCatalog(t *testing.T) {
	tb := newTable(t)
	base := tb.put("p1", "mickey-true-friend", state.ZonePlay)
	sorcerer := tb.put("p1", "mickey-wayward-sorcerer", state.ZoneHand)
	tb.ink("p1", 3)

	ar := tb.untilAction()
	assert.False(t, protocol.ContainsMove(ar.LegalMoves, protocol.PlayMove{CardID: sorcerer.ID}), "full cost is 5")
	tb.play(ar, protocol.PlayMove{CardID: sorcerer.ID, ShiftOnto: base.ID})

	tb.untilAction()
	p1 := tb.gs.Player("p1")
	assert.Equal(t, state.ZonePlay, sorcerer.Zone)
	assert.Equal(t, state.ZoneDiscard, base.Zone)
	assert.Len(t, p1.Characters, 1)
	assert.Len(t, p1.Hand, 1, "enter-play trigger draws")
	assert.Equal(t, 0, p1.Ink.Available())
	assert.True(t, sorcerer.Dry, "shifted character keeps the base's readiness")
}

func TestChallengeTriggersOpposingBanishAbility(t *testing.T) {
	tb := newTable(t)
	hades := tb.put("p1", "hades-lord-of-the-underworld", state.ZonePlay)
	goofy := tb.put("p2", filler, state.ZonePlay)
	goofy.Exerted = true
	goofy.Dry = true

	ar := tb.untilAction()
	step := tb.play(ar, protocol.ChallengeMove{AttackerID: hades.ID, DefenderID: goofy.ID})
	assert.Equal(t, protocol.StepChallengeDeclared, step.Kind)

	tb.untilAction()
	assert.Equal(t, state.ZoneDiscard, goofy.Zone)
	assert.Equal(t, 1, hades.Damage)
	assert.Equal(t, 1, tb.gs.Player("p1").Lore, "Soul Collector")
	assert.Equal(t, 1, watchers.CountFor(tb.eng.Watchers(), watchers.CharactersBanishedKey, "p2"))
}

func TestAuraRaisesQuestLore(t *testing.T) {
	tb := newTable(t)
	tb.put("p1", "rafiki-mysterious-sage", state.ZonePlay)
	hero := tb.put("p1", "mickey-true-friend", state.ZonePlay)

	ar := tb.untilAction()
	assert.Equal(t, 3, tb.gs.LoreValue(hero))
	tb.play(ar, protocol.QuestMove{CharacterID: hero.ID})

	tb.untilAction()
	assert.Equal(t, 3, tb.gs.Player("p1").Lore)
}

func TestActionWithChosenTarget(t *testing.T) {
	tb := newTable(t)
	cannons := tb.put("p1", "fire-the-cannons", state.ZoneHand)
	victim := tb.put("p2", filler, state.ZonePlay)
	tb.ink("p1", 1)

	ar := tb.untilAction()
	tb.play(ar, protocol.PlayMove{CardID: cannons.ID})

	var choiceID string
	for i := 0; i < 50 && choiceID == ""; i++ {
		if cr, ok := tb.eng.Next(nil).(protocol.ChoiceRequired); ok {
			choiceID = cr.Choice.ID
			assert.Contains(t, cr.Choice.Prompt, "2 damage")
		}
	}
	require.NotEmpty(t, choiceID)

	msg := tb.eng.Next(protocol.ChoiceMove{ChoiceID: choiceID, Selection: []string{victim.ID}})
	assert.Nil(t, msg.Rejected())

	tb.untilAction()
	assert.Equal(t, state.ZoneDiscard, victim.Zone, "2 damage banishes a 2 willpower character")
	assert.Equal(t, state.ZoneDiscard, cannons.Zone)
}
