package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/choice"
	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
	"github.com/lorcanasim/lorcana-engine/internal/game/watchers"
)

type fixture struct {
	t   *testing.T
	gs  *state.GameState
	eng *Engine
}

func newFixture(t *testing.T, opts Options, deckSize int) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gs := state.NewGameState([]*state.Player{
		state.NewPlayer("p1", "Alice"),
		state.NewPlayer("p2", "Bob"),
	}, 0, logger)
	f := &fixture{t: t, gs: gs, eng: New(gs, nil, opts, logger)}
	for _, owner := range []string{"p1", "p2"} {
		for i := 0; i < deckSize; i++ {
			f.character(owner, fmt.Sprintf("%s-deck-%d", owner, i), 1, 1, 1, 1, state.ZoneDeck)
		}
	}
	return f
}

func (f *fixture) character(owner, id string, strength, willpower, lore, cost int, zone state.Zone) *state.Card {
	f.t.Helper()
	c := &state.Card{
		ID:        id,
		Name:      id,
		OwnerID:   owner,
		Kind:      state.KindCharacter,
		Cost:      cost,
		Inkable:   true,
		Strength:  strength,
		Willpower: willpower,
		Lore:      lore,
		Zone:      zone,
	}
	require.NoError(f.t, f.gs.AddCard(c))
	return c
}

func (f *fixture) ink(owner string, n int) {
	f.t.Helper()
	for i := 0; i < n; i++ {
		f.character(owner, fmt.Sprintf("%s-ink-%d", owner, i), 1, 1, 1, 1, state.ZoneInkwell)
	}
}

func (f *fixture) keyword(card *state.Card, k keywords.Keyword, value int) {
	f.t.Helper()
	ability, ok := f.eng.Abilities().Keyword(k, value)
	require.True(f.t, ok, "keyword %s", k)
	f.eng.Attach(card.ID, ability)
}

func (f *fixture) ctx(player string) abilities.TriggerContext {
	return abilities.TriggerContext{Game: f.gs, ControllerID: player}
}

// untilAction pumps until a move is requested.
func (f *fixture) untilAction() protocol.ActionRequired {
	f.t.Helper()
	for i := 0; i < 100; i++ {
		switch msg := f.eng.Next(nil).(type) {
		case protocol.ActionRequired:
			return msg
		case protocol.StepExecuted:
			continue
		default:
			f.t.Fatalf("unexpected message while pumping: %s", msg)
		}
	}
	f.t.Fatalf("no action required after 100 calls")
	return protocol.ActionRequired{}
}

// step submits a move (or nil) and expects an accepted step.
func (f *fixture) step(move protocol.Move) protocol.Step {
	f.t.Helper()
	msg := f.eng.Next(move)
	se, ok := msg.(protocol.StepExecuted)
	require.True(f.t, ok, "expected a step, got %s", msg)
	require.Nil(f.t, se.Rejection, "move rejected: %s", se.Rejection)
	return se.Step
}

func (f *fixture) pendingChoice() choice.Context {
	f.t.Helper()
	msg := f.eng.Next(nil)
	cr, ok := msg.(protocol.ChoiceRequired)
	require.True(f.t, ok, "expected a choice, got %s", msg)
	return cr.Choice
}

func TestTurnStartRunsPhaseProcedures(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)

	var kinds []protocol.StepKind
	for {
		msg := f.eng.Next(nil)
		if ar, ok := msg.(protocol.ActionRequired); ok {
			assert.Equal(t, "p1", ar.PlayerID)
			assert.Equal(t, rules.PhasePlay, ar.Phase)
			assert.Equal(t, 1, ar.Turn)
			assert.True(t, protocol.ContainsMove(ar.LegalMoves, protocol.PassMove{}))
			break
		}
		se, ok := msg.(protocol.StepExecuted)
		require.True(t, ok, "unexpected %s", msg)
		kinds = append(kinds, se.Step.Kind)
		require.Less(t, len(kinds), 20)
	}
	assert.Equal(t, []protocol.StepKind{
		protocol.StepTurnBegan,
		protocol.StepPhaseAdvanced,
		protocol.StepPhaseAdvanced,
		protocol.StepPhaseAdvanced,
		protocol.StepCardDrawn,
		protocol.StepPhaseAdvanced,
	}, kinds)
	assert.Empty(t, f.gs.Player("p1").Hand, "first player skips the turn 1 draw")
	assert.Len(t, f.gs.Player("p1").Deck, 3)
}

func TestSecondPlayerDraws(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.untilAction()
	f.step(protocol.PassMove{})
	ar := f.untilAction()

	assert.Equal(t, "p2", ar.PlayerID)
	assert.Equal(t, 2, ar.Turn)
	assert.Len(t, f.gs.Player("p2").Hand, 1)
	assert.Equal(t, 1, f.gs.Trackers.ConsecutivePasses)
}

func TestQueuedSequenceReportsEachStep(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.untilAction()

	seq := abilities.Then(abilities.GainLore{Amount: 1}, abilities.GainLore{Amount: 2}, abilities.LoseLore{Amount: 1})
	f.eng.Queue().Enqueue(seq, []targeting.Target{targeting.PlayerTarget("p1")}, f.ctx("p1"), "test")

	assert.Equal(t, protocol.StepLoreGained, f.step(nil).Kind)
	assert.Equal(t, protocol.StepLoreGained, f.step(nil).Kind)
	assert.Equal(t, protocol.StepLoreLost, f.step(nil).Kind)
	f.untilAction()
	assert.Equal(t, 2, f.gs.Player("p1").Lore)
}

func TestChallengeAppliesResist(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	attacker := f.character("p1", "attacker", 3, 5, 1, 3, state.ZonePlay)
	defender := f.character("p2", "defender", 2, 5, 1, 3, state.ZonePlay)
	f.keyword(defender, keywords.Resist, 1)
	defender.Exerted = true

	ar := f.untilAction()
	move := protocol.ChallengeMove{AttackerID: attacker.ID, DefenderID: defender.ID}
	require.True(t, protocol.ContainsMove(ar.LegalMoves, move))

	declared := f.step(move)
	assert.Equal(t, protocol.StepChallengeDeclared, declared.Kind)
	resolved := f.step(nil)
	assert.Equal(t, protocol.StepChallengeResolved, resolved.Kind)
	assert.Equal(t, 2, resolved.Amount)

	assert.Equal(t, 2, defender.Damage)
	assert.Equal(t, 2, attacker.Damage)
	assert.True(t, attacker.Exerted)
	assert.True(t, f.gs.HasActed(attacker.ID))
	assert.Equal(t, 3, f.gs.Strength(attacker), "strength is not changed by the calculation")
}

func TestChallengeBanishesInChallenge(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	attacker := f.character("p1", "attacker", 4, 5, 1, 3, state.ZonePlay)
	defender := f.character("p2", "defender", 1, 2, 1, 3, state.ZonePlay)
	defender.Exerted = true
	f.untilAction()

	f.step(protocol.ChallengeMove{AttackerID: attacker.ID, DefenderID: defender.ID})
	resolved := f.step(nil)

	assert.Equal(t, state.ZoneDiscard, defender.Zone)
	assert.Zero(t, defender.Damage)
	assert.Equal(t, 1, attacker.Damage)

	var types []rules.EventType
	for _, evt := range resolved.Events {
		types = append(types, evt.Type)
	}
	assert.Contains(t, types, rules.EventCharacterBanished)
	assert.Contains(t, types, rules.EventBanishedInChallenge)

	w, ok := f.eng.Watchers().GetWatcher(watchers.CharactersBanishedKey).(*watchers.CharactersBanishedWatcher)
	require.True(t, ok)
	assert.Equal(t, 1, w.InChallenge("p2"))
}

func TestQuestThenReadiedCannotActAgain(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	quester := f.character("p1", "quester", 1, 3, 2, 2, state.ZonePlay)
	target := f.character("p2", "target", 1, 3, 1, 2, state.ZonePlay)
	target.Exerted = true
	f.untilAction()

	assert.Equal(t, protocol.StepCharacterQuested, f.step(protocol.QuestMove{CharacterID: quester.ID}).Kind)
	gained := f.step(nil)
	assert.Equal(t, protocol.StepLoreGained, gained.Kind)
	assert.Equal(t, 2, gained.Amount)
	assert.Equal(t, 2, f.gs.Player("p1").Lore)
	assert.True(t, quester.Exerted)

	f.eng.Queue().Enqueue(abilities.Ready{}, []targeting.Target{targeting.CardTarget(quester.ID)}, f.ctx("p1"), "test")
	assert.Equal(t, protocol.StepCharacterReadied, f.step(nil).Kind)
	assert.False(t, quester.Exerted)

	ar := f.untilAction()
	for _, mv := range ar.LegalMoves {
		switch m := mv.(type) {
		case protocol.QuestMove:
			assert.NotEqual(t, quester.ID, m.CharacterID)
		case protocol.ChallengeMove:
			assert.NotEqual(t, quester.ID, m.AttackerID)
		case protocol.SingMove:
			assert.NotEqual(t, quester.ID, m.SingerID)
		}
	}

	msg := f.eng.Next(protocol.QuestMove{CharacterID: quester.ID})
	require.NotNil(t, msg.Rejected())
	assert.Equal(t, rules.ReasonAlreadyActed, msg.Rejected().Reason)
}

func TestLoreVictoryOnFollowingCall(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	quester := f.character("p1", "quester", 1, 3, 1, 2, state.ZonePlay)
	f.untilAction()
	f.gs.Player("p1").Lore = 19

	f.step(protocol.QuestMove{CharacterID: quester.ID})
	gained := f.step(nil)
	assert.Equal(t, protocol.StepLoreGained, gained.Kind)
	assert.Equal(t, 20, f.gs.Player("p1").Lore)

	over, ok := f.eng.Next(nil).(protocol.GameOver)
	require.True(t, ok)
	assert.Equal(t, "p1", over.Winner)
	assert.Equal(t, protocol.ReasonLoreVictory, over.Reason)

	again, ok := f.eng.Next(nil).(protocol.GameOver)
	require.True(t, ok)
	assert.Equal(t, over.Winner, again.Winner)

	rejected := f.eng.Next(protocol.PassMove{})
	require.IsType(t, protocol.GameOver{}, rejected)
	require.NotNil(t, rejected.Rejected())
	assert.Equal(t, rules.ReasonGameOver, rejected.Rejected().Reason)
}

func TestWinMidResolutionSkipsQueuedWork(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.untilAction()
	f.gs.Player("p1").Lore = 15

	f.eng.Queue().Enqueue(abilities.Then(
		abilities.GainLore{Amount: 5},
		abilities.May{Prompt: "more?", Effect: abilities.GainLore{Amount: 1}},
		abilities.DrawCards{Count: 1},
	), nil, f.ctx("p1"), "test")

	assert.Equal(t, protocol.StepLoreGained, f.step(nil).Kind)
	over, ok := f.eng.Next(nil).(protocol.GameOver)
	require.True(t, ok, "the win ends the game before the remaining actions")
	assert.Equal(t, "p1", over.Winner)
	assert.Equal(t, 2, f.eng.Queue().Len())
	assert.False(t, f.eng.Choices().HasPending())
	assert.Equal(t, 20, f.gs.Player("p1").Lore)
}

func TestInkTwiceRejected(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	first := f.character("p1", "first", 1, 1, 1, 1, state.ZoneHand)
	second := f.character("p1", "second", 1, 1, 1, 1, state.ZoneHand)
	f.untilAction()

	assert.Equal(t, protocol.StepInkPlayed, f.step(protocol.InkMove{CardID: first.ID}).Kind)
	ar := f.untilAction()
	assert.False(t, protocol.ContainsMove(ar.LegalMoves, protocol.InkMove{CardID: second.ID}))

	p1 := f.gs.Player("p1")
	msg := f.eng.Next(protocol.InkMove{CardID: second.ID})
	ar2, ok := msg.(protocol.ActionRequired)
	require.True(t, ok, "got %s", msg)
	require.NotNil(t, ar2.Rejection)
	assert.Equal(t, rules.ReasonAlreadyInked, ar2.Rejection.Reason)
	assert.Equal(t, state.ZoneHand, second.Zone)
	assert.Equal(t, 1, p1.Ink.Capacity())
	assert.Equal(t, []*state.Card{second}, p1.Hand)
}

func TestBodyguardMayEnterExerted(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.ink("p1", 2)
	guard := f.character("p1", "guard", 1, 3, 1, 2, state.ZoneHand)
	f.keyword(guard, keywords.Bodyguard, 0)
	f.untilAction()

	assert.Equal(t, protocol.StepCardPlayed, f.step(protocol.PlayMove{CardID: guard.ID}).Kind)
	assert.Equal(t, protocol.StepChoiceRequested, f.step(nil).Kind)

	pending := f.pendingChoice()
	assert.Equal(t, choice.KindYesNo, pending.Kind)
	assert.Equal(t, "p1", pending.PlayerID)

	t.Run("other moves wait for the choice", func(t *testing.T) {
		msg := f.eng.Next(protocol.PassMove{})
		require.IsType(t, protocol.ChoiceRequired{}, msg)
		assert.Equal(t, rules.ReasonChoicePending, msg.Rejected().Reason)
	})

	t.Run("invalid option keeps the choice", func(t *testing.T) {
		msg := f.eng.Next(protocol.ChoiceMove{ChoiceID: pending.ID, Selection: []string{"maybe"}})
		require.IsType(t, protocol.ChoiceRequired{}, msg)
		assert.Equal(t, rules.ReasonInvalidOption, msg.Rejected().Reason)
		assert.True(t, f.eng.Choices().HasPending())
	})

	resolved := f.step(protocol.ChoiceMove{ChoiceID: pending.ID, Selection: []string{choice.OptionYes}})
	assert.Equal(t, protocol.StepChoiceResolved, resolved.Kind)
	assert.False(t, f.eng.Choices().HasPending())
	assert.Equal(t, protocol.StepCharacterExerted, f.step(nil).Kind)
	assert.True(t, guard.Exerted)

	msg := f.eng.Next(protocol.ChoiceMove{ChoiceID: pending.ID, Selection: []string{choice.OptionYes}})
	require.NotNil(t, msg.Rejected())
	assert.Equal(t, rules.ReasonNoPendingChoice, msg.Rejected().Reason)
}

func TestSupportAddsStrength(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	supporter := f.character("p1", "supporter", 2, 3, 1, 2, state.ZonePlay)
	friend := f.character("p1", "friend", 1, 3, 1, 2, state.ZonePlay)
	f.keyword(supporter, keywords.Support, 0)
	f.untilAction()

	f.step(protocol.QuestMove{CharacterID: supporter.ID})
	assert.Equal(t, protocol.StepLoreGained, f.step(nil).Kind)
	assert.Equal(t, protocol.StepChoiceRequested, f.step(nil).Kind)

	pending := f.pendingChoice()
	assert.Equal(t, choice.KindSelectTargets, pending.Kind)
	assert.True(t, pending.HasOption(friend.ID))
	assert.True(t, pending.HasOption(choice.OptionNone))
	assert.False(t, pending.HasOption(supporter.ID))

	f.step(protocol.ChoiceMove{ChoiceID: pending.ID, Selection: []string{friend.ID}})
	modified := f.step(nil)
	assert.Equal(t, protocol.StepStatModified, modified.Kind)
	assert.Equal(t, 3, f.gs.Strength(friend))

	f.untilAction()
	f.step(protocol.PassMove{})
	assert.Equal(t, 1, f.gs.Strength(friend), "the bonus ends with the turn")
}

func TestVanishWhenChosenByOpposingAction(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.ink("p1", 1)
	vanisher := f.character("p2", "vanisher", 1, 5, 1, 2, state.ZonePlay)
	f.keyword(vanisher, keywords.Vanish, 0)

	strike := &state.Card{ID: "strike", Name: "Strike", OwnerID: "p1", Kind: state.KindAction, Cost: 1, Zone: state.ZoneHand}
	require.NoError(t, f.gs.AddCard(strike))
	f.eng.Attach(strike.ID, abilities.ActionEffect("Strike", targeting.Self(), abilities.ChooseTargets{
		Selector: targeting.OpposingCharacters(),
		Min:      1,
		Max:      1,
		Effect:   abilities.DealDamage{Amount: 1},
	}))
	f.untilAction()

	f.step(protocol.PlayMove{CardID: strike.ID})
	assert.Equal(t, state.ZoneDiscard, strike.Zone)
	assert.Equal(t, protocol.StepChoiceRequested, f.step(nil).Kind)
	pending := f.pendingChoice()

	f.step(protocol.ChoiceMove{ChoiceID: pending.ID, Selection: []string{vanisher.ID}})
	assert.Equal(t, protocol.StepDamageDealt, f.step(nil).Kind)
	assert.Equal(t, protocol.StepCharacterBanished, f.step(nil).Kind)
	assert.Equal(t, state.ZoneDiscard, vanisher.Zone)
}

func TestUnpayablePlaySpendsNothing(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.ink("p1", 2)
	card := f.character("p1", "pricey", 1, 1, 1, 2, state.ZoneHand)
	f.untilAction()
	p1 := f.gs.Player("p1")
	require.Equal(t, 2, p1.Ink.Available())

	// the cost rises between the move and its resolution
	f.gs.Modifiers.AddEffect(effects.NewCostModifier("tax", "p1", 3, nil, effects.DurationThisTurn))
	f.eng.Queue().Enqueue(abilities.PlayCard{}, []targeting.Target{targeting.CardTarget(card.ID)}, f.ctx("p1"), "test")

	step := f.step(nil)
	assert.Equal(t, protocol.StepNoOp, step.Kind)
	assert.Contains(t, step.Description, "insufficient ink")
	assert.Equal(t, state.ZoneHand, card.Zone)
	assert.Equal(t, 2, p1.Ink.Available())
	assert.Zero(t, f.gs.Trackers.ActionsThisTurn)

	f.gs.Modifiers.RemoveWhere(func(effects.ContinuousEffect) bool { return true })
	f.eng.Queue().Enqueue(abilities.PlayCard{}, []targeting.Target{targeting.CardTarget(card.ID)}, f.ctx("p1"), "test")
	played := f.step(nil)
	assert.Equal(t, protocol.StepCardPlayed, played.Kind)
	assert.Equal(t, state.ZonePlay, card.Zone)
	assert.Zero(t, p1.Ink.Available())
	assert.Equal(t, 1, f.gs.Trackers.ActionsThisTurn)
}

func TestEmptySelectionAppliesNothing(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.untilAction()

	f.eng.Queue().Enqueue(abilities.ChooseTargets{
		Selector: targeting.Opponents(),
		Min:      0,
		Max:      1,
		Effect:   abilities.GainLore{Amount: 5},
	}, nil, f.ctx("p1"), "test")

	assert.Equal(t, protocol.StepChoiceRequested, f.step(nil).Kind)
	pending := f.pendingChoice()
	resolved := f.step(protocol.ChoiceMove{ChoiceID: pending.ID, Selection: []string{}})
	assert.Equal(t, protocol.StepChoiceResolved, resolved.Kind)

	f.untilAction()
	assert.Zero(t, f.gs.Player("p1").Lore, "choosing nobody must not fall back to the controller")
	assert.Zero(t, f.gs.Player("p2").Lore)
}

func TestWardCannotBeChosenByOpponent(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	warded := f.character("p2", "warded", 1, 5, 1, 2, state.ZonePlay)
	f.keyword(warded, keywords.Ward, 0)
	f.untilAction()

	f.eng.Queue().Enqueue(abilities.ChooseTargets{
		Selector: targeting.OpposingCharacters(),
		Min:      1,
		Max:      1,
		Effect:   abilities.Banish{},
	}, nil, f.ctx("p1"), "test")

	step := f.step(nil)
	assert.Equal(t, protocol.StepNoOp, step.Kind)
	assert.False(t, f.eng.Choices().HasPending())
	assert.Equal(t, state.ZonePlay, warded.Zone)
}

func TestStaleTargetResolvesAsNoOp(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	victim := f.character("p2", "victim", 1, 5, 1, 2, state.ZonePlay)
	f.untilAction()

	f.eng.Queue().Enqueue(
		abilities.Then(abilities.Banish{}, abilities.DealDamage{Amount: 2}),
		[]targeting.Target{targeting.CardTarget(victim.ID)},
		f.ctx("p1"), "test",
	)
	assert.Equal(t, protocol.StepCharacterBanished, f.step(nil).Kind)
	noop := f.step(nil)
	assert.Equal(t, protocol.StepNoOp, noop.Kind)
	assert.Equal(t, victim.ID, noop.TargetID)
	assert.Zero(t, victim.Damage)
	f.untilAction()
}

func TestConditionalPicksBranch(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	f.untilAction()
	p1 := f.gs.Player("p1")
	p1.Lore = 5

	f.eng.Queue().Enqueue(abilities.Conditional{
		Guard: abilities.LoreAtLeast(5),
		Then:  abilities.Then(abilities.GainLore{Amount: 1}, abilities.GainLore{Amount: 1}),
		Else:  abilities.LoseLore{Amount: 5},
	}, nil, f.ctx("p1"), "test")

	assert.Equal(t, protocol.StepLoreGained, f.step(nil).Kind)
	assert.Equal(t, protocol.StepLoreGained, f.step(nil).Kind)
	f.untilAction()
	assert.Equal(t, 7, p1.Lore)
}

func TestDiscardChoosesWhenHandIsLarger(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	a := f.character("p1", "a", 1, 1, 1, 1, state.ZoneHand)
	b := f.character("p1", "b", 1, 1, 1, 1, state.ZoneHand)
	f.untilAction()

	f.eng.Queue().Enqueue(abilities.DiscardCards{Count: 1}, []targeting.Target{targeting.PlayerTarget("p1")}, f.ctx("p1"), "test")
	assert.Equal(t, protocol.StepChoiceRequested, f.step(nil).Kind)
	pending := f.pendingChoice()
	assert.Equal(t, 1, pending.Min)
	assert.Equal(t, 1, pending.Max)

	f.step(protocol.ChoiceMove{ChoiceID: pending.ID, Selection: []string{b.ID}})
	assert.Equal(t, protocol.StepCardsDiscarded, f.step(nil).Kind)
	assert.Equal(t, state.ZoneDiscard, b.Zone)
	assert.Equal(t, state.ZoneHand, a.Zone)
}

func TestStalemateAfterActionlessPasses(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxConsecutivePasses = 2
	f := newFixture(t, opts, 5)

	for i := 0; i < 100; i++ {
		switch msg := f.eng.Next(nil).(type) {
		case protocol.ActionRequired:
			f.step(protocol.PassMove{})
		case protocol.GameOver:
			assert.Equal(t, protocol.ReasonStalemate, msg.Reason)
			assert.Empty(t, msg.Winner)
			assert.Equal(t, state.ResultStalemate, f.gs.Result)
			return
		}
	}
	t.Fatalf("game did not end in a stalemate")
}

func TestDeckExhaustion(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 0)
	f.untilAction()
	f.step(protocol.PassMove{})

	for i := 0; i < 20; i++ {
		if over, ok := f.eng.Next(nil).(protocol.GameOver); ok {
			assert.Equal(t, protocol.ReasonDeckExhaustion, over.Reason)
			assert.Equal(t, "p1", over.Winner)
			return
		}
	}
	t.Fatalf("game did not end by deck exhaustion")
}

func TestRejectedMoveLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 3)
	card := f.character("p1", "pricey", 3, 3, 1, 5, state.ZoneHand)
	f.untilAction()

	msg := f.eng.Next(protocol.PlayMove{CardID: card.ID})
	require.NotNil(t, msg.Rejected())
	assert.Equal(t, rules.ReasonInsufficientInk, msg.Rejected().Reason)
	assert.Equal(t, state.ZoneHand, card.Zone)
	assert.False(t, f.eng.Queue().HasPending())

	msg = f.eng.Next(protocol.QuestMove{CharacterID: "nobody"})
	assert.Equal(t, rules.ReasonUnknownCard, msg.Rejected().Reason)
}
