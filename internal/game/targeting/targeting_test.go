package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

type staticKeywords map[string][]keywords.Keyword

func (s staticKeywords) Capabilities(cardID string) keywords.Set {
	set := keywords.NewRegistry().NewSet()
	for _, k := range s[cardID] {
		set.Add(k, 1)
	}
	return set
}

func newBoard(t *testing.T) *state.GameState {
	t.Helper()
	gs := state.NewGameState([]*state.Player{state.NewPlayer("p1", "A"), state.NewPlayer("p2", "B")}, 0, zaptest.NewLogger(t))
	for _, c := range []*state.Card{
		{ID: "a1", OwnerID: "p1", Zone: state.ZonePlay, Cost: 2, Subtypes: []string{"Hero"}},
		{ID: "a2", OwnerID: "p1", Zone: state.ZonePlay, Cost: 5, Exerted: true},
		{ID: "b1", OwnerID: "p2", Zone: state.ZonePlay, Cost: 1, Exerted: true},
		{ID: "b2", OwnerID: "p2", Zone: state.ZonePlay, Cost: 4, Damage: 1},
		{ID: "h1", OwnerID: "p1", Zone: state.ZoneHand},
	} {
		require.NoError(t, gs.AddCard(c))
	}
	return gs
}

func ids(targets []Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.ID())
	}
	return out
}

func TestSelect(t *testing.T) {
	gs := newBoard(t)
	ctx := Context{SourceID: "a1", ControllerID: "p1", Event: rules.NewEvent(rules.EventChallengeDeclared, "b1", "a2", "p1")}

	cases := []struct {
		name string
		sel  Selector
		want []string
	}{
		{"self", Self(), []string{"a1"}},
		{"event source", EventSource(), []string{"a2"}},
		{"event target", EventTarget(), []string{"b1"}},
		{"your characters", YourCharacters(), []string{"a1", "a2"}},
		{"your other characters", YourCharacters(NotSelf()), []string{"a2"}},
		{"opposing exerted", OpposingCharacters(Exerted()), []string{"b1"}},
		{"all damaged", AllCharacters(Damaged()), []string{"b2"}},
		{"cheap", AllCharacters(CostAtMost(2)), []string{"a1", "b1"}},
		{"subtype", AllCharacters(HasSubtype("hero")), []string{"a1"}},
		{"ready", AllCharacters(Ready(), Not(Damaged())), []string{"a1"}},
		{"controller", Controller(), []string{"p1"}},
		{"opponents", Opponents(), []string{"p2"}},
		{"union dedups", Union(Self(), YourCharacters()), []string{"a1", "a2"}},
		{"except", Except(AllCharacters(), OpposingCharacters()), []string{"a1", "a2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Select(gs, tc.sel, ctx)))
		})
	}
}

func TestSelectMissingSource(t *testing.T) {
	gs := newBoard(t)
	assert.Empty(t, Select(gs, Self(), Context{SourceID: "gone"}))
	assert.Empty(t, Select(gs, Controller(), Context{ControllerID: "nobody"}))
}

func TestHasKeywordFilter(t *testing.T) {
	gs := newBoard(t)
	ctx := Context{ControllerID: "p1", Keywords: staticKeywords{"b2": {keywords.Evasive}}}
	assert.Equal(t, []string{"b2"}, ids(Select(gs, OpposingCharacters(HasKeyword(keywords.Evasive)), ctx)))
	assert.Empty(t, Select(gs, OpposingCharacters(HasKeyword(keywords.Evasive)), Context{ControllerID: "p1"}))
}

func TestValidatorWard(t *testing.T) {
	gs := newBoard(t)
	v := NewValidator(gs, staticKeywords{"b1": {keywords.Ward}, "a1": {keywords.Ward}})

	assert.False(t, v.Chooseable(CardTarget("b1"), "p1"))
	assert.True(t, v.Chooseable(CardTarget("b1"), "p2"))
	assert.True(t, v.Chooseable(CardTarget("a1"), "p1"))
	assert.False(t, v.Chooseable(CardTarget("missing"), "p1"))

	got := v.Candidates(Select(gs, OpposingCharacters(), Context{ControllerID: "p1"}), "p1")
	assert.Equal(t, []string{"b2"}, ids(got))
}

func TestValidateSelection(t *testing.T) {
	gs := newBoard(t)
	v := NewValidator(gs, nil)
	candidates := []Target{CardTarget("b1"), CardTarget("b2")}

	t.Run("valid", func(t *testing.T) {
		sel := &TargetSelection{Targets: []string{"b2"}, Requirement: TargetRequirement{MinTargets: 1, MaxTargets: 1}}
		assert.NoError(t, v.ValidateSelection(sel, candidates))
	})
	t.Run("not offered", func(t *testing.T) {
		sel := &TargetSelection{Targets: []string{"a1"}, Requirement: TargetRequirement{MinTargets: 1, MaxTargets: 1}}
		assert.Error(t, v.ValidateSelection(sel, candidates))
	})
	t.Run("too many", func(t *testing.T) {
		sel := &TargetSelection{Targets: []string{"b1", "b2"}, Requirement: TargetRequirement{MinTargets: 1, MaxTargets: 1}}
		assert.Error(t, v.ValidateSelection(sel, candidates))
	})
	t.Run("duplicate", func(t *testing.T) {
		sel := &TargetSelection{Targets: []string{"b1", "b1"}, Requirement: TargetRequirement{MinTargets: 1, MaxTargets: 2}}
		assert.Error(t, v.ValidateSelection(sel, candidates))
	})
	t.Run("optional empty", func(t *testing.T) {
		sel := &TargetSelection{Requirement: TargetRequirement{MinTargets: 1, MaxTargets: 1, Optional: true}}
		assert.NoError(t, v.ValidateSelection(sel, candidates))
	})
}

func TestFormatTargets(t *testing.T) {
	formatted := FormatTargets([]Target{CardTarget("x"), PlayerTarget("p1")})
	assert.Equal(t, "x,p1", formatted)
	assert.Equal(t, []string{"x", "p1"}, ParseTargets(formatted))
	assert.Empty(t, ParseTargets(""))
}
