package targeting

import (
	"fmt"

	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// SelectorKind tags the shape of a Selector.
type SelectorKind int

const (
	SelectSelf SelectorKind = iota
	SelectEventSource
	SelectEventTarget
	SelectYourCharacters
	SelectOpposingCharacters
	SelectAllCharacters
	SelectController
	SelectOpponents
	SelectUnion
	SelectExcept
)

var selectorNames = map[SelectorKind]string{
	SelectSelf:               "self",
	SelectEventSource:        "event_source",
	SelectEventTarget:        "event_target",
	SelectYourCharacters:     "your_characters",
	SelectOpposingCharacters: "opposing_characters",
	SelectAllCharacters:      "all_characters",
	SelectController:         "controller",
	SelectOpponents:          "opponents",
	SelectUnion:              "union",
	SelectExcept:             "except",
}

func (k SelectorKind) String() string {
	if name, ok := selectorNames[k]; ok {
		return name
	}
	return fmt.Sprintf("selector_%d", int(k))
}

// Selector describes a set of targets. Character selectors may carry a
// filter; Union and Except combine Parts.
type Selector struct {
	Kind   SelectorKind
	Filter Filter
	Parts  []Selector
}

func Self() Selector        { return Selector{Kind: SelectSelf} }
func EventSource() Selector { return Selector{Kind: SelectEventSource} }
func EventTarget() Selector { return Selector{Kind: SelectEventTarget} }
func Controller() Selector  { return Selector{Kind: SelectController} }
func Opponents() Selector   { return Selector{Kind: SelectOpponents} }

// YourCharacters selects the controller's characters in play.
func YourCharacters(filters ...Filter) Selector {
	return Selector{Kind: SelectYourCharacters, Filter: And(filters...)}
}

// OpposingCharacters selects opponents' characters in play.
func OpposingCharacters(filters ...Filter) Selector {
	return Selector{Kind: SelectOpposingCharacters, Filter: And(filters...)}
}

// AllCharacters selects every character in play.
func AllCharacters(filters ...Filter) Selector {
	return Selector{Kind: SelectAllCharacters, Filter: And(filters...)}
}

// Union selects the distinct targets of every part, in order.
func Union(parts ...Selector) Selector {
	return Selector{Kind: SelectUnion, Parts: parts}
}

// Except selects the targets of base that are not in excluded.
func Except(base, excluded Selector) Selector {
	return Selector{Kind: SelectExcept, Parts: []Selector{base, excluded}}
}

func (s Selector) String() string {
	return s.Kind.String()
}

// Select evaluates the selector. Results follow seat order and then board
// order, and never contain duplicates.
func Select(gs *state.GameState, s Selector, ctx Context) []Target {
	switch s.Kind {
	case SelectSelf:
		return cardIfExists(gs, ctx.SourceID)
	case SelectEventSource:
		return cardIfExists(gs, ctx.Event.SourceID)
	case SelectEventTarget:
		return cardIfExists(gs, ctx.Event.TargetID)
	case SelectYourCharacters:
		if p := gs.Player(ctx.ControllerID); p != nil {
			return filterCards(gs, p.Characters, s.Filter, ctx)
		}
		return nil
	case SelectOpposingCharacters:
		var out []Target
		for _, p := range gs.Opponents(ctx.ControllerID) {
			out = append(out, filterCards(gs, p.Characters, s.Filter, ctx)...)
		}
		return out
	case SelectAllCharacters:
		return filterCards(gs, gs.AllCharacters(), s.Filter, ctx)
	case SelectController:
		if gs.Player(ctx.ControllerID) == nil {
			return nil
		}
		return []Target{PlayerTarget(ctx.ControllerID)}
	case SelectOpponents:
		var out []Target
		for _, p := range gs.Opponents(ctx.ControllerID) {
			out = append(out, PlayerTarget(p.ID))
		}
		return out
	case SelectUnion:
		seen := make(map[Target]bool)
		var out []Target
		for _, part := range s.Parts {
			for _, t := range Select(gs, part, ctx) {
				if !seen[t] {
					seen[t] = true
					out = append(out, t)
				}
			}
		}
		return out
	case SelectExcept:
		if len(s.Parts) != 2 {
			return nil
		}
		excluded := make(map[Target]bool)
		for _, t := range Select(gs, s.Parts[1], ctx) {
			excluded[t] = true
		}
		var out []Target
		for _, t := range Select(gs, s.Parts[0], ctx) {
			if !excluded[t] {
				out = append(out, t)
			}
		}
		return out
	default:
		return nil
	}
}

func cardIfExists(gs *state.GameState, id string) []Target {
	if id == "" || gs.Card(id) == nil {
		return nil
	}
	return []Target{CardTarget(id)}
}

func filterCards(gs *state.GameState, cards []*state.Card, f Filter, ctx Context) []Target {
	var out []Target
	for _, c := range cards {
		if f == nil || f(gs, c, ctx) {
			out = append(out, CardTarget(c.ID))
		}
	}
	return out
}
