package targeting

import (
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// Filter narrows a set of candidate cards.
type Filter func(gs *state.GameState, card *state.Card, ctx Context) bool

// Ready matches characters that are not exerted.
func Ready() Filter {
	return func(_ *state.GameState, c *state.Card, _ Context) bool { return !c.Exerted }
}

// Exerted matches exerted characters.
func Exerted() Filter {
	return func(_ *state.GameState, c *state.Card, _ Context) bool { return c.Exerted }
}

// Damaged matches characters with at least one damage.
func Damaged() Filter {
	return func(_ *state.GameState, c *state.Card, _ Context) bool { return c.Damage > 0 }
}

// NotSelf excludes the source card.
func NotSelf() Filter {
	return func(_ *state.GameState, c *state.Card, ctx Context) bool { return c.ID != ctx.SourceID }
}

// CostAtMost matches cards whose printed cost is at most n.
func CostAtMost(n int) Filter {
	return func(_ *state.GameState, c *state.Card, _ Context) bool { return c.Cost <= n }
}

// StrengthAtMost matches characters whose current strength is at most n.
func StrengthAtMost(n int) Filter {
	return func(gs *state.GameState, c *state.Card, _ Context) bool { return gs.Strength(c) <= n }
}

// HasSubtype matches cards with the subtype.
func HasSubtype(subtype string) Filter {
	return func(_ *state.GameState, c *state.Card, _ Context) bool { return c.HasSubtype(subtype) }
}

// HasKeyword matches cards currently having the keyword.
func HasKeyword(k keywords.Keyword) Filter {
	return func(_ *state.GameState, c *state.Card, ctx Context) bool {
		if ctx.Keywords == nil {
			return false
		}
		return ctx.Keywords.Capabilities(c.ID).Has(k)
	}
}

// And matches when every filter matches.
func And(filters ...Filter) Filter {
	return func(gs *state.GameState, c *state.Card, ctx Context) bool {
		for _, f := range filters {
			if f != nil && !f(gs, c, ctx) {
				return false
			}
		}
		return true
	}
}

// Not inverts a filter.
func Not(f Filter) Filter {
	return func(gs *state.GameState, c *state.Card, ctx Context) bool { return !f(gs, c, ctx) }
}
