package resolution

import (
	"github.com/lorcanasim/lorcana-engine/internal/game/ink"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// CostCalculator folds cost modifiers over printed and shift costs.
type CostCalculator struct {
	caps Capabilities
}

// NewCostCalculator creates a cost calculator.
func NewCostCalculator(caps Capabilities) *CostCalculator {
	return &CostCalculator{caps: caps}
}

// Cost returns what the card's owner pays to play it normally.
func (c *CostCalculator) Cost(gs *state.GameState, card *state.Card) int {
	return gs.PlayCost(card)
}

// ShiftCost returns what the owner pays to shift the card, and false when
// the card has no Shift.
func (c *CostCalculator) ShiftCost(gs *state.GameState, card *state.Card) (int, bool) {
	base, ok := c.caps.ShiftValue(card.ID)
	if !ok {
		return 0, false
	}
	return ink.Fold(base, gs.Snapshot(card).CostAdjustments), true
}

// CanAfford reports whether the player's ready ink covers cost.
func (c *CostCalculator) CanAfford(p *state.Player, cost int) bool {
	return p.Ink.CanPay(cost)
}
