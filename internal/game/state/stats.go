package state

import (
	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/ink"
)

// Snapshot evaluates the continuous modifiers that currently apply to card.
func (gs *GameState) Snapshot(card *Card) *effects.Snapshot {
	snap := &effects.Snapshot{
		CardID:        card.ID,
		ControllerID:  card.OwnerID,
		Name:          card.Name,
		Subtypes:      card.Subtypes,
		Zone:          card.Zone.String(),
		Character:     card.IsCharacter(),
		BaseStrength:  card.Strength,
		BaseWillpower: card.Willpower,
		BaseLore:      card.Lore,
		BaseCost:      card.Cost,
	}
	gs.Modifiers.Apply(snap)
	return snap
}

// Strength returns the current strength, never below zero.
func (gs *GameState) Strength(card *Card) int {
	return clamp(gs.Snapshot(card).Strength)
}

// Willpower returns the current willpower, never below zero.
func (gs *GameState) Willpower(card *Card) int {
	return clamp(gs.Snapshot(card).Willpower)
}

// LoreValue returns the current lore value, never below zero.
func (gs *GameState) LoreValue(card *Card) int {
	return clamp(gs.Snapshot(card).Lore)
}

// PlayCost returns the printed cost folded with active cost modifiers.
func (gs *GameState) PlayCost(card *Card) int {
	snap := gs.Snapshot(card)
	return ink.Fold(card.Cost, snap.CostAdjustments)
}

// IsAlive reports whether a character's damage is below its willpower.
func (gs *GameState) IsAlive(card *Card) bool {
	return card.Damage < gs.Willpower(card)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
