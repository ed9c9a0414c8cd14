package targeting

import (
	"fmt"

	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// Validator checks that chosen targets are legal for a chooser.
type Validator struct {
	gameState *state.GameState
	keywords  KeywordQuery
}

// NewValidator creates a validator. A nil keyword query disables Ward.
func NewValidator(gs *state.GameState, kw KeywordQuery) *Validator {
	return &Validator{gameState: gs, keywords: kw}
}

// Chooseable reports whether chooserID may choose the target. Opponents
// cannot choose characters with Ward.
func (v *Validator) Chooseable(t Target, chooserID string) bool {
	if t.IsPlayer() {
		return v.gameState.Player(t.PlayerID) != nil
	}
	card := v.gameState.Card(t.CardID)
	if card == nil {
		return false
	}
	if card.OwnerID == chooserID || v.keywords == nil {
		return true
	}
	return !v.keywords.Capabilities(card.ID).Has(keywords.Ward)
}

// Candidates keeps only the targets the chooser may choose.
func (v *Validator) Candidates(targets []Target, chooserID string) []Target {
	var out []Target
	for _, t := range targets {
		if v.Chooseable(t, chooserID) {
			out = append(out, t)
		}
	}
	return out
}

// ValidateSelection checks a selection against its requirement and the
// candidate set offered to the chooser.
func (v *Validator) ValidateSelection(selection *TargetSelection, candidates []Target) error {
	if v == nil || v.gameState == nil {
		return fmt.Errorf("target validator not initialized")
	}
	if err := selection.Validate(); err != nil {
		return err
	}
	offered := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		offered[c.ID()] = true
	}
	for _, id := range selection.Targets {
		if !offered[id] {
			return fmt.Errorf("invalid target %s: not among the offered candidates", id)
		}
	}
	return nil
}
