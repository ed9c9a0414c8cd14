// Package resolution holds the read-only rules queries the engine consults:
// damage and cost calculation and legal move enumeration.
package resolution

import (
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// Capabilities answers keyword questions about cards. The ability registry
// implements it.
type Capabilities interface {
	HasKeyword(cardID string, k keywords.Keyword) bool
	KeywordValue(cardID string, k keywords.Keyword) int
	ShiftValue(cardID string) (int, bool)
}

// DamageKind says how damage is being dealt.
type DamageKind int

const (
	// DamageAbility is damage dealt by an ability or action.
	DamageAbility DamageKind = iota
	// DamageChallengeAttacker is damage the challenging character deals.
	DamageChallengeAttacker
	// DamageChallengeDefender is damage the challenged character deals back.
	DamageChallengeDefender
)

func (k DamageKind) String() string {
	switch k {
	case DamageChallengeAttacker:
		return "challenge_attacker"
	case DamageChallengeDefender:
		return "challenge_defender"
	default:
		return "ability"
	}
}

// DamageCalculator computes final damage from a base amount.
type DamageCalculator struct {
	caps Capabilities
}

// NewDamageCalculator creates a damage calculator.
func NewDamageCalculator(caps Capabilities) *DamageCalculator {
	return &DamageCalculator{caps: caps}
}

// Calculate adds source modifiers (Challenger, only for the challenging
// character) to the base, subtracts target modifiers (Resist) and clamps
// the result at zero. source may be nil.
func (d *DamageCalculator) Calculate(source, target *state.Card, base int, kind DamageKind) int {
	amount := base
	if source != nil && kind == DamageChallengeAttacker {
		amount += d.caps.KeywordValue(source.ID, keywords.Challenger)
	}
	if target != nil {
		amount -= d.caps.KeywordValue(target.ID, keywords.Resist)
	}
	return atLeastZero(amount)
}

// Challenge returns the damage each side of a challenge deals. Both
// amounts are computed from the state before either is applied.
func (d *DamageCalculator) Challenge(gs *state.GameState, attacker, defender *state.Card) (toDefender, toAttacker int) {
	toDefender = d.Calculate(attacker, defender, gs.Strength(attacker), DamageChallengeAttacker)
	toAttacker = d.Calculate(defender, attacker, gs.Strength(defender), DamageChallengeDefender)
	return toDefender, toAttacker
}

func atLeastZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
