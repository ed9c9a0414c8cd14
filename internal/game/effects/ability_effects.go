package effects

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
)

// base carries the bookkeeping shared by every continuous effect.
type base struct {
	id           string
	sourceID     string
	controllerID string
	duration     Duration
}

func newBase(sourceID, controllerID string, duration Duration) base {
	if duration == "" {
		duration = DurationThisTurn
	}
	return base{
		id:           uuid.NewString(),
		sourceID:     strings.TrimSpace(sourceID),
		controllerID: strings.TrimSpace(controllerID),
		duration:     duration,
	}
}

// ID returns the unique identifier.
func (b base) ID() string { return b.id }

// SourceID returns the card that created the effect.
func (b base) SourceID() string { return b.sourceID }

// ControllerID returns the player controlling the effect.
func (b base) ControllerID() string { return b.controllerID }

// Duration returns how long the effect lasts.
func (b base) Duration() Duration { return b.duration }

// StatModifier changes one stat of a single character.
type StatModifier struct {
	base
	targetID string
	stat     Stat
	amount   int
}

// NewStatModifier creates a stat modification for one character.
func NewStatModifier(sourceID, controllerID, targetID string, stat Stat, amount int, duration Duration) *StatModifier {
	return &StatModifier{
		base:     newBase(sourceID, controllerID, duration),
		targetID: strings.TrimSpace(targetID),
		stat:     stat,
		amount:   amount,
	}
}

// Layer identifies the layer in which the effect applies.
func (e *StatModifier) Layer() Layer { return LayerStats }

// TargetID returns the modified character.
func (e *StatModifier) TargetID() string { return e.targetID }

// Stat returns the modified stat.
func (e *StatModifier) Stat() Stat { return e.stat }

// Amount returns the signed modification.
func (e *StatModifier) Amount() int { return e.amount }

// AppliesTo reports whether the snapshot is the target.
func (e *StatModifier) AppliesTo(snapshot *Snapshot) bool {
	return snapshot != nil && snapshot.CardID == e.targetID
}

// Apply mutates the snapshot.
func (e *StatModifier) Apply(snapshot *Snapshot) {
	snapshot.Modify(e.stat, e.amount)
}

func (e *StatModifier) String() string {
	return fmt.Sprintf("%+d %s to %s (%s)", e.amount, e.stat, e.targetID, e.duration)
}

// KeywordGrant gives a keyword to a single character.
type KeywordGrant struct {
	base
	targetID string
	keyword  keywords.Keyword
	value    int
}

// NewKeywordGrant creates a keyword-granting effect.
func NewKeywordGrant(sourceID, controllerID, targetID string, keyword keywords.Keyword, value int, duration Duration) *KeywordGrant {
	return &KeywordGrant{
		base:     newBase(sourceID, controllerID, duration),
		targetID: strings.TrimSpace(targetID),
		keyword:  keyword,
		value:    value,
	}
}

// Layer identifies the layer in which the effect applies.
func (e *KeywordGrant) Layer() Layer { return LayerAbility }

// TargetID returns the character receiving the keyword.
func (e *KeywordGrant) TargetID() string { return e.targetID }

// Keyword returns the granted keyword.
func (e *KeywordGrant) Keyword() keywords.Keyword { return e.keyword }

// AppliesTo reports whether the snapshot is the target.
func (e *KeywordGrant) AppliesTo(snapshot *Snapshot) bool {
	return snapshot != nil && snapshot.CardID == e.targetID
}

// Apply records the grant on the snapshot.
func (e *KeywordGrant) Apply(snapshot *Snapshot) {
	snapshot.Grants = append(snapshot.Grants, Grant{Keyword: e.keyword, Value: e.value})
}

// CostModifier changes the cost of cards a player plays. Negative amounts
// are reductions.
type CostModifier struct {
	base
	playerID string
	amount   int
	filter   func(*Snapshot) bool
}

// NewCostModifier creates a cost modification for one player's cards. A nil
// filter matches every card.
func NewCostModifier(sourceID, playerID string, amount int, filter func(*Snapshot) bool, duration Duration) *CostModifier {
	return &CostModifier{
		base:     newBase(sourceID, playerID, duration),
		playerID: strings.TrimSpace(playerID),
		amount:   amount,
		filter:   filter,
	}
}

// Layer identifies the layer in which the effect applies.
func (e *CostModifier) Layer() Layer { return LayerCost }

// Amount returns the signed cost change.
func (e *CostModifier) Amount() int { return e.amount }

// AppliesTo reports whether the card belongs to the player and matches the filter.
func (e *CostModifier) AppliesTo(snapshot *Snapshot) bool {
	if snapshot == nil || snapshot.ControllerID != e.playerID {
		return false
	}
	return e.filter == nil || e.filter(snapshot)
}

// Apply records the adjustment; the cost fold happens in the ink package.
func (e *CostModifier) Apply(snapshot *Snapshot) {
	snapshot.CostAdjustments = append(snapshot.CostAdjustments, e.amount)
}
