package effects

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StatAura is a static bonus to the characters a player controls, active
// while its source is in play ("Your other Hero characters get +1 lore").
type StatAura struct {
	id           string
	sourceID     string
	controllerID string
	stat         Stat
	amount       int
	includeSelf  bool
	subtype      string
}

// NewStatAura creates a static aura. The ID is derived from its parameters
// so installing the same aura twice replaces rather than stacks.
func NewStatAura(sourceID, controllerID string, stat Stat, amount int, includeSelf bool, subtype string) *StatAura {
	source := strings.TrimSpace(sourceID)
	controller := strings.TrimSpace(controllerID)
	seed := fmt.Sprintf("%s|%s|%d|%d|%t|%s", source, controller, stat, amount, includeSelf, subtype)
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()

	return &StatAura{
		id:           id,
		sourceID:     source,
		controllerID: controller,
		stat:         stat,
		amount:       amount,
		includeSelf:  includeSelf,
		subtype:      strings.TrimSpace(subtype),
	}
}

// ID returns the unique identifier.
func (e *StatAura) ID() string {
	return e.id
}

// Layer identifies the layer in which the effect applies.
func (e *StatAura) Layer() Layer {
	return LayerStats
}

// Duration returns how long the effect lasts.
func (e *StatAura) Duration() Duration {
	return DurationWhileSourceInPlay
}

// SourceID returns the card granting the aura.
func (e *StatAura) SourceID() string {
	return e.sourceID
}

// ControllerID returns the player whose characters benefit.
func (e *StatAura) ControllerID() string {
	return e.controllerID
}

// AppliesTo determines whether the snapshot should receive the modification.
func (e *StatAura) AppliesTo(snapshot *Snapshot) bool {
	if snapshot == nil || !snapshot.Character || snapshot.Zone != "play" {
		return false
	}
	if snapshot.ControllerID != e.controllerID {
		return false
	}
	if !e.includeSelf && snapshot.CardID == e.sourceID {
		return false
	}
	if e.subtype != "" && !snapshot.HasSubtype(e.subtype) {
		return false
	}
	return true
}

// Apply mutates the snapshot.
func (e *StatAura) Apply(snapshot *Snapshot) {
	snapshot.Modify(e.stat, e.amount)
}
