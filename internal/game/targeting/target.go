// Package targeting resolves which cards and players an effect applies to.
package targeting

import (
	"fmt"
	"strings"

	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
)

// Target is either a card or a player.
type Target struct {
	CardID   string
	PlayerID string
}

// CardTarget targets a card.
func CardTarget(id string) Target { return Target{CardID: id} }

// PlayerTarget targets a player.
func PlayerTarget(id string) Target { return Target{PlayerID: id} }

// IsPlayer reports whether the target is a player.
func (t Target) IsPlayer() bool {
	return t.CardID == "" && t.PlayerID != ""
}

// ID returns the card or player ID.
func (t Target) ID() string {
	if t.CardID != "" {
		return t.CardID
	}
	return t.PlayerID
}

func (t Target) String() string {
	if t.IsPlayer() {
		return "player:" + t.PlayerID
	}
	return "card:" + t.CardID
}

// KeywordQuery reports the keyword capabilities a card currently has.
type KeywordQuery interface {
	Capabilities(cardID string) keywords.Set
}

// Context is the frame a selector is evaluated in.
type Context struct {
	SourceID     string
	ControllerID string
	Event        rules.Event
	Keywords     KeywordQuery
}

// TargetRequirement defines how many targets a choice needs.
type TargetRequirement struct {
	MinTargets  int
	MaxTargets  int
	Optional    bool
	Description string
}

// TargetSelection is a player's answer to a requirement.
type TargetSelection struct {
	Targets     []string
	Requirement TargetRequirement
}

// Validate checks counts and duplicates. An optional requirement also
// accepts an empty selection.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("target selection is nil")
	}
	count := len(ts.Targets)
	if !(ts.Requirement.Optional && count == 0) && count < ts.Requirement.MinTargets {
		return fmt.Errorf("not enough targets: need at least %d, got %d", ts.Requirement.MinTargets, count)
	}
	if ts.Requirement.MaxTargets > 0 && count > ts.Requirement.MaxTargets {
		return fmt.Errorf("too many targets: need at most %d, got %d", ts.Requirement.MaxTargets, count)
	}
	seen := make(map[string]bool, count)
	for _, id := range ts.Targets {
		if seen[id] {
			return fmt.Errorf("duplicate target: %s", id)
		}
		seen[id] = true
	}
	return nil
}

// FormatTargets joins targets for event metadata.
func FormatTargets(targets []Target) string {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.ID())
	}
	return strings.Join(ids, ",")
}

// ParseTargets splits a metadata value produced by FormatTargets.
func ParseTargets(formatted string) []string {
	if formatted == "" {
		return []string{}
	}
	return strings.Split(formatted, ",")
}
