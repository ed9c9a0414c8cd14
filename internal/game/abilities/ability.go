// Package abilities describes card abilities as composable data (trigger,
// condition, selector, effect) and binds them to the event bus.
package abilities

import (
	"strings"

	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// ZoneSet is a set of zones in which an ability is live.
type ZoneSet uint8

// Zones builds a zone set.
func Zones(zones ...state.Zone) ZoneSet {
	var set ZoneSet
	for _, z := range zones {
		set |= 1 << uint(z)
	}
	return set
}

// InPlay is the zone set of most character and item abilities.
var InPlay = Zones(state.ZonePlay)

// Has reports whether z is in the set.
func (s ZoneSet) Has(z state.Zone) bool {
	return s&(1<<uint(z)) != 0
}

func (s ZoneSet) String() string {
	var names []string
	for z := state.ZoneHand; z <= state.ZonePlay; z++ {
		if s.Has(z) {
			names = append(names, z.String())
		}
	}
	return strings.Join(names, "|")
}

// TriggeredEffect pairs a trigger with the effect it produces.
type TriggeredEffect struct {
	Trigger   TriggerSpec
	Condition Condition
	Selector  targeting.Selector
	Effect    Effect
}

// StaticSpec is a continuous stat bonus to the controller's characters,
// active while the source is in play.
type StaticSpec struct {
	Stat        effects.Stat
	Amount      int
	IncludeSelf bool
	Subtype     string
}

// Ability is attached to a card. Keyword abilities set Keyword and Value;
// other abilities carry triggers and statics.
type Ability struct {
	Name     string
	Keyword  keywords.Keyword
	Value    int
	Zones    ZoneSet
	Triggers []TriggeredEffect
	Statics  []StaticSpec
}

// LiveIn reports whether the ability is live for a card in zone z.
func (a Ability) LiveIn(z state.Zone) bool {
	return a.Zones.Has(z)
}

// Triggered builds a single-trigger ability live in play.
func Triggered(name string, trigger TriggerSpec, cond Condition, sel targeting.Selector, effect Effect) Ability {
	return Ability{
		Name:  name,
		Zones: InPlay,
		Triggers: []TriggeredEffect{{
			Trigger:   trigger,
			Condition: cond,
			Selector:  sel,
			Effect:    effect,
		}},
	}
}

// ActionEffect builds the ability of an action card: it resolves when the
// card itself is played. Played actions sit in the discard.
func ActionEffect(name string, sel targeting.Selector, effect Effect) Ability {
	return Ability{
		Name:  name,
		Zones: Zones(state.ZoneDiscard),
		Triggers: []TriggeredEffect{{
			Trigger:  When(OnPlay, ScopeSelf),
			Selector: sel,
			Effect:   effect,
		}},
	}
}

// Aura builds a static ability.
func Aura(name string, spec StaticSpec) Ability {
	return Ability{Name: name, Zones: InPlay, Statics: []StaticSpec{spec}}
}
