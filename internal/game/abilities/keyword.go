package abilities

import (
	"fmt"

	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// Event metadata describing what made a player choose a character.
const (
	MetaSourceKind   = "source_kind"
	SourceKindAction = "action"
)

// Keyword builds the ability record for a keyword. Unknown keywords yield
// false.
func (r *Registry) Keyword(k keywords.Keyword, value int) (Ability, bool) {
	def, ok := r.keywords.Lookup(k)
	if !ok {
		return Ability{}, false
	}
	name := string(def.Keyword)
	if def.Valued {
		name = fmt.Sprintf("%s %d", def.Keyword, value)
	}
	ability := Ability{Name: name, Keyword: def.Keyword, Value: value, Zones: InPlay}

	switch def.Keyword {
	case keywords.Shift:
		ability.Zones = Zones(state.ZoneHand)
	case keywords.Bodyguard:
		ability.Triggers = []TriggeredEffect{{
			Trigger:  When(OnEnterPlay, ScopeSelf),
			Selector: targeting.Self(),
			Effect:   May{Prompt: "Enter play exerted?", Effect: Exert{}},
		}}
	case keywords.Support:
		ability.Triggers = []TriggeredEffect{{
			Trigger:  When(OnQuest, ScopeSelf),
			Selector: targeting.Self(),
			Effect: ChooseTargets{
				Prompt:   "Add this character's strength to another chosen character?",
				Selector: targeting.YourCharacters(targeting.NotSelf()),
				Min:      1,
				Max:      1,
				Optional: true,
				Effect: ModifyStat{
					Stat:     effects.StatStrength,
					Duration: effects.DurationThisTurn,
					Scaling:  effects.StatStrength,
				},
			},
		}}
	case keywords.Vanish:
		ability.Triggers = []TriggeredEffect{{
			Trigger:   When(OnChosen, ScopeSelf),
			Condition: And(ChosenByOpponent(), EventMeta(MetaSourceKind, SourceKindAction)),
			Selector:  targeting.Self(),
			Effect:    Banish{},
		}}
	}
	return ability, true
}
