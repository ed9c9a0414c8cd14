// Package catalog turns structured card definitions into game cards and
// their ability records. Definitions come from YAML files or a PostgreSQL
// table; both share the same field layout.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

var (
	// ErrUnknownCard is returned when a deck list names a definition the catalog does not hold.
	ErrUnknownCard = errors.New("unknown card definition")
	// ErrInvalidDefinition is returned when a definition cannot be built.
	ErrInvalidDefinition = errors.New("invalid card definition")
)

// Definition is the printed description of one card.
type Definition struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Title     string        `yaml:"title,omitempty"`
	Kind      string        `yaml:"kind"`
	Cost      int           `yaml:"cost"`
	Inkable   bool          `yaml:"inkable"`
	Strength  int           `yaml:"strength,omitempty"`
	Willpower int           `yaml:"willpower,omitempty"`
	Lore      int           `yaml:"lore,omitempty"`
	Subtypes  []string      `yaml:"subtypes,omitempty"`
	Song      bool          `yaml:"song,omitempty"`
	SingCost  int           `yaml:"sing_cost,omitempty"`
	Keywords  []KeywordSpec `yaml:"keywords,omitempty"`
	Abilities []AbilitySpec `yaml:"abilities,omitempty"`
}

// FullName returns "Name - Title" when the definition has a title.
func (d Definition) FullName() string {
	if d.Title == "" {
		return d.Name
	}
	return d.Name + " - " + d.Title
}

// KeywordSpec names a keyword and its value (Resist 2, Shift 4).
type KeywordSpec struct {
	Keyword string `yaml:"keyword"`
	Value   int    `yaml:"value,omitempty"`
}

// AbilitySpec describes a non-keyword ability. Exactly one of Trigger,
// Static or (for action cards) neither is set: an action ability without a
// trigger resolves when the card is played.
type AbilitySpec struct {
	Name      string         `yaml:"name"`
	Trigger   string         `yaml:"trigger,omitempty"`
	Scope     string         `yaml:"scope,omitempty"`
	Condition *ConditionSpec `yaml:"condition,omitempty"`
	Selector  *SelectorSpec  `yaml:"selector,omitempty"`
	Effect    *EffectSpec    `yaml:"effect,omitempty"`
	Static    *StaticSpec    `yaml:"static,omitempty"`
}

// StaticSpec is a stat aura over the controller's characters.
type StaticSpec struct {
	Stat        string `yaml:"stat"`
	Amount      int    `yaml:"amount"`
	IncludeSelf bool   `yaml:"include_self,omitempty"`
	Subtype     string `yaml:"subtype,omitempty"`
}

// EffectSpec is the structured form of an effect. Kind selects which of the
// other fields are read.
type EffectSpec struct {
	Kind     string `yaml:"kind"`
	Amount   int    `yaml:"amount,omitempty"`
	Count    int    `yaml:"count,omitempty"`
	Stat     string `yaml:"stat,omitempty"`
	Scaling  string `yaml:"scaling,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	Keyword  string `yaml:"keyword,omitempty"`
	Value    int    `yaml:"value,omitempty"`
	Subtype  string `yaml:"subtype,omitempty"`
	Reason   string `yaml:"reason,omitempty"`

	Prompt   string        `yaml:"prompt,omitempty"`
	Min      int           `yaml:"min,omitempty"`
	Max      int           `yaml:"max,omitempty"`
	Optional bool          `yaml:"optional,omitempty"`
	Selector *SelectorSpec `yaml:"selector,omitempty"`

	Effect  *EffectSpec    `yaml:"effect,omitempty"`
	Effects []EffectSpec   `yaml:"effects,omitempty"`
	Guard   *ConditionSpec `yaml:"if,omitempty"`
	Then    *EffectSpec    `yaml:"then,omitempty"`
	Else    *EffectSpec    `yaml:"else,omitempty"`
	Options []OptionSpec   `yaml:"options,omitempty"`
}

// OptionSpec is one labeled branch of a choose_one effect.
type OptionSpec struct {
	Label  string     `yaml:"label"`
	Effect EffectSpec `yaml:"effect"`
}

// ConditionSpec is the structured form of a condition.
type ConditionSpec struct {
	Kind       string          `yaml:"kind"`
	Value      int             `yaml:"value,omitempty"`
	Subtype    string          `yaml:"subtype,omitempty"`
	Key        string          `yaml:"key,omitempty"`
	Meta       string          `yaml:"meta,omitempty"`
	Conditions []ConditionSpec `yaml:"conditions,omitempty"`
}

// SelectorSpec is the structured form of a target selector.
type SelectorSpec struct {
	Kind    string         `yaml:"kind"`
	Filters []FilterSpec   `yaml:"filters,omitempty"`
	Parts   []SelectorSpec `yaml:"parts,omitempty"`
}

// FilterSpec is one card filter of a selector.
type FilterSpec struct {
	Kind    string `yaml:"kind"`
	Value   int    `yaml:"value,omitempty"`
	Subtype string `yaml:"subtype,omitempty"`
	Keyword string `yaml:"keyword,omitempty"`
	Negate  bool   `yaml:"not,omitempty"`
}

// Validate checks the printed fields; ability specs are checked when built.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDefinition)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: %s: missing name", ErrInvalidDefinition, d.ID)
	}
	kind, ok := state.ParseKind(d.Kind)
	if !ok {
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidDefinition, d.ID, d.Kind)
	}
	if d.Cost < 0 {
		return fmt.Errorf("%w: %s: negative cost", ErrInvalidDefinition, d.ID)
	}
	if kind == state.KindCharacter && d.Willpower <= 0 {
		return fmt.Errorf("%w: %s: character needs willpower", ErrInvalidDefinition, d.ID)
	}
	return nil
}

// newCard creates a fresh card instance from the definition.
func (d Definition) newCard(id, ownerID string) *state.Card {
	kind, _ := state.ParseKind(d.Kind)
	song := d.Song || strings.EqualFold(strings.TrimSpace(d.Kind), "song")
	return &state.Card{
		ID:           id,
		DefinitionID: d.ID,
		Name:         d.Name,
		Title:        d.Title,
		Kind:         kind,
		Cost:         d.Cost,
		Inkable:      d.Inkable,
		Strength:     d.Strength,
		Willpower:    d.Willpower,
		Lore:         d.Lore,
		Subtypes:     append([]string(nil), d.Subtypes...),
		Song:         song,
		SingCost:     d.SingCost,
		OwnerID:      ownerID,
		Zone:         state.ZoneDeck,
	}
}
