package state

import (
	"fmt"
	"strings"
)

// Zone identifies where a card currently is.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneHand
	ZoneDeck
	ZoneDiscard
	ZoneInkwell
	ZonePlay
)

var zoneNames = map[Zone]string{
	ZoneNone:    "none",
	ZoneHand:    "hand",
	ZoneDeck:    "deck",
	ZoneDiscard: "discard",
	ZoneInkwell: "inkwell",
	ZonePlay:    "play",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("zone_%d", int(z))
}

// ParseZone resolves a zone by name.
func ParseZone(name string) (Zone, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for z, n := range zoneNames {
		if n == name && z != ZoneNone {
			return z, true
		}
	}
	return ZoneNone, false
}

// CardKind is the printed card type.
type CardKind int

const (
	KindCharacter CardKind = iota
	KindAction
	KindItem
)

func (k CardKind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindAction:
		return "action"
	case KindItem:
		return "item"
	default:
		return fmt.Sprintf("kind_%d", int(k))
	}
}

// ParseKind resolves a card kind by name.
func ParseKind(name string) (CardKind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "character":
		return KindCharacter, true
	case "action", "song":
		return KindAction, true
	case "item":
		return KindItem, true
	default:
		return KindCharacter, false
	}
}

// Card is one physical card in a game. Printed attributes never change; the
// current values of modifiable stats are derived through GameState.
type Card struct {
	ID           string
	DefinitionID string
	Name         string
	Title        string
	Kind         CardKind
	Cost         int
	Inkable      bool
	Strength     int
	Willpower    int
	Lore         int
	Subtypes     []string
	Song         bool
	SingCost     int
	OwnerID      string

	Zone       Zone
	Damage     int
	Exerted    bool
	Dry        bool
	TurnPlayed int
	Metadata   map[string]string
}

// FullName returns "Name - Title" when the card has a title.
func (c *Card) FullName() string {
	if c.Title == "" {
		return c.Name
	}
	return c.Name + " - " + c.Title
}

// IsCharacter reports whether the card is a character.
func (c *Card) IsCharacter() bool {
	return c.Kind == KindCharacter
}

// HasSubtype reports whether the card has the subtype (case-insensitive).
func (c *Card) HasSubtype(subtype string) bool {
	for _, s := range c.Subtypes {
		if strings.EqualFold(s, subtype) {
			return true
		}
	}
	return false
}

// SongCost is the cost a singer must meet to sing this song.
func (c *Card) SongCost() int {
	if c.SingCost > 0 {
		return c.SingCost
	}
	return c.Cost
}

// SetMeta stores a metadata value.
func (c *Card) SetMeta(key, value string) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]string)
	}
	c.Metadata[key] = value
}

// resetRuntime clears per-visit state when a card leaves play.
func (c *Card) resetRuntime() {
	c.Damage = 0
	c.Exerted = false
	c.Dry = false
	c.TurnPlayed = 0
}
