package state

import (
	"github.com/lorcanasim/lorcana-engine/internal/game/ink"
)

// Player owns five disjoint card containers and a lore counter. The last
// card of Deck is the top of the deck.
type Player struct {
	ID         string
	Name       string
	Hand       []*Card
	Deck       []*Card
	Discard    []*Card
	Inkwell    []*Card
	Characters []*Card
	Items      []*Card
	Lore       int
	Ink        *ink.Pool
}

// NewPlayer creates a player with an empty ink pool.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Ink:  ink.NewPool(),
	}
}

// InPlay returns characters followed by items.
func (p *Player) InPlay() []*Card {
	out := make([]*Card, 0, len(p.Characters)+len(p.Items))
	out = append(out, p.Characters...)
	return append(out, p.Items...)
}

// ReadyCharacters returns the player's characters that are not exerted.
func (p *Player) ReadyCharacters() []*Card {
	var out []*Card
	for _, c := range p.Characters {
		if !c.Exerted {
			out = append(out, c)
		}
	}
	return out
}

// container returns a pointer to the slice holding cards of zone z for a card
// of kind k.
func (p *Player) container(z Zone, k CardKind) *[]*Card {
	switch z {
	case ZoneHand:
		return &p.Hand
	case ZoneDeck:
		return &p.Deck
	case ZoneDiscard:
		return &p.Discard
	case ZoneInkwell:
		return &p.Inkwell
	case ZonePlay:
		if k == KindItem {
			return &p.Items
		}
		return &p.Characters
	default:
		return nil
	}
}

func removeCard(cards []*Card, id string) ([]*Card, bool) {
	for i, c := range cards {
		if c.ID == id {
			return append(cards[:i], cards[i+1:]...), true
		}
	}
	return cards, false
}
