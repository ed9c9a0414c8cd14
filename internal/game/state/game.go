// Package state holds the mutable aggregate of a Lorcana game: players,
// their card containers, turn progress and continuous modifiers.
package state

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
)

var (
	// ErrUnknownCard is returned for a card ID the game does not contain.
	ErrUnknownCard = errors.New("unknown card")
	// ErrUnknownPlayer is returned for a player ID the game does not contain.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrDeckEmpty is returned when drawing from an empty deck.
	ErrDeckEmpty = errors.New("deck is empty")
)

// Result is the terminal status of a game.
type Result int

const (
	ResultOngoing Result = iota
	ResultLoreVictory
	ResultDeckExhaustion
	ResultStalemate
)

var resultNames = map[Result]string{
	ResultOngoing:        "ongoing",
	ResultLoreVictory:    "lore_victory",
	ResultDeckExhaustion: "deck_exhaustion",
	ResultStalemate:      "stalemate",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("result_%d", int(r))
}

// Trackers holds per-turn bookkeeping plus the game-wide pass counter.
type Trackers struct {
	InkPlayed         bool
	Acted             map[string]bool
	ActionsThisTurn   int
	ConsecutivePasses int
}

// GameState is the single mutable aggregate of a game.
type GameState struct {
	ID        string
	Players   []*Player
	Turn      *rules.TurnManager
	Result    Result
	Winner    string
	Trackers  Trackers
	Modifiers *effects.LayerSystem

	cards  map[string]*Card
	logger *zap.Logger
}

// NewGameState creates a game for the given players. first is the index of
// the player taking the first turn.
func NewGameState(players []*Player, first int, logger *zap.Logger) *GameState {
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return &GameState{
		ID:        uuid.NewString(),
		Players:   players,
		Turn:      rules.NewTurnManager(ids, first),
		Trackers:  Trackers{Acted: make(map[string]bool)},
		Modifiers: effects.NewLayerSystem(),
		cards:     make(map[string]*Card),
		logger:    logger,
	}
}

// AddCard registers a card and places it in its owner's container for
// card.Zone. Cards without a zone go to the deck.
func (gs *GameState) AddCard(card *Card) error {
	owner := gs.Player(card.OwnerID)
	if owner == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, card.OwnerID)
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.Zone == ZoneNone {
		card.Zone = ZoneDeck
	}
	gs.cards[card.ID] = card
	container := owner.container(card.Zone, card.Kind)
	*container = append(*container, card)
	if card.Zone == ZoneInkwell {
		owner.Ink.Add(1)
	}
	return nil
}

// Card looks up a card by ID.
func (gs *GameState) Card(id string) *Card {
	return gs.cards[id]
}

// Cards returns the number of registered cards.
func (gs *GameState) Cards() int {
	return len(gs.cards)
}

// Player looks up a player by ID.
func (gs *GameState) Player(id string) *Player {
	for _, p := range gs.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the active player.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Player(gs.Turn.ActivePlayer())
}

// Opponents returns every player other than playerID, in seat order.
func (gs *GameState) Opponents(playerID string) []*Player {
	var out []*Player
	for _, p := range gs.Players {
		if p.ID != playerID {
			out = append(out, p)
		}
	}
	return out
}

// AllCharacters returns every character in play, in seat order.
func (gs *GameState) AllCharacters() []*Card {
	var out []*Card
	for _, p := range gs.Players {
		out = append(out, p.Characters...)
	}
	return out
}

// MoveCard moves a card between zones of its owner and returns the zone it
// left. Entering play marks the card wet; leaving play clears damage and
// exertion.
func (gs *GameState) MoveCard(card *Card, to Zone) (Zone, error) {
	if card == nil || gs.cards[card.ID] == nil {
		return ZoneNone, ErrUnknownCard
	}
	owner := gs.Player(card.OwnerID)
	if owner == nil {
		return ZoneNone, fmt.Errorf("%w: %s", ErrUnknownPlayer, card.OwnerID)
	}
	from := card.Zone
	if src := owner.container(from, card.Kind); src != nil {
		var ok bool
		if *src, ok = removeCard(*src, card.ID); !ok {
			gs.logger.Warn("card missing from its zone",
				zap.String("card_id", card.ID),
				zap.String("zone", from.String()),
			)
		}
	}

	if from == ZonePlay && to != ZonePlay {
		card.resetRuntime()
	}
	switch to {
	case ZonePlay:
		card.Dry = false
		card.Exerted = false
		card.TurnPlayed = gs.Turn.TurnNumber()
	case ZoneInkwell:
		card.Exerted = false
		owner.Ink.Add(1)
	}

	card.Zone = to
	dst := owner.container(to, card.Kind)
	if dst == nil {
		return from, fmt.Errorf("cannot move card %s to zone %s", card.ID, to)
	}
	*dst = append(*dst, card)

	gs.logger.Debug("moved card",
		zap.String("card_id", card.ID),
		zap.String("card", card.FullName()),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
	return from, nil
}

// Draw moves the top card of the player's deck to their hand.
func (gs *GameState) Draw(playerID string) (*Card, error) {
	p := gs.Player(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if len(p.Deck) == 0 {
		return nil, ErrDeckEmpty
	}
	top := p.Deck[len(p.Deck)-1]
	if _, err := gs.MoveCard(top, ZoneHand); err != nil {
		return nil, err
	}
	return top, nil
}

// MarkActed records that a character quested, challenged or sang this turn.
func (gs *GameState) MarkActed(cardID string) {
	gs.Trackers.Acted[cardID] = true
}

// HasActed reports whether the character acted this turn.
func (gs *GameState) HasActed(cardID string) bool {
	return gs.Trackers.Acted[cardID]
}

// ResetTurnTrackers clears per-turn bookkeeping. The pass counter survives.
func (gs *GameState) ResetTurnTrackers() {
	gs.Trackers.InkPlayed = false
	gs.Trackers.ActionsThisTurn = 0
	gs.Trackers.Acted = make(map[string]bool)
}

// Finished reports whether a terminal result has been recorded.
func (gs *GameState) Finished() bool {
	return gs.Result != ResultOngoing
}

// Finish records the terminal result once.
func (gs *GameState) Finish(result Result, winner string) {
	if gs.Finished() {
		return
	}
	gs.Result = result
	gs.Winner = winner
	gs.logger.Info("game over",
		zap.String("game_id", gs.ID),
		zap.String("result", result.String()),
		zap.String("winner", winner),
	)
}
