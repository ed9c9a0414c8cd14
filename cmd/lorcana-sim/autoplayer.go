package main

import (
	"math/rand/v2"

	"github.com/lorcanasim/lorcana-engine/internal/game/choice"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// autoPlayer answers every request for both seats with a simple greedy
// policy: ink, develop the board, sing, challenge, quest, then pass.
type autoPlayer struct {
	rng  *rand.Rand
	game *state.GameState
}

var movePriority = []protocol.MoveKind{
	protocol.MoveInk,
	protocol.MovePlay,
	protocol.MoveSing,
	protocol.MoveChallenge,
	protocol.MoveQuest,
}

func newAutoPlayer(seed uint64, gs *state.GameState) *autoPlayer {
	return &autoPlayer{rng: rand.New(rand.NewPCG(seed, ^seed)), game: gs}
}

// Action picks a legal move. A rejected previous move makes it pass so a bad
// pick can never loop.
func (p *autoPlayer) Action(m protocol.ActionRequired) protocol.Move {
	if m.Rejection != nil {
		return protocol.PassMove{}
	}
	byKind := make(map[protocol.MoveKind][]protocol.Move)
	for _, mv := range m.LegalMoves {
		byKind[mv.Kind()] = append(byKind[mv.Kind()], mv)
	}
	for _, kind := range movePriority {
		moves := byKind[kind]
		if len(moves) == 0 {
			continue
		}
		if kind == protocol.MovePlay {
			return p.mostExpensive(moves)
		}
		return moves[p.rng.IntN(len(moves))]
	}
	return protocol.PassMove{}
}

func (p *autoPlayer) mostExpensive(moves []protocol.Move) protocol.Move {
	best, bestCost := moves[0], -1
	for _, mv := range moves {
		play := mv.(protocol.PlayMove)
		card := p.game.Card(play.CardID)
		if card != nil && card.Cost > bestCost {
			best, bestCost = mv, card.Cost
		}
	}
	return best
}

// Choose answers the pending choice: always accept optional effects and
// prefer the opponent's cards as targets.
func (p *autoPlayer) Choose(m protocol.ChoiceRequired) protocol.Move {
	c := m.Choice
	answer := protocol.ChoiceMove{ChoiceID: c.ID}
	if m.Rejection != nil && c.Optional {
		answer.Selection = []string{choice.OptionNone}
		return answer
	}
	switch c.Kind {
	case choice.KindYesNo:
		answer.Selection = []string{choice.OptionYes}
	case choice.KindSelectOne:
		answer.Selection = []string{c.Options[p.rng.IntN(len(c.Options))].ID}
	default:
		answer.Selection = p.targets(c)
	}
	return answer
}

func (p *autoPlayer) targets(c choice.Context) []string {
	var theirs, ours []string
	for _, o := range c.Options {
		if o.ID == choice.OptionNone {
			continue
		}
		card := p.game.Card(o.ID)
		if card != nil && card.OwnerID != c.PlayerID {
			theirs = append(theirs, o.ID)
		} else {
			ours = append(ours, o.ID)
		}
	}
	ranked := append(theirs, ours...)
	n := max(c.Min, 1)
	if len(ranked) < n {
		return []string{choice.OptionNone}
	}
	return ranked[:n]
}
