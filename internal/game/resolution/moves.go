package resolution

import (
	"strconv"

	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

// MoveOptions tunes the challenge rules.
type MoveOptions struct {
	// ChallengeReadyCharacters lets ready characters be challenged.
	ChallengeReadyCharacters bool
}

// MoveEnumerator lists and validates the active player's moves. Both paths
// share the same checks, so every listed move validates.
type MoveEnumerator struct {
	caps Capabilities
	cost *CostCalculator
	opts MoveOptions
}

// NewMoveEnumerator creates a move enumerator.
func NewMoveEnumerator(caps Capabilities, opts MoveOptions) *MoveEnumerator {
	return &MoveEnumerator{caps: caps, cost: NewCostCalculator(caps), opts: opts}
}

// LegalMoves returns every legal move of the active player. Outside the
// Play phase there are none.
func (m *MoveEnumerator) LegalMoves(gs *state.GameState) []protocol.Move {
	if gs.Finished() || gs.Turn.CurrentPhase() != rules.PhasePlay {
		return nil
	}
	p := gs.CurrentPlayer()
	if p == nil {
		return nil
	}

	var moves []protocol.Move
	add := func(mv protocol.Move) {
		if m.check(gs, p, mv).Legal {
			moves = append(moves, mv)
		}
	}

	for _, c := range p.Hand {
		add(protocol.InkMove{CardID: c.ID})
	}
	for _, c := range p.Hand {
		add(protocol.PlayMove{CardID: c.ID})
		if _, ok := m.caps.ShiftValue(c.ID); ok {
			for _, onto := range p.Characters {
				add(protocol.PlayMove{CardID: c.ID, ShiftOnto: onto.ID})
			}
		}
	}
	for _, c := range p.Characters {
		add(protocol.QuestMove{CharacterID: c.ID})
	}
	for _, attacker := range p.Characters {
		for _, opp := range gs.Opponents(p.ID) {
			for _, defender := range opp.Characters {
				add(protocol.ChallengeMove{AttackerID: attacker.ID, DefenderID: defender.ID})
			}
		}
	}
	for _, song := range p.Hand {
		if !song.Song {
			continue
		}
		for _, singer := range p.Characters {
			add(protocol.SingMove{SingerID: singer.ID, SongID: song.ID})
		}
	}
	add(protocol.PassMove{})
	return moves
}

// Validate checks a move for the active player.
func (m *MoveEnumerator) Validate(gs *state.GameState, move protocol.Move) rules.LegalityResult {
	if gs.Finished() {
		return rules.Denied(rules.ReasonGameOver)
	}
	if phase := gs.Turn.CurrentPhase(); phase != rules.PhasePlay {
		return rules.Denied(rules.ReasonWrongPhase, "phase", phase.String())
	}
	p := gs.CurrentPlayer()
	if p == nil {
		return rules.Denied(rules.ReasonNotAwaitingMove)
	}
	return m.check(gs, p, move)
}

func (m *MoveEnumerator) check(gs *state.GameState, p *state.Player, move protocol.Move) rules.LegalityResult {
	switch mv := move.(type) {
	case protocol.InkMove:
		return m.checkInk(gs, p, mv.CardID)
	case protocol.PlayMove:
		return m.checkPlay(gs, p, mv.CardID, mv.ShiftOnto)
	case protocol.QuestMove:
		return m.checkQuest(gs, p, mv.CharacterID)
	case protocol.ChallengeMove:
		return m.checkChallenge(gs, p, mv.AttackerID, mv.DefenderID)
	case protocol.SingMove:
		return m.checkSing(gs, p, mv.SingerID, mv.SongID)
	case protocol.PassMove:
		return m.checkPass(gs, p)
	default:
		return rules.Denied(rules.ReasonUnknownMove)
	}
}

// ownCard resolves a card of the player in the expected zone.
func ownCard(gs *state.GameState, p *state.Player, id string, zone state.Zone) (*state.Card, rules.LegalityResult) {
	card := gs.Card(id)
	if card == nil {
		return nil, rules.Denied(rules.ReasonUnknownCard, "card", id)
	}
	if card.OwnerID != p.ID {
		return nil, rules.Denied(rules.ReasonNotYourCard, "card", id)
	}
	if card.Zone != zone {
		reason := rules.ReasonNotInPlay
		if zone == state.ZoneHand {
			reason = rules.ReasonNotInHand
		}
		return nil, rules.Denied(reason, "card", id, "zone", card.Zone.String())
	}
	return card, rules.Allowed()
}

func (m *MoveEnumerator) checkInk(gs *state.GameState, p *state.Player, id string) rules.LegalityResult {
	card, res := ownCard(gs, p, id, state.ZoneHand)
	if !res.Legal {
		return res
	}
	if gs.Trackers.InkPlayed {
		return rules.Denied(rules.ReasonAlreadyInked)
	}
	if !card.Inkable {
		return rules.Denied(rules.ReasonNotInkable, "card", id)
	}
	return rules.Allowed()
}

func (m *MoveEnumerator) checkPlay(gs *state.GameState, p *state.Player, id, shiftOnto string) rules.LegalityResult {
	card, res := ownCard(gs, p, id, state.ZoneHand)
	if !res.Legal {
		return res
	}
	cost := m.cost.Cost(gs, card)
	if shiftOnto != "" {
		shiftCost, ok := m.cost.ShiftCost(gs, card)
		if !ok {
			return rules.Denied(rules.ReasonInvalidShift, "card", id)
		}
		onto, res := ownCard(gs, p, shiftOnto, state.ZonePlay)
		if !res.Legal {
			return res
		}
		if !onto.IsCharacter() || onto.Name != card.Name {
			return rules.Denied(rules.ReasonInvalidShift, "card", id, "onto", shiftOnto)
		}
		cost = shiftCost
	}
	if !m.cost.CanAfford(p, cost) {
		return rules.Denied(rules.ReasonInsufficientInk,
			"cost", strconv.Itoa(cost),
			"available", strconv.Itoa(p.Ink.Available()),
		)
	}
	return rules.Allowed()
}

// readyActor checks the shared requirements of a character taking an
// action. wetOK allows characters played this turn.
func readyActor(gs *state.GameState, p *state.Player, id string, wetOK bool) (*state.Card, rules.LegalityResult) {
	card, res := ownCard(gs, p, id, state.ZonePlay)
	if !res.Legal {
		return nil, res
	}
	if !card.IsCharacter() {
		return nil, rules.Denied(rules.ReasonNotACharacter, "card", id)
	}
	if gs.HasActed(id) {
		return nil, rules.Denied(rules.ReasonAlreadyActed, "card", id)
	}
	if card.Exerted {
		return nil, rules.Denied(rules.ReasonExerted, "card", id)
	}
	if !card.Dry && !wetOK {
		return nil, rules.Denied(rules.ReasonInkWet, "card", id)
	}
	return card, rules.Allowed()
}

func (m *MoveEnumerator) checkQuest(gs *state.GameState, p *state.Player, id string) rules.LegalityResult {
	_, res := readyActor(gs, p, id, false)
	if !res.Legal {
		return res
	}
	if m.caps.HasKeyword(id, keywords.Reckless) {
		return rules.Denied(rules.ReasonCannotQuest, "card", id, "keyword", string(keywords.Reckless))
	}
	return rules.Allowed()
}

func (m *MoveEnumerator) checkChallenge(gs *state.GameState, p *state.Player, attackerID, defenderID string) rules.LegalityResult {
	rush := m.caps.HasKeyword(attackerID, keywords.Rush)
	attacker, res := readyActor(gs, p, attackerID, rush)
	if !res.Legal {
		return res
	}
	defender := gs.Card(defenderID)
	if res := m.defenderOK(gs, p, attacker, defender); !res.Legal {
		return res
	}
	if !m.caps.HasKeyword(defender.ID, keywords.Bodyguard) {
		for _, opp := range gs.Opponents(p.ID) {
			for _, other := range opp.Characters {
				if other.ID == defender.ID || !m.caps.HasKeyword(other.ID, keywords.Bodyguard) {
					continue
				}
				if m.defenderOK(gs, p, attacker, other).Legal {
					return rules.Denied(rules.ReasonBodyguard, "defender", defenderID, "bodyguard", other.ID)
				}
			}
		}
	}
	return rules.Allowed()
}

// defenderOK checks a defender without the Bodyguard rule.
func (m *MoveEnumerator) defenderOK(gs *state.GameState, p *state.Player, attacker, defender *state.Card) rules.LegalityResult {
	if defender == nil {
		return rules.Denied(rules.ReasonUnknownCard)
	}
	if defender.OwnerID == p.ID || defender.Zone != state.ZonePlay || !defender.IsCharacter() {
		return rules.Denied(rules.ReasonInvalidTarget, "defender", defender.ID)
	}
	if !defender.Exerted && !m.opts.ChallengeReadyCharacters {
		return rules.Denied(rules.ReasonDefenderReady, "defender", defender.ID)
	}
	if m.caps.HasKeyword(defender.ID, keywords.Evasive) && !m.caps.HasKeyword(attacker.ID, keywords.Evasive) {
		return rules.Denied(rules.ReasonEvasive, "defender", defender.ID)
	}
	return rules.Allowed()
}

func (m *MoveEnumerator) checkSing(gs *state.GameState, p *state.Player, singerID, songID string) rules.LegalityResult {
	singer, res := readyActor(gs, p, singerID, false)
	if !res.Legal {
		return res
	}
	song, res := ownCard(gs, p, songID, state.ZoneHand)
	if !res.Legal {
		return res
	}
	if !song.Song {
		return rules.Denied(rules.ReasonNotASong, "card", songID)
	}
	need := song.SongCost()
	if singer.Cost < need && m.caps.KeywordValue(singerID, keywords.Singer) < need {
		return rules.Denied(rules.ReasonCannotSing,
			"singer", singerID,
			"needs", strconv.Itoa(need),
		)
	}
	return rules.Allowed()
}

// checkPass refuses to end the turn while a Reckless character can challenge.
func (m *MoveEnumerator) checkPass(gs *state.GameState, p *state.Player) rules.LegalityResult {
	for _, c := range p.Characters {
		if !m.caps.HasKeyword(c.ID, keywords.Reckless) {
			continue
		}
		for _, opp := range gs.Opponents(p.ID) {
			for _, d := range opp.Characters {
				if m.checkChallenge(gs, p, c.ID, d.ID).Legal {
					return rules.Denied(rules.ReasonMustChallenge, "card", c.ID)
				}
			}
		}
	}
	return rules.Allowed()
}
