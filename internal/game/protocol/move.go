// Package protocol defines the moves callers submit to the engine and the
// messages it answers with.
package protocol

import (
	"fmt"
	"strings"
)

// MoveKind tags a move variant.
type MoveKind string

const (
	MoveInk       MoveKind = "ink"
	MovePlay      MoveKind = "play"
	MoveQuest     MoveKind = "quest"
	MoveChallenge MoveKind = "challenge"
	MoveSing      MoveKind = "sing"
	MoveChoice    MoveKind = "choice"
	MovePass      MoveKind = "pass"
)

// Move is a player intent. Key identifies equal moves.
type Move interface {
	Kind() MoveKind
	Key() string
	String() string
	isMove()
}

// InkMove puts a card from hand into the inkwell.
type InkMove struct{ CardID string }

// PlayMove plays a card from hand, optionally shifted onto a character.
type PlayMove struct {
	CardID    string
	ShiftOnto string
}

// QuestMove quests with a character.
type QuestMove struct{ CharacterID string }

// ChallengeMove challenges a defender with an attacker.
type ChallengeMove struct {
	AttackerID string
	DefenderID string
}

// SingMove exerts a singer to play a song for free.
type SingMove struct {
	SingerID string
	SongID   string
}

// ChoiceMove answers the pending choice.
type ChoiceMove struct {
	ChoiceID  string
	Selection []string
}

// PassMove ends the turn.
type PassMove struct{}

func (InkMove) Kind() MoveKind       { return MoveInk }
func (PlayMove) Kind() MoveKind      { return MovePlay }
func (QuestMove) Kind() MoveKind     { return MoveQuest }
func (ChallengeMove) Kind() MoveKind { return MoveChallenge }
func (SingMove) Kind() MoveKind      { return MoveSing }
func (ChoiceMove) Kind() MoveKind    { return MoveChoice }
func (PassMove) Kind() MoveKind      { return MovePass }

func (InkMove) isMove()       {}
func (PlayMove) isMove()      {}
func (QuestMove) isMove()     {}
func (ChallengeMove) isMove() {}
func (SingMove) isMove()      {}
func (ChoiceMove) isMove()    {}
func (PassMove) isMove()      {}

func (m InkMove) Key() string   { return "ink:" + m.CardID }
func (m QuestMove) Key() string { return "quest:" + m.CharacterID }
func (m PassMove) Key() string  { return "pass" }
func (m PlayMove) Key() string {
	if m.ShiftOnto != "" {
		return "play:" + m.CardID + ">" + m.ShiftOnto
	}
	return "play:" + m.CardID
}
func (m ChallengeMove) Key() string { return "challenge:" + m.AttackerID + ">" + m.DefenderID }
func (m SingMove) Key() string      { return "sing:" + m.SingerID + ">" + m.SongID }
func (m ChoiceMove) Key() string {
	return "choice:" + m.ChoiceID + "=" + strings.Join(m.Selection, ",")
}

func (m InkMove) String() string   { return "ink " + m.CardID }
func (m QuestMove) String() string { return "quest with " + m.CharacterID }
func (m PassMove) String() string  { return "pass" }
func (m PlayMove) String() string {
	if m.ShiftOnto != "" {
		return fmt.Sprintf("shift %s onto %s", m.CardID, m.ShiftOnto)
	}
	return "play " + m.CardID
}
func (m ChallengeMove) String() string {
	return fmt.Sprintf("challenge %s with %s", m.DefenderID, m.AttackerID)
}
func (m SingMove) String() string { return fmt.Sprintf("%s sings %s", m.SingerID, m.SongID) }
func (m ChoiceMove) String() string {
	return fmt.Sprintf("choose [%s] for %s", strings.Join(m.Selection, ","), m.ChoiceID)
}

// ContainsMove reports whether moves holds a move with the same key.
func ContainsMove(moves []Move, m Move) bool {
	key := m.Key()
	for _, candidate := range moves {
		if candidate.Key() == key {
			return true
		}
	}
	return false
}
