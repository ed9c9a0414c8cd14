package rules

import (
	"fmt"
	"strings"
)

// Phase represents the phases of a Lorcana turn.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseSet
	PhaseDraw
	PhasePlay
)

var phaseNames = map[Phase]string{
	PhaseReady: "READY",
	PhaseSet:   "SET",
	PhaseDraw:  "DRAW",
	PhasePlay:  "PLAY",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// phaseSequence is the fixed order of phases within one turn.
var phaseSequence = []Phase{PhaseReady, PhaseSet, PhaseDraw, PhasePlay}

// TurnManager tracks the active player and phase progression.
type TurnManager struct {
	orderIndex int
	turnNumber int
	players    []string
	active     int
	first      int
}

// NewTurnManager creates a turn manager at turn 1, Ready phase, with the
// player at index first taking the first turn.
func NewTurnManager(players []string, first int) *TurnManager {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, strings.TrimSpace(p))
	}
	if first < 0 || first >= len(ids) {
		first = 0
	}
	return &TurnManager{
		turnNumber: 1,
		players:    ids,
		active:     first,
		first:      first,
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return phaseSequence[tm.orderIndex]
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	if len(tm.players) == 0 {
		return ""
	}
	return tm.players[tm.active]
}

// ActiveIndex returns the index of the active player.
func (tm *TurnManager) ActiveIndex() int {
	return tm.active
}

// FirstPlayer returns the player who took turn 1.
func (tm *TurnManager) FirstPlayer() string {
	if len(tm.players) == 0 {
		return ""
	}
	return tm.players[tm.first]
}

// NextPlayer returns the player who will be active after the current turn.
func (tm *TurnManager) NextPlayer() string {
	if len(tm.players) == 0 {
		return ""
	}
	return tm.players[(tm.active+1)%len(tm.players)]
}

// AdvancePhase moves to the next phase. Leaving the Play phase starts the
// next player's turn at Ready; wrapped reports that a new turn began.
func (tm *TurnManager) AdvancePhase() (phase Phase, wrapped bool) {
	tm.orderIndex++
	if tm.orderIndex >= len(phaseSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		if len(tm.players) > 0 {
			tm.active = (tm.active + 1) % len(tm.players)
		}
		wrapped = true
	}
	return tm.CurrentPhase(), wrapped
}
