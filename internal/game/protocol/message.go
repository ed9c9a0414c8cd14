package protocol

import (
	"fmt"
	"strings"

	"github.com/lorcanasim/lorcana-engine/internal/game/choice"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
)

// Rejection explains why a submitted move was refused. State is unchanged.
type Rejection struct {
	Move    Move
	Reason  string
	Details map[string]string
}

func (r *Rejection) String() string {
	if r == nil {
		return ""
	}
	res := rules.LegalityResult{Reason: r.Reason, Details: r.Details}
	if r.Move == nil {
		return res.String()
	}
	return fmt.Sprintf("%s rejected: %s", r.Move, res)
}

// StepKind tags what an executed step changed.
type StepKind string

const (
	StepInkPlayed         StepKind = "ink-played"
	StepCardPlayed        StepKind = "card-played"
	StepCharacterQuested  StepKind = "character-quested"
	StepChallengeDeclared StepKind = "challenge-declared"
	StepChallengeResolved StepKind = "challenge-resolved"
	StepDamageDealt       StepKind = "damage-dealt"
	StepHealed            StepKind = "healed"
	StepLoreGained        StepKind = "lore-gained"
	StepLoreLost          StepKind = "lore-lost"
	StepCardDrawn         StepKind = "card-drawn"
	StepCardsDiscarded    StepKind = "cards-discarded"
	StepCharacterBanished StepKind = "character-banished"
	StepReturnedToHand    StepKind = "returned-to-hand"
	StepCharacterExerted  StepKind = "character-exerted"
	StepCharacterReadied  StepKind = "character-readied"
	StepStatModified      StepKind = "stat-modified"
	StepKeywordGranted    StepKind = "keyword-granted"
	StepCostModified      StepKind = "cost-modified"
	StepSongSung          StepKind = "song-sung"
	StepTurnBegan         StepKind = "turn-began"
	StepPhaseAdvanced     StepKind = "phase-advanced"
	StepTurnEnded         StepKind = "turn-ended"
	StepChoiceRequested   StepKind = "choice-requested"
	StepChoiceResolved    StepKind = "choice-resolved"
	StepNoOp              StepKind = "no-op"
)

// Step describes one applied action.
type Step struct {
	Kind        StepKind
	PlayerID    string
	SourceID    string
	TargetID    string
	Amount      int
	Description string
	Events      []rules.Event
}

func (s Step) String() string {
	var b strings.Builder
	b.WriteString(string(s.Kind))
	if s.Description != "" {
		b.WriteString(": ")
		b.WriteString(s.Description)
	}
	return b.String()
}

// Message is the only thing the engine hands to callers. Exactly one is
// produced per call.
type Message interface {
	Rejected() *Rejection
	String() string
	isMessage()
}

// ActionRequired asks the player for a move.
type ActionRequired struct {
	PlayerID   string
	Phase      rules.Phase
	Turn       int
	LegalMoves []Move
	Rejection  *Rejection
}

// ChoiceRequired asks a player to resolve the pending choice.
type ChoiceRequired struct {
	Choice    choice.Context
	Rejection *Rejection
}

// StepExecuted reports one applied action.
type StepExecuted struct {
	Step      Step
	Rejection *Rejection
}

// GameOver reports the terminal result. Winner is empty for a stalemate.
type GameOver struct {
	Winner    string
	Reason    string
	Turn      int
	Rejection *Rejection
}

// Game over reasons.
const (
	ReasonLoreVictory    = "lore-victory"
	ReasonDeckExhaustion = "deck-exhaustion"
	ReasonStalemate      = "stalemate"
)

func (m ActionRequired) Rejected() *Rejection { return m.Rejection }
func (m ChoiceRequired) Rejected() *Rejection { return m.Rejection }
func (m StepExecuted) Rejected() *Rejection   { return m.Rejection }
func (m GameOver) Rejected() *Rejection       { return m.Rejection }

func (ActionRequired) isMessage() {}
func (ChoiceRequired) isMessage() {}
func (StepExecuted) isMessage()   {}
func (GameOver) isMessage()       {}

func (m ActionRequired) String() string {
	return fmt.Sprintf("action required: %s (%s, turn %d, %d legal moves)", m.PlayerID, m.Phase, m.Turn, len(m.LegalMoves))
}

func (m ChoiceRequired) String() string {
	return "choice required: " + m.Choice.String()
}

func (m StepExecuted) String() string {
	return "step: " + m.Step.String()
}

func (m GameOver) String() string {
	if m.Winner == "" {
		return "game over: " + m.Reason
	}
	return fmt.Sprintf("game over: %s wins (%s)", m.Winner, m.Reason)
}
