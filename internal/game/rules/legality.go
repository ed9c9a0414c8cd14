package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Reason tags attached to failed legality checks. They are stable and meant
// for programmatic inspection by callers.
const (
	ReasonGameOver        = "game-over"
	ReasonNotAwaitingMove = "not-awaiting-move"
	ReasonChoicePending   = "choice-pending"
	ReasonNoPendingChoice = "no-pending-choice"
	ReasonInvalidOption   = "invalid-option"
	ReasonUnknownMove     = "unknown-move"
	ReasonWrongPhase      = "wrong-phase"
	ReasonNotYourCard     = "not-your-card"
	ReasonUnknownCard     = "unknown-card"
	ReasonNotInHand       = "not-in-hand"
	ReasonNotInPlay       = "not-in-play"
	ReasonNotACharacter   = "not-a-character"
	ReasonAlreadyInked    = "already-inked"
	ReasonNotInkable      = "not-inkable"
	ReasonInsufficientInk = "insufficient-ink"
	ReasonAlreadyActed    = "already-acted"
	ReasonExerted         = "exerted"
	ReasonInkWet          = "ink-wet"
	ReasonCannotQuest     = "cannot-quest"
	ReasonInvalidTarget   = "invalid-target"
	ReasonDefenderReady   = "defender-ready"
	ReasonEvasive         = "evasive"
	ReasonBodyguard       = "bodyguard"
	ReasonNotASong        = "not-a-song"
	ReasonCannotSing      = "cannot-sing"
	ReasonInvalidShift    = "invalid-shift"
	ReasonMustChallenge   = "must-challenge"
)

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal   bool
	Reason  string
	Details map[string]string
}

// Allowed returns a passing result.
func Allowed() LegalityResult {
	return LegalityResult{Legal: true}
}

// Denied returns a failing result. details is read as key/value pairs.
func Denied(reason string, details ...string) LegalityResult {
	res := LegalityResult{Legal: false, Reason: reason}
	if len(details) > 1 {
		res.Details = make(map[string]string, len(details)/2)
		for i := 0; i+1 < len(details); i += 2 {
			res.Details[details[i]] = details[i+1]
		}
	}
	return res
}

func (r LegalityResult) String() string {
	if r.Legal {
		return "legal"
	}
	if len(r.Details) == 0 {
		return r.Reason
	}
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, r.Details[k]))
	}
	return fmt.Sprintf("%s (%s)", r.Reason, strings.Join(parts, ", "))
}
