package effects

// Duration represents how long an effect lasts.
type Duration string

const (
	// DurationThisTurn effects expire when the current turn ends.
	DurationThisTurn Duration = "ThisTurn"

	// DurationUntilYourNextTurn effects expire at the start of their controller's next turn.
	DurationUntilYourNextTurn Duration = "UntilYourNextTurn"

	// DurationWhileSourceInPlay effects last while the source stays in play.
	DurationWhileSourceInPlay Duration = "WhileSourceInPlay"

	// DurationPermanent effects last for the rest of the game.
	DurationPermanent Duration = "Permanent"
)

// ParseDuration resolves a duration name; unknown names fall back to DurationThisTurn.
func ParseDuration(name string) Duration {
	switch Duration(name) {
	case DurationUntilYourNextTurn, DurationWhileSourceInPlay, DurationPermanent:
		return Duration(name)
	default:
		return DurationThisTurn
	}
}

// targeted is implemented by effects bound to a single card.
type targeted interface {
	TargetID() string
}

// CleanupEndOfTurn removes effects that expire at end of turn.
func CleanupEndOfTurn(system *LayerSystem) []string {
	return system.RemoveWhere(func(e ContinuousEffect) bool {
		return e.Duration() == DurationThisTurn
	})
}

// CleanupStartOfTurn removes "until your next turn" effects controlled by the player starting a turn.
func CleanupStartOfTurn(system *LayerSystem, playerID string) []string {
	return system.RemoveWhere(func(e ContinuousEffect) bool {
		return e.Duration() == DurationUntilYourNextTurn && e.ControllerID() == playerID
	})
}

// CleanupSourceLeftPlay removes effects that depend on their source staying in play.
func CleanupSourceLeftPlay(system *LayerSystem, sourceID string) []string {
	if sourceID == "" {
		return nil
	}
	return system.RemoveWhere(func(e ContinuousEffect) bool {
		return e.SourceID() == sourceID && e.Duration() == DurationWhileSourceInPlay
	})
}

// CleanupTargetLeftPlay removes effects bound to a card that left play; a
// card returning to play is a new object and keeps none of them.
func CleanupTargetLeftPlay(system *LayerSystem, cardID string) []string {
	if cardID == "" {
		return nil
	}
	return system.RemoveWhere(func(e ContinuousEffect) bool {
		t, ok := e.(targeted)
		return ok && t.TargetID() == cardID
	})
}
