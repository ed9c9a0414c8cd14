package abilities

import (
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
	"github.com/lorcanasim/lorcana-engine/internal/game/watchers"
)

// TriggerContext is the read-only frame a trigger is evaluated in: the
// event, the card owning the ability and the game it lives in.
type TriggerContext struct {
	Game         *state.GameState
	Event        rules.Event
	SourceID     string
	ControllerID string
	Watchers     *rules.WatcherRegistry
	Keywords     targeting.KeywordQuery
}

// Targeting returns the selector context for this trigger.
func (c TriggerContext) Targeting() targeting.Context {
	return targeting.Context{
		SourceID:     c.SourceID,
		ControllerID: c.ControllerID,
		Event:        c.Event,
		Keywords:     c.Keywords,
	}
}

// Source returns the card owning the ability, if it still exists.
func (c TriggerContext) Source() *state.Card {
	if c.Game == nil {
		return nil
	}
	return c.Game.Card(c.SourceID)
}

// Condition is a predicate over a trigger context. Conditions must not
// mutate the game.
type Condition func(TriggerContext) bool

// Always is the condition that always holds.
func Always() Condition {
	return func(TriggerContext) bool { return true }
}

// DuringYourTurn holds while the ability's controller is the active player.
func DuringYourTurn() Condition {
	return func(ctx TriggerContext) bool {
		return ctx.Game.Turn.ActivePlayer() == ctx.ControllerID
	}
}

// DuringOpponentsTurn holds while another player is active.
func DuringOpponentsTurn() Condition {
	return Not(DuringYourTurn())
}

// LoreAtLeast holds when the controller has at least n lore.
func LoreAtLeast(n int) Condition {
	return func(ctx TriggerContext) bool {
		p := ctx.Game.Player(ctx.ControllerID)
		return p != nil && p.Lore >= n
	}
}

// SongsSungThisTurnAtLeast holds when the controller sang at least n songs this turn.
func SongsSungThisTurnAtLeast(n int) Condition {
	return WatcherCountAtLeast(watchers.SongsSungKey, n)
}

// WatcherCountAtLeast holds when a counting watcher reports at least n for the controller.
func WatcherCountAtLeast(key string, n int) Condition {
	return func(ctx TriggerContext) bool {
		return watchers.CountFor(ctx.Watchers, key, ctx.ControllerID) >= n
	}
}

// HasCharacterWithSubtype holds when the controller has a character with the
// subtype in play, other than the source.
func HasCharacterWithSubtype(subtype string) Condition {
	return func(ctx TriggerContext) bool {
		p := ctx.Game.Player(ctx.ControllerID)
		if p == nil {
			return false
		}
		for _, c := range p.Characters {
			if c.ID != ctx.SourceID && c.HasSubtype(subtype) {
				return true
			}
		}
		return false
	}
}

// EventAmountAtLeast holds when the event carries an amount of at least n.
func EventAmountAtLeast(n int) Condition {
	return func(ctx TriggerContext) bool { return ctx.Event.Amount >= n }
}

// EventMeta holds when the event metadata key has the value.
func EventMeta(key, value string) Condition {
	return func(ctx TriggerContext) bool { return ctx.Event.Meta(key) == value }
}

// ChosenByOpponent holds when the event's acting player is not the controller.
func ChosenByOpponent() Condition {
	return func(ctx TriggerContext) bool {
		return ctx.Event.PlayerID != "" && ctx.Event.PlayerID != ctx.ControllerID
	}
}

// And holds when every condition holds. Nil conditions are ignored.
func And(conds ...Condition) Condition {
	return func(ctx TriggerContext) bool {
		for _, c := range conds {
			if c != nil && !c(ctx) {
				return false
			}
		}
		return true
	}
}

// Or holds when any condition holds.
func Or(conds ...Condition) Condition {
	return func(ctx TriggerContext) bool {
		for _, c := range conds {
			if c != nil && c(ctx) {
				return true
			}
		}
		return false
	}
}

// Not inverts a condition.
func Not(c Condition) Condition {
	return func(ctx TriggerContext) bool { return !c(ctx) }
}
