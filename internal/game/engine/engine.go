// Package engine drives a Lorcana game as a pull-based message pump: every
// call to Next applies at most one queued effect and returns one message.
package engine

import (
	"errors"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/choice"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/resolution"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
	"github.com/lorcanasim/lorcana-engine/internal/game/watchers"
)

// Options are the rule constants of a game.
type Options struct {
	LoreToWin                int
	MaxConsecutivePasses     int
	FirstPlayerSkipsDraw     bool
	MaxEventDepth            int
	ChallengeReadyCharacters bool
}

// DefaultOptions returns the standard rules.
func DefaultOptions() Options {
	return Options{
		LoreToWin:            20,
		MaxConsecutivePasses: 6,
		FirstPlayerSkipsDraw: true,
		MaxEventDepth:        rules.DefaultMaxDepth,
	}
}

// Engine owns one game and every component acting on it.
type Engine struct {
	game      *state.GameState
	opts      Options
	bus       *rules.EventBus
	watchers  *rules.WatcherRegistry
	queue     *ActionQueue
	abilities *abilities.Registry
	choices   *choice.Manager
	moves     *resolution.MoveEnumerator
	damage    *resolution.DamageCalculator
	cost      *resolution.CostCalculator
	validator *targeting.Validator
	logger    *zap.Logger

	outbox    []protocol.Message
	collected []rules.Event
}

// New wires an engine around a prepared game state. The keyword registry
// may be nil for the standard keywords.
func New(gs *state.GameState, kw *keywords.Registry, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		game:     gs,
		opts:     opts,
		bus:      rules.NewEventBus(logger.Named("bus")),
		watchers: watchers.NewDefaultRegistry(),
		choices:  choice.NewManager(logger.Named("choice")),
		logger:   logger,
	}
	e.bus.SetMaxDepth(opts.MaxEventDepth)
	e.bus.Subscribe(func(evt rules.Event) (string, error) {
		e.watchers.NotifyWatchers(evt)
		return "", nil
	})
	e.queue = NewActionQueue(e.apply, logger.Named("queue"))
	e.abilities = abilities.NewRegistry(gs, e.bus, kw, e.watchers, e.queue, logger.Named("abilities"))
	e.moves = resolution.NewMoveEnumerator(e.abilities, resolution.MoveOptions{
		ChallengeReadyCharacters: opts.ChallengeReadyCharacters,
	})
	e.damage = resolution.NewDamageCalculator(e.abilities)
	e.cost = resolution.NewCostCalculator(e.abilities)
	e.validator = targeting.NewValidator(gs, e.abilities)
	return e
}

// Game returns the game state.
func (e *Engine) Game() *state.GameState { return e.game }

// Bus returns the event bus.
func (e *Engine) Bus() *rules.EventBus { return e.bus }

// Abilities returns the ability registry.
func (e *Engine) Abilities() *abilities.Registry { return e.abilities }

// Queue returns the action queue.
func (e *Engine) Queue() *ActionQueue { return e.queue }

// Choices returns the choice manager.
func (e *Engine) Choices() *choice.Manager { return e.choices }

// Watchers returns the watcher registry.
func (e *Engine) Watchers() *rules.WatcherRegistry { return e.watchers }

// Options returns the rule constants.
func (e *Engine) Options() Options { return e.opts }

// Attach binds abilities to a card of the game.
func (e *Engine) Attach(cardID string, list ...abilities.Ability) {
	e.abilities.Attach(cardID, list...)
}

// DealOpeningHands draws n cards for every player without publishing
// events.
func (e *Engine) DealOpeningHands(n int) {
	for _, p := range e.game.Players {
		for i := 0; i < n; i++ {
			card, err := e.game.Draw(p.ID)
			if err != nil {
				break
			}
			e.abilities.Sync(card.ID)
		}
	}
}

// LegalMoves returns the moves the active player may submit now.
func (e *Engine) LegalMoves() []protocol.Move {
	if e.awaitingMove() {
		return e.moves.LegalMoves(e.game)
	}
	return nil
}

// awaitingMove reports whether Next would currently answer ActionRequired.
func (e *Engine) awaitingMove() bool {
	return !e.game.Finished() &&
		len(e.outbox) == 0 &&
		!e.choices.HasPending() &&
		!e.queue.HasPending() &&
		e.game.Turn.CurrentPhase() == rules.PhasePlay
}

// Next submits an optional move and returns exactly one message. It never
// panics: a fault while stepping is reported as a no-op step.
func (e *Engine) Next(move protocol.Move) (msg protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("engine step panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			msg = protocol.StepExecuted{Step: protocol.Step{
				Kind:        protocol.StepNoOp,
				Description: fmt.Sprintf("internal error: %v", r),
			}}
		}
	}()

	var rejection *protocol.Rejection
	if move != nil {
		rejection = e.submit(move)
	}
	return withRejection(e.step(), rejection)
}

// step produces the next message: the game result, a queued message, the
// pending choice, one applied action, the next phase procedure, or a
// request for a move. The terminal check runs before the pending choice and
// the queue, so a win reached mid-resolution ends the game at once and
// leftover actions or choices are never surfaced.
func (e *Engine) step() protocol.Message {
	if e.game.Finished() {
		return e.gameOver()
	}
	if len(e.outbox) > 0 {
		msg := e.outbox[0]
		e.outbox = e.outbox[1:]
		return msg
	}
	if e.checkTerminal() {
		return e.gameOver()
	}
	if pending := e.choices.Pending(); pending != nil {
		return protocol.ChoiceRequired{Choice: pending.View()}
	}
	if e.queue.HasPending() {
		return e.drain()
	}
	if procedure := phaseProcedure(e.game.Turn.CurrentPhase()); procedure != nil {
		e.enqueueProcedure(procedure)
		return e.drain()
	}
	p := e.game.CurrentPlayer()
	return protocol.ActionRequired{
		PlayerID:   p.ID,
		Phase:      e.game.Turn.CurrentPhase(),
		Turn:       e.game.Turn.TurnNumber(),
		LegalMoves: e.moves.LegalMoves(e.game),
	}
}

func (e *Engine) drain() protocol.Message {
	result, err := e.queue.ProcessNext(true)
	if err != nil {
		return protocol.StepExecuted{Step: protocol.Step{Kind: protocol.StepNoOp, Description: err.Error()}}
	}
	return protocol.StepExecuted{Step: result.Step}
}

func (e *Engine) gameOver() protocol.Message {
	reason := ""
	switch e.game.Result {
	case state.ResultLoreVictory:
		reason = protocol.ReasonLoreVictory
	case state.ResultDeckExhaustion:
		reason = protocol.ReasonDeckExhaustion
	case state.ResultStalemate:
		reason = protocol.ReasonStalemate
	}
	return protocol.GameOver{
		Winner: e.game.Winner,
		Reason: reason,
		Turn:   e.game.Turn.TurnNumber(),
	}
}

// submit validates a move and turns it into queued procedures. A refused
// move leaves the state untouched.
func (e *Engine) submit(move protocol.Move) *protocol.Rejection {
	if e.game.Finished() {
		return e.reject(move, rules.Denied(rules.ReasonGameOver))
	}
	if cm, ok := move.(protocol.ChoiceMove); ok {
		return e.resolveChoice(cm)
	}
	if e.choices.HasPending() {
		return e.reject(move, rules.Denied(rules.ReasonChoicePending))
	}
	if len(e.outbox) > 0 || e.queue.HasPending() {
		return e.reject(move, rules.Denied(rules.ReasonNotAwaitingMove))
	}
	if res := e.moves.Validate(e.game, move); !res.Legal {
		return e.reject(move, res)
	}

	active := e.game.Turn.ActivePlayer()
	ctx := abilities.TriggerContext{
		Game:         e.game,
		ControllerID: active,
		Watchers:     e.watchers,
		Keywords:     e.abilities,
	}
	var (
		effect abilities.Effect
		target string
	)
	switch mv := move.(type) {
	case protocol.InkMove:
		effect, target = abilities.InkCard{}, mv.CardID
	case protocol.PlayMove:
		effect, target = abilities.PlayCard{ShiftOnto: mv.ShiftOnto}, mv.CardID
	case protocol.QuestMove:
		effect, target = abilities.Then(abilities.Quest{}, abilities.CollectLore{}), mv.CharacterID
	case protocol.ChallengeMove:
		effect = abilities.Then(
			abilities.DeclareChallenge{DefenderID: mv.DefenderID},
			abilities.ExchangeChallengeDamage{DefenderID: mv.DefenderID},
		)
		target = mv.AttackerID
	case protocol.SingMove:
		effect, target = abilities.SingSong{SongID: mv.SongID}, mv.SingerID
	case protocol.PassMove:
		e.enqueueProcedure(abilities.EndTurn{})
		e.logger.Debug("move accepted", zap.String("move", move.Key()))
		return nil
	default:
		return e.reject(move, rules.Denied(rules.ReasonUnknownMove))
	}
	ctx.SourceID = target
	e.queue.Enqueue(effect, []targeting.Target{targeting.CardTarget(target)}, ctx, "move: "+move.String())
	e.logger.Debug("move accepted", zap.String("move", move.Key()))
	return nil
}

func (e *Engine) resolveChoice(cm protocol.ChoiceMove) *protocol.Rejection {
	pending := e.choices.Pending()
	if pending == nil {
		return e.reject(cm, rules.Denied(rules.ReasonNoPendingChoice))
	}
	e.collected = nil
	err := e.choices.Resolve(cm.ChoiceID, cm.Selection)
	switch {
	case errors.Is(err, choice.ErrNoPendingChoice):
		return e.reject(cm, rules.Denied(rules.ReasonNoPendingChoice))
	case errors.Is(err, choice.ErrChoiceMismatch), errors.Is(err, choice.ErrInvalidOption):
		return e.reject(cm, rules.Denied(rules.ReasonInvalidOption, "error", err.Error()))
	case err != nil:
		e.logger.Error("choice continuation failed", zap.String("choice_id", cm.ChoiceID), zap.Error(err))
	}

	evt := rules.NewEvent(rules.EventChoiceResolved, "", pending.SourceID, pending.PlayerID)
	evt.Data = cm.Key()
	e.emit(evt)
	step := protocol.Step{
		Kind:        protocol.StepChoiceResolved,
		PlayerID:    pending.PlayerID,
		SourceID:    pending.SourceID,
		Amount:      len(cm.Selection),
		Description: fmt.Sprintf("%s chose %v", pending.PlayerID, cm.Selection),
		Events:      e.collected,
	}
	e.collected = nil
	e.outbox = append(e.outbox, protocol.StepExecuted{Step: step})
	return nil
}

func (e *Engine) reject(move protocol.Move, res rules.LegalityResult) *protocol.Rejection {
	e.logger.Warn("move rejected",
		zap.String("move", move.Key()),
		zap.String("reason", res.Reason),
		zap.Any("details", res.Details),
	)
	return &protocol.Rejection{Move: move, Reason: res.Reason, Details: res.Details}
}

func withRejection(msg protocol.Message, r *protocol.Rejection) protocol.Message {
	if r == nil {
		return msg
	}
	switch m := msg.(type) {
	case protocol.ActionRequired:
		m.Rejection = r
		return m
	case protocol.ChoiceRequired:
		m.Rejection = r
		return m
	case protocol.StepExecuted:
		m.Rejection = r
		return m
	case protocol.GameOver:
		m.Rejection = r
		return m
	default:
		return msg
	}
}
