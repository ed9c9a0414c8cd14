package engine

import (
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// ErrQueueEmpty is returned when processing an empty queue.
var ErrQueueEmpty = errors.New("action queue empty")

// QueuedAction is one atomic effect waiting to be applied to one target.
type QueuedAction struct {
	ID         string
	Effect     abilities.Effect
	Target     targeting.Target
	Context    abilities.TriggerContext
	Provenance string
}

// ActionResult reports what processing one action did.
type ActionResult struct {
	ActionID        string
	Success         bool
	Step            protocol.Step
	EventsEmitted   []rules.Event
	Action          QueuedAction
	ChoiceRequested bool
}

// ApplyFunc applies one action.
type ApplyFunc func(QueuedAction) ActionResult

// ActionQueue is a FIFO of atomic actions. Sequences are split when they
// are enqueued so a choice can pause between their parts. Action IDs are
// numbered in the order actions enter the queue.
type ActionQueue struct {
	mu     sync.Mutex
	items  []QueuedAction
	seq    int
	apply  ApplyFunc
	logger *zap.Logger
}

// NewActionQueue creates a queue that applies actions with apply.
func NewActionQueue(apply ApplyFunc, logger *zap.Logger) *ActionQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionQueue{
		items:  make([]QueuedAction, 0, 16),
		apply:  apply,
		logger: logger,
	}
}

// Build expands an effect into queued actions: nested sequences are
// flattened and each part gets one action per target, part by part. With
// no targets each part gets a single untargeted action. IDs are assigned
// when the actions are queued.
func Build(effect abilities.Effect, targets []targeting.Target, ctx abilities.TriggerContext, provenance string) []QueuedAction {
	if len(targets) == 0 {
		targets = []targeting.Target{{}}
	}
	var out []QueuedAction
	for _, part := range abilities.Flatten(effect) {
		for _, t := range targets {
			out = append(out, QueuedAction{
				Effect:     part,
				Target:     t,
				Context:    ctx,
				Provenance: provenance,
			})
		}
	}
	return out
}

// Enqueue appends an effect for the given targets.
func (q *ActionQueue) Enqueue(effect abilities.Effect, targets []targeting.Target, ctx abilities.TriggerContext, provenance string) {
	actions := Build(effect, targets, ctx, provenance)
	q.mu.Lock()
	q.number(actions)
	q.items = append(q.items, actions...)
	q.mu.Unlock()
	for _, a := range actions {
		q.logger.Debug("action enqueued",
			zap.String("action_id", a.ID),
			zap.String("effect", a.Effect.Kind().String()),
			zap.String("target", a.Target.String()),
			zap.String("provenance", provenance),
		)
	}
}

// PushFront inserts actions at the head, keeping their order.
func (q *ActionQueue) PushFront(actions ...QueuedAction) {
	if len(actions) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.number(actions)
	items := make([]QueuedAction, 0, len(actions)+len(q.items))
	items = append(items, actions...)
	q.items = append(items, q.items...)
}

// number gives unnumbered actions the next IDs. Callers hold q.mu.
func (q *ActionQueue) number(actions []QueuedAction) {
	for i := range actions {
		if actions[i].ID == "" {
			q.seq++
			actions[i].ID = "action-" + strconv.Itoa(q.seq)
		}
	}
}

// ProcessNext pops and applies the head action. With apply false the head
// is returned untouched and stays queued.
func (q *ActionQueue) ProcessNext(apply bool) (ActionResult, error) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return ActionResult{}, ErrQueueEmpty
	}
	head := q.items[0]
	if !apply {
		q.mu.Unlock()
		return ActionResult{ActionID: head.ID, Action: head}, nil
	}
	q.items = q.items[1:]
	q.mu.Unlock()

	result := q.apply(head)
	result.ActionID = head.ID
	result.Action = head
	q.logger.Debug("action applied",
		zap.String("action_id", head.ID),
		zap.String("effect", head.Effect.Kind().String()),
		zap.Bool("success", result.Success),
		zap.String("step", string(result.Step.Kind)),
		zap.Int("events", len(result.EventsEmitted)),
	)
	return result, nil
}

// HasPending reports whether any action is queued.
func (q *ActionQueue) HasPending() bool {
	return q.Len() > 0
}

// Len returns the number of queued actions.
func (q *ActionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns a copy of the queued actions, head first.
func (q *ActionQueue) Pending() []QueuedAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]QueuedAction, len(q.items))
	copy(out, q.items)
	return out
}

// Clear drops every queued action.
func (q *ActionQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}
