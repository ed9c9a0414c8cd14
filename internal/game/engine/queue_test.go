package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lorcanasim/lorcana-engine/internal/game/abilities"
	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

func countingQueue(t *testing.T, applied *[]QueuedAction) *ActionQueue {
	t.Helper()
	return NewActionQueue(func(a QueuedAction) ActionResult {
		*applied = append(*applied, a)
		return ActionResult{Success: true, Step: protocol.Step{Kind: protocol.StepNoOp, Description: a.Effect.String()}}
	}, zaptest.NewLogger(t))
}

func TestQueueDrainsOneActionPerCall(t *testing.T) {
	var applied []QueuedAction
	q := countingQueue(t, &applied)
	for i := 0; i < 3; i++ {
		q.Enqueue(abilities.GainLore{Amount: i + 1}, nil, abilities.TriggerContext{}, "test")
	}
	require.Equal(t, 3, q.Len())

	for i := 0; i < 3; i++ {
		res, err := q.ProcessNext(true)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, res.Action.ID, res.ActionID)
		assert.Len(t, applied, i+1)
		assert.Equal(t, 2-i, q.Len())
	}
	assert.False(t, q.HasPending())

	_, err := q.ProcessNext(true)
	assert.ErrorIs(t, err, ErrQueueEmpty)
	assert.Len(t, applied, 3)
}

func TestQueueNumbersActionsInOrder(t *testing.T) {
	var applied []QueuedAction
	q := countingQueue(t, &applied)
	q.Enqueue(abilities.Then(abilities.GainLore{Amount: 1}, abilities.Exert{}), nil, abilities.TriggerContext{}, "test")
	q.PushFront(Build(abilities.NoEffect{}, nil, abilities.TriggerContext{}, "test")...)

	ids := make([]string, 0, 3)
	for _, a := range q.Pending() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"action-3", "action-1", "action-2"}, ids)
}

func TestQueueExpandsSequencesAtEnqueue(t *testing.T) {
	var applied []QueuedAction
	q := countingQueue(t, &applied)

	seq := abilities.Then(
		abilities.GainLore{Amount: 1},
		abilities.Then(abilities.DrawCards{Count: 1}, abilities.NoEffect{}),
		abilities.Exert{},
	)
	q.Enqueue(seq, nil, abilities.TriggerContext{}, "test")
	assert.Equal(t, 4, q.Len())

	kinds := make([]abilities.EffectKind, 0, 4)
	for q.HasPending() {
		res, err := q.ProcessNext(true)
		require.NoError(t, err)
		kinds = append(kinds, res.Action.Effect.Kind())
	}
	assert.Equal(t, []abilities.EffectKind{
		abilities.KindGainLore,
		abilities.KindDrawCards,
		abilities.KindNoEffect,
		abilities.KindExert,
	}, kinds)
}

func TestQueueTargetsAreEffectMajor(t *testing.T) {
	var applied []QueuedAction
	q := countingQueue(t, &applied)
	targets := []targeting.Target{targeting.CardTarget("a"), targeting.CardTarget("b")}

	q.Enqueue(abilities.Then(abilities.Exert{}, abilities.Ready{}), targets, abilities.TriggerContext{}, "test")

	pending := q.Pending()
	require.Len(t, pending, 4)
	got := make([]string, 0, 4)
	for _, a := range pending {
		got = append(got, a.Effect.String()+"@"+a.Target.CardID)
	}
	assert.Equal(t, []string{"exert@a", "exert@b", "ready@a", "ready@b"}, got)
}

func TestQueuePeekDoesNotApply(t *testing.T) {
	var applied []QueuedAction
	q := countingQueue(t, &applied)
	q.Enqueue(abilities.NoEffect{Reason: "first"}, nil, abilities.TriggerContext{}, "test")

	res, err := q.ProcessNext(false)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, "no effect: first", res.Action.Effect.String())
	assert.False(t, res.Success)
}

func TestQueuePushFront(t *testing.T) {
	var applied []QueuedAction
	q := countingQueue(t, &applied)
	q.Enqueue(abilities.NoEffect{Reason: "tail"}, nil, abilities.TriggerContext{}, "test")
	q.PushFront(Build(abilities.Then(abilities.NoEffect{Reason: "1"}, abilities.NoEffect{Reason: "2"}), nil, abilities.TriggerContext{}, "test")...)

	var order []string
	for q.HasPending() {
		res, err := q.ProcessNext(true)
		require.NoError(t, err)
		order = append(order, res.Step.Description)
	}
	assert.Equal(t, []string{"no effect: 1", "no effect: 2", "no effect: tail"}, order)

	q.Enqueue(abilities.NoEffect{}, nil, abilities.TriggerContext{}, "test")
	q.Clear()
	assert.Zero(t, q.Len())
}
