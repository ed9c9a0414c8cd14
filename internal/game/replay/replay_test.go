package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

func sample(n int) *Replay {
	r := New("game-123")
	for i := 0; i < n; i++ {
		r.Record(Frame{Turn: i + 1, Message: "step"})
	}
	return r
}

func TestReplayNavigation(t *testing.T) {
	r := sample(5)
	require.Equal(t, 5, r.Len())

	f, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, 0, f.Seq)
	assert.Equal(t, 1, f.Turn)

	f, _ = r.Next()
	assert.Equal(t, 2, f.Turn)

	f, ok = r.Previous()
	require.True(t, ok)
	assert.Equal(t, 2, f.Turn)
	assert.Equal(t, 1, r.CurrentIndex)

	t.Run("skip clamps", func(t *testing.T) {
		f, ok := r.Skip(10)
		require.True(t, ok)
		assert.Equal(t, 5, f.Turn)
		f, _ = r.Skip(-10)
		assert.Equal(t, 1, f.Turn)
	})

	t.Run("previous at start", func(t *testing.T) {
		r.Start()
		_, ok := r.Previous()
		assert.False(t, ok)
	})

	t.Run("next at end", func(t *testing.T) {
		r.Skip(4)
		r.Next()
		_, ok := r.Next()
		assert.False(t, ok)
	})

	_, ok = r.At(7)
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	r := sample(3)
	r.Frames[1].Lore = map[string]int{"p1": 4}
	require.NoError(t, r.Save(dir))

	_, err := os.Stat(filepath.Join(dir, "game-123.replay"))
	require.NoError(t, err)

	loaded, err := Load(dir, "game-123")
	require.NoError(t, err)
	assert.Equal(t, "game-123", loaded.GameID)
	require.Equal(t, 3, loaded.Len())
	assert.Equal(t, 4, loaded.Frames[1].Lore["p1"])
	assert.Equal(t, 2, loaded.Frames[2].Seq)

	_, err = Load(dir, "missing")
	assert.Error(t, err)
}

func TestRecorderObserve(t *testing.T) {
	gs := state.NewGameState([]*state.Player{state.NewPlayer("p1", "A"), state.NewPlayer("p2", "B")}, 0, zaptest.NewLogger(t))
	gs.Player("p1").Lore = 3
	rec := NewRecorder(gs, zaptest.NewLogger(t))

	rec.Observe(protocol.PassMove{}, protocol.ActionRequired{
		PlayerID:  "p1",
		Rejection: &protocol.Rejection{Reason: "wrong-phase"},
	})
	rec.Observe(nil, protocol.GameOver{Winner: "p1", Reason: protocol.ReasonLoreVictory})

	frames := rec.Replay().Frames
	require.Len(t, frames, 2)
	assert.Equal(t, "pass", frames[0].Move)
	assert.Equal(t, "action-required", frames[0].MessageKind)
	assert.Equal(t, "wrong-phase", frames[0].Rejection)
	assert.Equal(t, "p1", frames[0].ActivePlayer)
	assert.Equal(t, 3, frames[0].Lore["p1"])
	assert.Empty(t, frames[1].Move)
	assert.Equal(t, "game-over", frames[1].MessageKind)

	dir := t.TempDir()
	require.NoError(t, rec.Save(dir))
	loaded, err := Load(dir, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
}
