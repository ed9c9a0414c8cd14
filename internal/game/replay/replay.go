// Package replay records the message stream of a game as a sequence of
// frames and stores it as a gzipped gob file.
package replay

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

const formatVersion = 1

// Frame is one call of the message pump: the submitted move, the answer and
// the scoreboard right after it.
type Frame struct {
	Seq          int
	Turn         int
	Phase        string
	ActivePlayer string
	Move         string
	MessageKind  string
	Message      string
	Rejection    string
	Lore         map[string]int
}

// Replay is an ordered list of frames with a playback cursor.
type Replay struct {
	GameID       string
	Frames       []Frame
	CurrentIndex int
	mu           sync.RWMutex
}

// New creates an empty replay.
func New(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// Record appends a frame.
func (r *Replay) Record(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.Seq = len(r.Frames)
	r.Frames = append(r.Frames, f)
}

// Start rewinds the cursor.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next returns the frame under the cursor and advances it.
func (r *Replay) Next() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex < len(r.Frames) {
		f := r.Frames[r.CurrentIndex]
		r.CurrentIndex++
		return f, true
	}
	return Frame{}, false
}

// Previous moves the cursor back and returns that frame.
func (r *Replay) Previous() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Frames[r.CurrentIndex], true
	}
	return Frame{}, false
}

// Skip moves the cursor by count frames, clamped to the recording.
func (r *Replay) Skip(count int) (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	idx := min(max(r.CurrentIndex+count, 0), len(r.Frames)-1)
	r.CurrentIndex = idx
	return r.Frames[idx], true
}

// Len returns the number of frames.
func (r *Replay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Frames)
}

// At returns the frame at index.
func (r *Replay) At(index int) (Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index >= 0 && index < len(r.Frames) {
		return r.Frames[index], true
	}
	return Frame{}, false
}

type metadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	FrameCount int
}

// Path returns the file a replay of gameID is stored in.
func Path(directory, gameID string) string {
	return filepath.Join(directory, gameID+".replay")
}

// Save writes the replay to directory/<game id>.replay.
func (r *Replay) Save(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	file, err := os.Create(Path(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)
	meta := metadata{GameID: r.GameID, Timestamp: time.Now(), Version: formatVersion, FrameCount: len(r.Frames)}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("encode replay metadata: %w", err)
	}
	for i := range r.Frames {
		if err := enc.Encode(&r.Frames[i]); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
	}
	return zw.Close()
}

// Load reads a replay written by Save.
func Load(directory, gameID string) (*Replay, error) {
	file, err := os.Open(Path(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open replay stream: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var meta metadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode replay metadata: %w", err)
	}
	if meta.Version != formatVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", meta.Version)
	}

	r := New(meta.GameID)
	r.Frames = make([]Frame, 0, meta.FrameCount)
	for i := 0; i < meta.FrameCount; i++ {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", i, err)
		}
		r.Frames = append(r.Frames, f)
	}
	return r, nil
}

// Recorder captures frames for one game.
type Recorder struct {
	game   *state.GameState
	replay *Replay
	logger *zap.Logger
}

// NewRecorder starts recording gs.
func NewRecorder(gs *state.GameState, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("started replay recording", zap.String("game_id", gs.ID))
	return &Recorder{game: gs, replay: New(gs.ID), logger: logger}
}

// Observe records the move submitted to the pump (nil for none) and the
// message it answered with.
func (r *Recorder) Observe(move protocol.Move, msg protocol.Message) {
	f := Frame{
		Turn:         r.game.Turn.TurnNumber(),
		Phase:        r.game.Turn.CurrentPhase().String(),
		ActivePlayer: r.game.Turn.ActivePlayer(),
		MessageKind:  messageKind(msg),
		Message:      msg.String(),
		Lore:         make(map[string]int, len(r.game.Players)),
	}
	if move != nil {
		f.Move = move.Key()
	}
	if rej := msg.Rejected(); rej != nil {
		f.Rejection = rej.Reason
	}
	for _, p := range r.game.Players {
		f.Lore[p.ID] = p.Lore
	}
	r.replay.Record(f)
}

// Replay returns the recording so far.
func (r *Recorder) Replay() *Replay {
	return r.replay
}

// Save writes the recording to directory.
func (r *Recorder) Save(directory string) error {
	if err := r.replay.Save(directory); err != nil {
		return err
	}
	r.logger.Info("saved replay",
		zap.String("game_id", r.replay.GameID),
		zap.Int("frames", r.replay.Len()),
		zap.String("directory", directory),
	)
	return nil
}

func messageKind(msg protocol.Message) string {
	switch msg.(type) {
	case protocol.ActionRequired:
		return "action-required"
	case protocol.ChoiceRequired:
		return "choice-required"
	case protocol.StepExecuted:
		return "step-executed"
	case protocol.GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}
