// Package choice models a pending player decision as data plus a
// continuation, so the engine pauses instead of blocking.
package choice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrChoicePending is returned when a choice is requested while another is outstanding.
	ErrChoicePending = errors.New("a choice is already pending")
	// ErrNoPendingChoice is returned when resolving with nothing outstanding.
	ErrNoPendingChoice = errors.New("no pending choice")
	// ErrChoiceMismatch is returned when the choice ID is not the outstanding one.
	ErrChoiceMismatch = errors.New("choice id does not match the pending choice")
	// ErrInvalidOption is returned when a selection is not allowed by the choice.
	ErrInvalidOption = errors.New("invalid option")
)

// Well-known option IDs.
const (
	OptionYes  = "yes"
	OptionNo   = "no"
	OptionNone = "none"
)

// Kind is the shape of a choice.
type Kind int

const (
	KindYesNo Kind = iota
	KindSelectOne
	KindSelectTargets
)

func (k Kind) String() string {
	switch k {
	case KindYesNo:
		return "yes_no"
	case KindSelectOne:
		return "select_one"
	case KindSelectTargets:
		return "select_targets"
	default:
		return fmt.Sprintf("kind_%d", int(k))
	}
}

// Option is one labeled answer.
type Option struct {
	ID    string
	Label string
}

// Continuation resumes the effect that asked, given the validated selection.
type Continuation func(selection []string) error

// Context is a pending decision for one player.
type Context struct {
	ID        string
	PlayerID  string
	SourceID  string
	Prompt    string
	Kind      Kind
	Options   []Option
	Min       int
	Max       int
	Optional  bool
	CreatedAt time.Time

	Continuation Continuation
}

// YesNo builds a yes/no choice.
func YesNo(playerID, sourceID, prompt string, cont Continuation) *Context {
	return &Context{
		PlayerID:     playerID,
		SourceID:     sourceID,
		Prompt:       prompt,
		Kind:         KindYesNo,
		Options:      []Option{{ID: OptionYes, Label: "Yes"}, {ID: OptionNo, Label: "No"}},
		Min:          1,
		Max:          1,
		Continuation: cont,
	}
}

// SelectOne builds a choice of exactly one option.
func SelectOne(playerID, sourceID, prompt string, options []Option, cont Continuation) *Context {
	return &Context{
		PlayerID:     playerID,
		SourceID:     sourceID,
		Prompt:       prompt,
		Kind:         KindSelectOne,
		Options:      options,
		Min:          1,
		Max:          1,
		Continuation: cont,
	}
}

// SelectTargets builds a choice of min..max distinct options. An optional
// choice also offers OptionNone.
func SelectTargets(playerID, sourceID, prompt string, options []Option, min, max int, optional bool, cont Continuation) *Context {
	if max < min {
		max = min
	}
	if max > len(options) {
		max = len(options)
	}
	if min > max {
		min = max
	}
	if optional {
		options = append(append([]Option(nil), options...), Option{ID: OptionNone, Label: "None"})
	}
	return &Context{
		PlayerID:     playerID,
		SourceID:     sourceID,
		Prompt:       prompt,
		Kind:         KindSelectTargets,
		Options:      options,
		Min:          min,
		Max:          max,
		Optional:     optional,
		Continuation: cont,
	}
}

// HasOption reports whether id is offered.
func (c *Context) HasOption(id string) bool {
	for _, o := range c.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Validate checks a selection against the offered options and cardinality.
func (c *Context) Validate(selection []string) error {
	if len(selection) == 1 && selection[0] == OptionNone {
		if c.Optional {
			return nil
		}
		return fmt.Errorf("%w: %q is not offered", ErrInvalidOption, OptionNone)
	}
	if len(selection) < c.Min || len(selection) > c.Max {
		return fmt.Errorf("%w: expected %d to %d selections, got %d", ErrInvalidOption, c.Min, c.Max, len(selection))
	}
	seen := make(map[string]bool, len(selection))
	for _, id := range selection {
		if id == OptionNone {
			return fmt.Errorf("%w: %q must be selected alone", ErrInvalidOption, OptionNone)
		}
		if !c.HasOption(id) {
			return fmt.Errorf("%w: %q is not offered", ErrInvalidOption, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %q selected twice", ErrInvalidOption, id)
		}
		seen[id] = true
	}
	return nil
}

// View returns a copy safe to hand to callers: options are copied and the
// continuation is dropped.
func (c *Context) View() Context {
	view := *c
	view.Options = append([]Option(nil), c.Options...)
	view.Continuation = nil
	return view
}

func (c *Context) String() string {
	ids := make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		ids = append(ids, o.ID)
	}
	return fmt.Sprintf("%s for %s: %s [%s]", c.Kind, c.PlayerID, c.Prompt, strings.Join(ids, ","))
}

// Manager holds at most one outstanding choice. Choice IDs count up from
// choice-1 per manager.
type Manager struct {
	mu      sync.Mutex
	pending *Context
	issued  int
	logger  *zap.Logger
}

// NewManager creates a choice manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Request makes ctx the outstanding choice.
func (m *Manager) Request(ctx *Context) error {
	if ctx == nil {
		return errors.New("choice context is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		return fmt.Errorf("%w: %s", ErrChoicePending, m.pending.ID)
	}
	if ctx.ID == "" {
		m.issued++
		ctx.ID = "choice-" + strconv.Itoa(m.issued)
	}
	if ctx.CreatedAt.IsZero() {
		ctx.CreatedAt = time.Now()
	}
	m.pending = ctx
	m.logger.Debug("choice requested",
		zap.String("choice_id", ctx.ID),
		zap.String("player_id", ctx.PlayerID),
		zap.String("kind", ctx.Kind.String()),
		zap.Int("options", len(ctx.Options)),
	)
	return nil
}

// Pending returns the outstanding choice, or nil.
func (m *Manager) Pending() *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// HasPending reports whether a choice is outstanding.
func (m *Manager) HasPending() bool {
	return m.Pending() != nil
}

// Resolve validates a selection for the outstanding choice, clears it and
// runs its continuation. On a validation error the choice stays outstanding.
// The continuation may request a further choice.
func (m *Manager) Resolve(id string, selection []string) error {
	m.mu.Lock()
	pending := m.pending
	if pending == nil {
		m.mu.Unlock()
		return ErrNoPendingChoice
	}
	if pending.ID != id {
		m.mu.Unlock()
		return fmt.Errorf("%w: got %s, pending %s", ErrChoiceMismatch, id, pending.ID)
	}
	if err := pending.Validate(selection); err != nil {
		m.mu.Unlock()
		return err
	}
	m.pending = nil
	m.mu.Unlock()

	m.logger.Debug("choice resolved",
		zap.String("choice_id", id),
		zap.Strings("selection", selection),
	)
	if pending.Continuation == nil {
		return nil
	}
	if err := pending.Continuation(selection); err != nil {
		return fmt.Errorf("resume choice %s: %w", id, err)
	}
	return nil
}
