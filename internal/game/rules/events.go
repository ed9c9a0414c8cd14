package rules

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn structure
	EventTurnBegan    EventType = "TURN_BEGAN"
	EventTurnEnded    EventType = "TURN_ENDED"
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventReadyStep    EventType = "READY_STEP"

	// Cards moving through zones
	EventZoneChange           EventType = "ZONE_CHANGE"
	EventCardDrawn            EventType = "CARD_DRAWN"
	EventInkPlayed            EventType = "INK_PLAYED"
	EventCardPlayed           EventType = "CARD_PLAYED"
	EventCharacterEnteredPlay EventType = "CHARACTER_ENTERED_PLAY"
	EventCharacterLeftPlay    EventType = "CHARACTER_LEFT_PLAY"
	EventItemPlayed           EventType = "ITEM_PLAYED"
	EventActionPlayed         EventType = "ACTION_PLAYED"
	EventSongSung             EventType = "SONG_SUNG"
	EventReturnedToHand       EventType = "RETURNED_TO_HAND"
	EventCardDiscarded        EventType = "CARD_DISCARDED"

	// Character actions
	EventCharacterQuested  EventType = "CHARACTER_QUESTED"
	EventChallengeDeclared EventType = "CHALLENGE_DECLARED"
	EventCharacterExerted  EventType = "CHARACTER_EXERTED"
	EventCharacterReadied  EventType = "CHARACTER_READIED"
	EventCharacterChosen   EventType = "CHARACTER_CHOSEN"

	// Damage and banishment
	EventDamageDealt         EventType = "DAMAGE_DEALT"
	EventDamageTaken         EventType = "DAMAGE_TAKEN"
	EventHealed              EventType = "HEALED"
	EventCharacterBanished   EventType = "CHARACTER_BANISHED"
	EventBanishedInChallenge EventType = "BANISHED_IN_CHALLENGE"

	// Lore and modifiers
	EventLoreGained     EventType = "LORE_GAINED"
	EventLoreLost       EventType = "LORE_LOST"
	EventStatModified   EventType = "STAT_MODIFIED"
	EventKeywordGranted EventType = "KEYWORD_GRANTED"
	EventCostModified   EventType = "COST_MODIFIED"

	EventChoiceResolved EventType = "CHOICE_RESOLVED"
)

// Event represents a single game event. Events are passed by value and never
// modified after publication; reactions create new events or queue actions.
type Event struct {
	Type        EventType
	ID          string            // Unique event ID
	PlayerID    string            // Acting player
	SourceID    string            // Card (or player) causing the event
	TargetID    string            // Card (or player) affected by the event
	Amount      int               // Damage, lore, cards drawn, ...
	FromZone    string            // Zone name for zone changes
	ToZone      string            // Zone name for zone changes
	Data        string            // Additional string data
	Metadata    map[string]string // Additional metadata
	Timestamp   time.Time
	Description string
}

// Meta returns a metadata value, or "" when absent.
func (e Event) Meta(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}

// WithMeta returns a copy of the event carrying an extra metadata entry.
// The receiver's map is not modified.
func (e Event) WithMeta(key, value string) Event {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	e.Metadata = meta
	return e
}

func (e Event) String() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Description)
	}
	return fmt.Sprintf("%s source=%s target=%s amount=%d", e.Type, e.SourceID, e.TargetID, e.Amount)
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, playerID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		TargetID:  targetID,
		SourceID:  sourceID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, playerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Amount = amount
	return evt
}

// Listener reacts to an event. The returned string is a human-readable
// result collected by Publish; an error is logged and does not stop the
// remaining listeners.
type Listener func(Event) (string, error)

type subscription struct {
	handle    int
	eventType EventType // empty matches every event
	listener  Listener
}

// DefaultMaxDepth bounds nested Publish calls.
const DefaultMaxDepth = 32

// EventBus is a synchronous publish/subscribe bus. Listeners are invoked in
// registration order against a snapshot taken when Publish starts, so a
// listener may subscribe, unsubscribe or publish without disturbing the
// delivery in progress.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
	depth      int
	maxDepth   int
	logger     *zap.Logger
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		subs:     make([]subscription, 0, 32),
		maxDepth: DefaultMaxDepth,
		logger:   logger,
	}
}

// SetMaxDepth changes the nested publish limit. Values below 1 are ignored.
func (bus *EventBus) SetMaxDepth(depth int) {
	if depth < 1 {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.maxDepth = depth
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{
		handle:    handle,
		eventType: eventType,
		listener:  listener,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subs {
		if sub.handle == handle {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of registered listeners.
func (bus *EventBus) Len() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs)
}

// Publish delivers the event to every matching listener and returns the
// non-empty results in listener order.
func (bus *EventBus) Publish(event Event) []string {
	bus.mu.Lock()
	if bus.depth >= bus.maxDepth {
		bus.mu.Unlock()
		bus.logger.Error("event chain too deep, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Int("max_depth", bus.maxDepth),
		)
		return nil
	}
	bus.depth++
	snapshot := make([]subscription, 0, len(bus.subs))
	for _, sub := range bus.subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			snapshot = append(snapshot, sub)
		}
	}
	bus.mu.Unlock()

	defer func() {
		bus.mu.Lock()
		bus.depth--
		bus.mu.Unlock()
	}()

	var results []string
	for _, sub := range snapshot {
		result, err := bus.dispatch(sub, event)
		if err != nil {
			bus.logger.Error("event listener failed",
				zap.String("event_type", string(event.Type)),
				zap.Int("handle", sub.handle),
				zap.Error(err),
			)
			continue
		}
		if result != "" {
			results = append(results, result)
		}
	}
	return results
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) []string {
	var results []string
	for _, event := range events {
		results = append(results, bus.Publish(event)...)
	}
	return results
}

func (bus *EventBus) dispatch(sub subscription, event Event) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return sub.listener(event)
}
