package rules

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))

	questCount := 0
	loreCount := 0

	handle1 := bus.SubscribeTyped(EventCharacterQuested, func(e Event) (string, error) {
		questCount++
		return "", nil
	})
	bus.SubscribeTyped(EventLoreGained, func(e Event) (string, error) {
		loreCount++
		return "", nil
	})

	bus.Publish(NewEvent(EventCharacterQuested, "", "card1", "player1"))
	if questCount != 1 {
		t.Fatalf("expected quest count 1, got %d", questCount)
	}
	if loreCount != 0 {
		t.Fatalf("expected lore count 0, got %d", loreCount)
	}

	bus.Publish(NewEventWithAmount(EventLoreGained, "player1", "card1", "player1", 2))
	if loreCount != 1 {
		t.Fatalf("expected lore count 1, got %d", loreCount)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEvent(EventCharacterQuested, "", "card2", "player1"))
	if questCount != 1 {
		t.Fatalf("expected quest count still 1 after unsubscribe, got %d", questCount)
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus(nil)

	count := 0
	bus.Subscribe(func(e Event) (string, error) {
		count++
		return "", nil
	})

	bus.Publish(NewEvent(EventCardDrawn, "card1", "", "player1"))
	bus.Publish(NewEvent(EventInkPlayed, "card2", "", "player1"))
	bus.Publish(NewEvent(EventTurnEnded, "", "", "player1"))

	if count != 3 {
		t.Fatalf("expected 3 events delivered, got %d", count)
	}
}

func TestEventBusRegistrationOrderAndResults(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.SubscribeTyped(EventCharacterQuested, func(e Event) (string, error) {
			order = append(order, name)
			return name + " reacted", nil
		})
	}

	results := bus.Publish(NewEvent(EventCharacterQuested, "", "card1", "player1"))
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("expected registration order, got %v", order)
	}
	if len(results) != 3 || results[2] != "third reacted" {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestEventBusListenerFailureIsIsolated(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))

	reached := 0
	bus.Subscribe(func(e Event) (string, error) {
		return "", errors.New("boom")
	})
	bus.Subscribe(func(e Event) (string, error) {
		panic("ability exploded")
	})
	bus.Subscribe(func(e Event) (string, error) {
		reached++
		return "ok", nil
	})

	results := bus.Publish(NewEvent(EventCardDrawn, "card1", "", "player1"))
	if reached != 1 {
		t.Fatalf("expected the healthy listener to run once, got %d", reached)
	}
	if len(results) != 1 || results[0] != "ok" {
		t.Fatalf("expected only the healthy result, got %v", results)
	}
}

func TestEventBusSnapshotDuringPublish(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))

	lateCalls := 0
	var lateHandle int
	calls := 0
	bus.SubscribeTyped(EventCardDrawn, func(e Event) (string, error) {
		calls++
		// Subscribing mid-publish must not deliver the current event to the
		// new listener.
		lateHandle = bus.SubscribeTyped(EventCardDrawn, func(e Event) (string, error) {
			lateCalls++
			return "", nil
		})
		return "", nil
	})

	bus.Publish(NewEvent(EventCardDrawn, "card1", "", "player1"))
	if lateCalls != 0 {
		t.Fatalf("expected late listener to miss the in-flight event, got %d calls", lateCalls)
	}

	bus.Unsubscribe(lateHandle)
	bus.Publish(NewEvent(EventCardDrawn, "card2", "", "player1"))
	if calls != 2 {
		t.Fatalf("expected original listener to run twice, got %d", calls)
	}
}

func TestEventBusNestedPublish(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))

	inner := 0
	bus.SubscribeTyped(EventCharacterBanished, func(e Event) (string, error) {
		inner++
		return "", nil
	})
	bus.SubscribeTyped(EventDamageTaken, func(e Event) (string, error) {
		bus.Publish(NewEvent(EventCharacterBanished, e.TargetID, e.SourceID, e.PlayerID))
		return "", nil
	})

	bus.Publish(NewEventWithAmount(EventDamageTaken, "card1", "card2", "player1", 3))
	if inner != 1 {
		t.Fatalf("expected nested publish to deliver once, got %d", inner)
	}
}

func TestEventBusDepthGuard(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))
	bus.SetMaxDepth(3)

	calls := 0
	bus.SubscribeTyped(EventCardDrawn, func(e Event) (string, error) {
		calls++
		bus.Publish(e)
		return "", nil
	})

	bus.Publish(NewEvent(EventCardDrawn, "card1", "", "player1"))
	if calls != 3 {
		t.Fatalf("expected recursion to stop at depth 3, got %d calls", calls)
	}
}

func TestEventWithMetaDoesNotMutateOriginal(t *testing.T) {
	evt := NewEvent(EventCharacterChosen, "card1", "action1", "player2")
	tagged := evt.WithMeta("chooser", "player2")

	if evt.Meta("chooser") != "" {
		t.Fatalf("expected original metadata untouched")
	}
	if tagged.Meta("chooser") != "player2" {
		t.Fatalf("expected tagged copy to carry metadata, got %q", tagged.Meta("chooser"))
	}
}
