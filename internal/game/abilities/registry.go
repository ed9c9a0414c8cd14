package abilities

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lorcanasim/lorcana-engine/internal/game/effects"
	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
	"github.com/lorcanasim/lorcana-engine/internal/game/targeting"
)

// Sink receives the effects produced by triggered abilities. Listeners only
// enqueue; they never apply effects.
type Sink interface {
	Enqueue(effect Effect, targets []targeting.Target, ctx TriggerContext, provenance string)
}

// binding is one attached ability and its live bus subscriptions.
type binding struct {
	ability Ability
	handles []int
	statics []string
}

// Registry attaches abilities to card instances and keeps their trigger
// listeners subscribed exactly while the card is in a live zone.
type Registry struct {
	mu       sync.RWMutex
	game     *state.GameState
	bus      *rules.EventBus
	keywords *keywords.Registry
	watchers *rules.WatcherRegistry
	sink     Sink
	logger   *zap.Logger
	bindings map[string][]*binding
}

// NewRegistry creates an ability registry for one game.
func NewRegistry(gs *state.GameState, bus *rules.EventBus, kw *keywords.Registry, watchers *rules.WatcherRegistry, sink Sink, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if kw == nil {
		kw = keywords.NewRegistry()
	}
	return &Registry{
		game:     gs,
		bus:      bus,
		keywords: kw,
		watchers: watchers,
		sink:     sink,
		logger:   logger,
		bindings: make(map[string][]*binding),
	}
}

// Keywords returns the keyword registry.
func (r *Registry) Keywords() *keywords.Registry {
	return r.keywords
}

// Attach adds abilities to a card and subscribes those live in its zone.
func (r *Registry) Attach(cardID string, abilities ...Ability) {
	r.mu.Lock()
	for _, a := range abilities {
		r.bindings[cardID] = append(r.bindings[cardID], &binding{ability: a})
	}
	r.mu.Unlock()
	r.Sync(cardID)
}

// Abilities returns the abilities attached to a card.
func (r *Registry) Abilities(cardID string) []Ability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Ability, 0, len(r.bindings[cardID]))
	for _, b := range r.bindings[cardID] {
		out = append(out, b.ability)
	}
	return out
}

// Sync subscribes the card's abilities that became live and unsubscribes
// those that stopped being live. It must be called after every zone change.
func (r *Registry) Sync(cardID string) {
	card := r.game.Card(cardID)
	if card == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bindings[cardID] {
		live := b.ability.LiveIn(card.Zone)
		subscribed := len(b.handles) > 0 || len(b.statics) > 0
		switch {
		case live && !subscribed:
			r.subscribe(card, b)
		case !live && subscribed:
			r.unsubscribe(b)
			r.logger.Debug("ability unregistered",
				zap.String("card_id", cardID),
				zap.String("ability", b.ability.Name),
				zap.String("zone", card.Zone.String()),
			)
		}
	}
}

// Detach removes every ability from a card.
func (r *Registry) Detach(cardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bindings[cardID] {
		r.unsubscribe(b)
	}
	delete(r.bindings, cardID)
}

func (r *Registry) subscribe(card *state.Card, b *binding) {
	for _, te := range b.ability.Triggers {
		eventType, _ := te.Trigger.Kind.Binding()
		handle := r.bus.SubscribeTyped(eventType, r.listener(card.ID, b.ability, te))
		b.handles = append(b.handles, handle)
	}
	if card.Zone == state.ZonePlay {
		for _, s := range b.ability.Statics {
			aura := effects.NewStatAura(card.ID, card.OwnerID, s.Stat, s.Amount, s.IncludeSelf, s.Subtype)
			b.statics = append(b.statics, r.game.Modifiers.AddEffect(aura))
		}
	}
	if len(b.handles) > 0 || len(b.statics) > 0 {
		r.logger.Debug("ability registered",
			zap.String("card_id", card.ID),
			zap.String("ability", b.ability.Name),
			zap.Int("triggers", len(b.handles)),
			zap.Int("statics", len(b.statics)),
		)
	}
}

func (r *Registry) unsubscribe(b *binding) {
	for _, h := range b.handles {
		r.bus.Unsubscribe(h)
	}
	for _, id := range b.statics {
		r.game.Modifiers.RemoveEffect(id)
	}
	b.handles = nil
	b.statics = nil
}

// listener builds the bus callback of one trigger. Zone liveness is checked
// again at dispatch because the card may have moved since it subscribed.
func (r *Registry) listener(cardID string, ability Ability, te TriggeredEffect) rules.Listener {
	return func(event rules.Event) (string, error) {
		card := r.game.Card(cardID)
		if card == nil || !ability.LiveIn(card.Zone) {
			return "", nil
		}
		ctx := r.Context(card, event)
		if !te.Trigger.matches(ctx) {
			return "", nil
		}
		if te.Condition != nil && !te.Condition(ctx) {
			return "", nil
		}
		targets := targeting.Select(r.game, te.Selector, ctx.Targeting())
		if len(targets) == 0 {
			r.logger.Debug("trigger found no targets",
				zap.String("card_id", cardID),
				zap.String("ability", ability.Name),
			)
			return "", nil
		}
		if r.sink == nil {
			return "", fmt.Errorf("ability %q triggered with no sink", ability.Name)
		}
		provenance := fmt.Sprintf("%s: %s", card.FullName(), ability.Name)
		r.sink.Enqueue(te.Effect, targets, ctx, provenance)
		r.logger.Debug("ability triggered",
			zap.String("card_id", cardID),
			zap.String("ability", ability.Name),
			zap.String("event", string(event.Type)),
			zap.Int("targets", len(targets)),
		)
		return provenance + " triggered", nil
	}
}

// Context builds the trigger context for a card reacting to an event.
func (r *Registry) Context(card *state.Card, event rules.Event) TriggerContext {
	return TriggerContext{
		Game:         r.game,
		Event:        event,
		SourceID:     card.ID,
		ControllerID: card.OwnerID,
		Watchers:     r.watchers,
		Keywords:     r,
	}
}

// Capabilities returns the keywords a card currently has: those of its live
// keyword abilities plus temporary grants. Nothing is cached.
func (r *Registry) Capabilities(cardID string) keywords.Set {
	set := r.keywords.NewSet()
	card := r.game.Card(cardID)
	if card == nil {
		return set
	}
	r.mu.RLock()
	for _, b := range r.bindings[cardID] {
		if b.ability.Keyword != "" && b.ability.LiveIn(card.Zone) {
			set.Add(b.ability.Keyword, b.ability.Value)
		}
	}
	r.mu.RUnlock()
	for _, g := range r.game.Snapshot(card).Grants {
		set.Add(g.Keyword, g.Value)
	}
	return set
}

// KeywordValue returns the card's value for a keyword, zero when absent.
func (r *Registry) KeywordValue(cardID string, k keywords.Keyword) int {
	return r.Capabilities(cardID).Value(k)
}

// HasKeyword reports whether the card currently has the keyword.
func (r *Registry) HasKeyword(cardID string, k keywords.Keyword) bool {
	return r.Capabilities(cardID).Has(k)
}

// ShiftValue returns the printed Shift cost of a card regardless of zone.
func (r *Registry) ShiftValue(cardID string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bindings[cardID] {
		if b.ability.Keyword == keywords.Shift {
			return b.ability.Value, true
		}
	}
	return 0, false
}
