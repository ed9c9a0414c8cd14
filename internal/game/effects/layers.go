package effects

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lorcanasim/lorcana-engine/internal/game/keywords"
)

// Layer orders the application of continuous effects.
type Layer int

const (
	// LayerAbility effects grant keywords.
	LayerAbility Layer = 1 + iota
	// LayerStats effects change strength, willpower or lore.
	LayerStats
	// LayerCost effects change what a card costs to play.
	LayerCost
)

var layerOrder = []Layer{
	LayerAbility,
	LayerStats,
	LayerCost,
}

// Stat names a modifiable character statistic.
type Stat int

const (
	StatNone Stat = iota
	StatStrength
	StatWillpower
	StatLore
)

func (s Stat) String() string {
	switch s {
	case StatStrength:
		return "strength"
	case StatWillpower:
		return "willpower"
	case StatLore:
		return "lore"
	default:
		return "none"
	}
}

// ParseStat resolves a stat by name.
func ParseStat(name string) (Stat, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strength":
		return StatStrength, true
	case "willpower":
		return StatWillpower, true
	case "lore":
		return StatLore, true
	default:
		return StatNone, false
	}
}

// Grant is a keyword instance conferred by a continuous effect.
type Grant struct {
	Keyword keywords.Keyword
	Value   int
}

// Snapshot represents the characteristics of a card while continuous effects
// are evaluated. Base values come from the printed card; derived values are
// recomputed from scratch on every evaluation.
type Snapshot struct {
	CardID        string
	ControllerID  string
	Name          string
	Subtypes      []string
	Zone          string
	Character     bool
	BaseStrength  int
	BaseWillpower int
	BaseLore      int
	BaseCost      int

	Strength        int
	Willpower       int
	Lore            int
	CostAdjustments []int
	Grants          []Grant
}

// Reset restores derived characteristics to their base values.
func (s *Snapshot) Reset() {
	s.Strength = s.BaseStrength
	s.Willpower = s.BaseWillpower
	s.Lore = s.BaseLore
	s.CostAdjustments = nil
	s.Grants = nil
}

// HasSubtype returns true if the snapshot includes the provided subtype.
func (s *Snapshot) HasSubtype(subtype string) bool {
	subtype = strings.ToLower(strings.TrimSpace(subtype))
	for _, t := range s.Subtypes {
		if strings.ToLower(strings.TrimSpace(t)) == subtype {
			return true
		}
	}
	return false
}

// Modify adds delta to one stat.
func (s *Snapshot) Modify(stat Stat, delta int) {
	switch stat {
	case StatStrength:
		s.Strength += delta
	case StatWillpower:
		s.Willpower += delta
	case StatLore:
		s.Lore += delta
	}
}

// Value reads one derived stat.
func (s *Snapshot) Value(stat Stat) int {
	switch stat {
	case StatStrength:
		return s.Strength
	case StatWillpower:
		return s.Willpower
	case StatLore:
		return s.Lore
	default:
		return 0
	}
}

// ContinuousEffect defines behaviour for modifying card characteristics.
type ContinuousEffect interface {
	ID() string
	Layer() Layer
	Duration() Duration
	SourceID() string
	ControllerID() string
	AppliesTo(*Snapshot) bool
	Apply(*Snapshot)
}

// LayerSystem manages registration and evaluation of continuous effects.
// Effects within a layer apply in registration order.
type LayerSystem struct {
	mu      sync.RWMutex
	effects map[string]ContinuousEffect
	order   []string
}

// NewLayerSystem constructs an empty layer system.
func NewLayerSystem() *LayerSystem {
	return &LayerSystem{
		effects: make(map[string]ContinuousEffect),
	}
}

// AddEffect registers a new continuous effect and returns its identifier.
func (ls *LayerSystem) AddEffect(effect ContinuousEffect) string {
	if effect == nil {
		return ""
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	id := effect.ID()
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := ls.effects[id]; !exists {
		ls.order = append(ls.order, id)
	}
	ls.effects[id] = effect
	return id
}

// RemoveEffect removes a registered effect by ID.
func (ls *LayerSystem) RemoveEffect(id string) {
	if id == "" {
		return
	}
	ls.RemoveWhere(func(e ContinuousEffect) bool { return e.ID() == id })
}

// RemoveWhere removes every effect matching the predicate and returns their IDs.
func (ls *LayerSystem) RemoveWhere(match func(ContinuousEffect) bool) []string {
	if ls == nil || match == nil {
		return nil
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	var removed []string
	kept := ls.order[:0]
	for _, id := range ls.order {
		if match(ls.effects[id]) {
			removed = append(removed, id)
			delete(ls.effects, id)
			continue
		}
		kept = append(kept, id)
	}
	ls.order = kept
	return removed
}

// Apply executes all relevant continuous effects across layers against the snapshot.
func (ls *LayerSystem) Apply(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	snapshot.Reset()
	if ls == nil {
		return
	}
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	for _, layer := range layerOrder {
		for _, id := range ls.order {
			effect := ls.effects[id]
			if effect.Layer() != layer {
				continue
			}
			if effect.AppliesTo(snapshot) {
				effect.Apply(snapshot)
			}
		}
	}
}

// Effects returns the registered effects in registration order.
func (ls *LayerSystem) Effects() []ContinuousEffect {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	out := make([]ContinuousEffect, 0, len(ls.order))
	for _, id := range ls.order {
		out = append(out, ls.effects[id])
	}
	return out
}

// Len returns the number of registered effects.
func (ls *LayerSystem) Len() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.order)
}
