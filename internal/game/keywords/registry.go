// Package keywords defines the rules-defined keyword abilities and the
// registry used to look them up. A Registry is built once at startup and only
// read afterwards; every component that needs keyword lookup receives it
// explicitly.
package keywords

import (
	"sort"
	"strings"
)

// Keyword names a rules-defined keyword ability.
type Keyword string

const (
	Bodyguard  Keyword = "Bodyguard"
	Challenger Keyword = "Challenger"
	Evasive    Keyword = "Evasive"
	Reckless   Keyword = "Reckless"
	Resist     Keyword = "Resist"
	Rush       Keyword = "Rush"
	Shift      Keyword = "Shift"
	Singer     Keyword = "Singer"
	Support    Keyword = "Support"
	Vanish     Keyword = "Vanish"
	Ward       Keyword = "Ward"
)

// Stacking describes how multiple instances of a keyword on one character combine.
type Stacking int

const (
	// StackFlag keywords are either present or not.
	StackFlag Stacking = iota
	// StackSum keywords add their values (Resist +1 and Resist +2 give Resist +3).
	StackSum
	// StackMax keywords keep the highest value.
	StackMax
)

// Definition describes one keyword.
type Definition struct {
	Keyword     Keyword
	Stacking    Stacking
	Valued      bool
	Description string
}

// Registry is the lookup table of known keywords.
type Registry struct {
	defs   map[Keyword]Definition
	byName map[string]Keyword
}

// NewRegistry builds a registry containing the standard keywords.
func NewRegistry() *Registry {
	return NewRegistryWith(
		Definition{Bodyguard, StackFlag, false, "may enter play exerted; opposing challengers must choose a Bodyguard if able"},
		Definition{Challenger, StackSum, true, "+N strength while challenging"},
		Definition{Evasive, StackFlag, false, "only characters with Evasive can challenge this character"},
		Definition{Reckless, StackFlag, false, "can't quest and must challenge each turn if able"},
		Definition{Resist, StackSum, true, "damage dealt to this character is reduced by N"},
		Definition{Rush, StackFlag, false, "can challenge the turn it is played"},
		Definition{Shift, StackMax, true, "may be played on a same-named character for N ink"},
		Definition{Singer, StackMax, true, "counts as cost N for singing songs"},
		Definition{Support, StackFlag, false, "when questing, may add its strength to another chosen character this turn"},
		Definition{Vanish, StackFlag, false, "when an opponent chooses this character for an action, banish it"},
		Definition{Ward, StackFlag, false, "opponents can't choose this character except to challenge"},
	)
}

// NewRegistryWith builds a registry from explicit definitions.
func NewRegistryWith(defs ...Definition) *Registry {
	r := &Registry{
		defs:   make(map[Keyword]Definition, len(defs)),
		byName: make(map[string]Keyword, len(defs)),
	}
	for _, def := range defs {
		r.defs[def.Keyword] = def
		r.byName[strings.ToLower(string(def.Keyword))] = def.Keyword
	}
	return r
}

// Lookup returns the definition of a keyword.
func (r *Registry) Lookup(k Keyword) (Definition, bool) {
	def, ok := r.defs[k]
	return def, ok
}

// Parse resolves a keyword name case-insensitively.
func (r *Registry) Parse(name string) (Keyword, bool) {
	k, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Keywords returns all registered keywords sorted by name.
func (r *Registry) Keywords() []Keyword {
	out := make([]Keyword, 0, len(r.defs))
	for k := range r.defs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Combine merges two values of the same keyword according to its stacking rule.
func (r *Registry) Combine(k Keyword, a, b int) int {
	def, ok := r.defs[k]
	if !ok {
		return a
	}
	switch def.Stacking {
	case StackSum:
		return a + b
	case StackMax:
		if b > a {
			return b
		}
		return a
	case StackFlag:
		return 1
	default:
		return a
	}
}

// NewSet creates an empty capability set bound to this registry.
func (r *Registry) NewSet() Set {
	return Set{registry: r, values: make(map[Keyword]int)}
}

// Set is a derived view of the keywords a character currently has, with
// stacked values. It is computed per query and never stored on the card.
type Set struct {
	registry *Registry
	values   map[Keyword]int
}

// Add merges one keyword instance into the set. Unknown keywords are ignored.
func (s Set) Add(k Keyword, value int) {
	if s.values == nil || s.registry == nil {
		return
	}
	def, ok := s.registry.defs[k]
	if !ok {
		return
	}
	if !def.Valued {
		value = 1
	}
	current, present := s.values[k]
	if !present {
		s.values[k] = value
		return
	}
	s.values[k] = s.registry.Combine(k, current, value)
}

// Has reports whether the keyword is present.
func (s Set) Has(k Keyword) bool {
	_, ok := s.values[k]
	return ok
}

// Value returns the stacked value of a keyword (0 when absent).
func (s Set) Value(k Keyword) int {
	return s.values[k]
}

// Keywords lists the present keywords sorted by name.
func (s Set) Keywords() []Keyword {
	out := make([]Keyword, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of distinct keywords present.
func (s Set) Len() int {
	return len(s.values)
}
