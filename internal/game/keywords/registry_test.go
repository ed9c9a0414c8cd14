package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryParse(t *testing.T) {
	reg := NewRegistry()

	k, ok := reg.Parse("  evasive ")
	require.True(t, ok)
	assert.Equal(t, Evasive, k)

	_, ok = reg.Parse("Flying")
	assert.False(t, ok)

	assert.Len(t, reg.Keywords(), 11)
}

func TestSetStacking(t *testing.T) {
	reg := NewRegistry()

	t.Run("sum", func(t *testing.T) {
		set := reg.NewSet()
		set.Add(Resist, 1)
		set.Add(Resist, 2)
		assert.Equal(t, 3, set.Value(Resist))
	})

	t.Run("max", func(t *testing.T) {
		set := reg.NewSet()
		set.Add(Singer, 5)
		set.Add(Singer, 3)
		assert.Equal(t, 5, set.Value(Singer))
	})

	t.Run("flag", func(t *testing.T) {
		set := reg.NewSet()
		set.Add(Evasive, 7)
		set.Add(Evasive, 0)
		assert.True(t, set.Has(Evasive))
		assert.Equal(t, 1, set.Value(Evasive))
	})

	t.Run("unknown keyword ignored", func(t *testing.T) {
		set := reg.NewSet()
		set.Add(Keyword("Flying"), 1)
		assert.Equal(t, 0, set.Len())
	})
}

func TestRestrictedRegistry(t *testing.T) {
	reg := NewRegistryWith(Definition{Keyword: Rush, Stacking: StackFlag})

	set := reg.NewSet()
	set.Add(Rush, 0)
	set.Add(Ward, 0)

	assert.Equal(t, []Keyword{Rush}, set.Keywords())
	_, ok := reg.Lookup(Ward)
	assert.False(t, ok)
}
