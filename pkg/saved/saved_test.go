package saved

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keys map[string]bool

func (k keys) Contains(key string) bool { return k[key] }

var glossaryKeys = keys{"buddenbrooks": true, "family": true, "konsul": true}

func TestToggleScenario(t *testing.T) {
	s := New(glossaryKeys)

	saved, err := s.Toggle("buddenbrooks")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []string{"buddenbrooks"}, s.Sorted())

	saved, err = s.Toggle("buddenbrooks")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, s.Sorted())
}

func TestToggleUnrecognized(t *testing.T) {
	s := New(glossaryKeys, "family")
	before := s.Sorted()

	_, err := s.Toggle("xyzzy")
	assert.True(t, errors.Is(err, ErrUnrecognized))
	assert.Equal(t, before, s.Sorted())

	_, err = New(nil).Toggle("family")
	assert.ErrorIs(t, err, ErrUnrecognized)
}

func TestToggleIsSelfInverse(t *testing.T) {
	starts := [][]string{nil, {"family"}, {"family", "konsul"}, {"orphan"}}
	for _, start := range starts {
		for key := range glossaryKeys {
			s := New(glossaryKeys, start...)
			before := s.Sorted()
			_, err := s.Toggle(key)
			require.NoError(t, err)
			_, err = s.Toggle(key)
			require.NoError(t, err)
			assert.Equal(t, before, s.Sorted(), "start=%v key=%s", start, key)
		}
	}
}

func TestAddRemoveIdempotent(t *testing.T) {
	s := New(glossaryKeys)
	s.Add("konsul")
	once := s.Sorted()
	s.Add("konsul")
	assert.Equal(t, once, s.Sorted())

	s.Remove("konsul")
	once = s.Sorted()
	s.Remove("konsul")
	assert.Equal(t, once, s.Sorted())
	assert.Equal(t, 0, s.Len())

	s.Add("")
	assert.Equal(t, 0, s.Len())
}

func TestClear(t *testing.T) {
	s := New(glossaryKeys, "family", "konsul", "orphan")
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("family"))
}

func TestOrphansAreKeptButHidden(t *testing.T) {
	s := New(glossaryKeys, "zebra", "family", "alpha")
	assert.Equal(t, []string{"alpha", "family", "zebra"}, s.Sorted())
	assert.Equal(t, []string{"family"}, s.Visible())
	assert.True(t, s.Contains("zebra"))
}
