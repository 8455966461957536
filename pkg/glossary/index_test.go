package glossary

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabreader/pkg/tokenize"
)

func buddenbrooksEntries() []Entry {
	return []Entry{
		{Word: "Buddenbrooks", DefinitionGerman: "Familienname", DefinitionEnglish: "family name"},
		{Word: "family", DefinitionGerman: "Familie", DefinitionEnglish: "family"},
	}
}

func TestIndexLookup(t *testing.T) {
	ix, err := NewIndex(buddenbrooksEntries())
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())

	e, ok := ix.Lookup("Buddenbrooks")
	require.True(t, ok)
	assert.Equal(t, "family name", e.DefinitionEnglish)

	e, ok = ix.Lookup(`"(Family)."`)
	require.True(t, ok)
	assert.Equal(t, "family", e.Word)

	_, ok = ix.Lookup("lived")
	assert.False(t, ok)
	_, ok = ix.Lookup(".")
	assert.False(t, ok)

	assert.True(t, ix.Contains("buddenbrooks"))
	assert.False(t, ix.Contains("Buddenbrooks"))
	assert.Equal(t, []string{"buddenbrooks", "family"}, ix.Keys())
}

func TestIndexEveryEntryFindsItself(t *testing.T) {
	entries := []Entry{
		{Word: "Haus"},
		{Word: "Über"},
		{Word: "Mamsell's"},
		{Word: "(Kontor)"},
		{Word: "Straße"},
		{Word: "Uëbung"},
	}
	ix, err := NewIndex(entries)
	require.NoError(t, err)
	for _, e := range entries {
		got, ok := ix.Lookup(ix.KeyOf(e))
		require.True(t, ok, e.Word)
		assert.Equal(t, e, got)
	}
}

func TestIndexLastWriteWins(t *testing.T) {
	var buf bytes.Buffer
	entries := []Entry{
		{Word: "Konsul", DefinitionEnglish: "first"},
		{Word: "Haus", DefinitionEnglish: "house"},
		{Word: "konsul", DefinitionEnglish: "second"},
	}
	ix, err := NewIndex(entries, WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)

	e, ok := ix.Get("konsul")
	require.True(t, ok)
	assert.Equal(t, "second", e.DefinitionEnglish)
	assert.Equal(t, []Duplicate{{Key: "konsul", First: 0, Second: 2}}, ix.Duplicates())
	assert.Contains(t, buf.String(), `"konsul"`)
}

func TestIndexRejectDuplicates(t *testing.T) {
	entries := []Entry{{Word: "Konsul"}, {Word: "KONSUL"}}
	_, err := NewIndex(entries, WithDuplicatePolicy(DuplicateReject))
	require.Error(t, err)

	var dupErr *DuplicateError
	require.True(t, errors.As(err, &dupErr))
	assert.Len(t, dupErr.Duplicates, 1)
	assert.Contains(t, err.Error(), "konsul")
}

func TestIndexRejectsEmptyWord(t *testing.T) {
	_, err := NewIndex([]Entry{{Word: "ok"}, {Word: "  "}})
	assert.True(t, errors.Is(err, ErrMissingWord))

	_, err = NewIndex([]Entry{{Word: "?!"}})
	assert.True(t, errors.Is(err, ErrMissingWord))
}

func TestIndexCustomNormalizer(t *testing.T) {
	ix, err := NewIndex([]Entry{{Word: "Haus"}}, WithNormalizer(tokenize.NewNormalizer("*")))
	require.NoError(t, err)
	_, ok := ix.Lookup("*HAUS*")
	assert.True(t, ok)
	_, ok = ix.Lookup("Haus.")
	assert.False(t, ok)
	assert.Equal(t, "*", ix.Normalizer().Boundary())
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DuplicateOverwrite, p)

	p, err = ParseDuplicatePolicy("Reject")
	require.NoError(t, err)
	assert.Equal(t, DuplicateReject, p)

	_, err = ParseDuplicatePolicy("merge")
	assert.Error(t, err)
}
