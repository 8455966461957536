package export

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabreader/pkg/glossary"
)

var entries = []glossary.Entry{
	{Word: "Buddenbrooks", DefinitionGerman: "Familienname, Lübeck", DefinitionEnglish: `the "family"`},
	{Word: "Zimmer", DefinitionGerman: "Raum", DefinitionEnglish: "room"},
}

func TestCSV(t *testing.T) {
	out, err := CSV(entries)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "\ufeff"))

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "\ufeffWort (DE),Definition (DE),Definition (EN)", lines[0])
	assert.Equal(t, `Buddenbrooks,"Familienname, Lübeck","the ""family"""`, lines[1])
	assert.Equal(t, "Zimmer,Raum,room", lines[2])
}

func TestCSVReadsBack(t *testing.T) {
	out, err := CSV(entries)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `the "family"`, records[1][2])
}

func TestCSVEmpty(t *testing.T) {
	out, err := CSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffWort (DE),Definition (DE),Definition (EN)\n", out)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "saved.csv")
	require.NoError(t, WriteFile(path, entries[1:]))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Zimmer,Raum,room")
}

func TestToClipboard(t *testing.T) {
	orig := clipboardWrite
	t.Cleanup(func() { clipboardWrite = orig })
	var got string
	clipboardWrite = func(s string) error { got = s; return nil }

	require.NoError(t, ToClipboard(entries[1:]))
	assert.Equal(t, "Wort (DE),Definition (DE),Definition (EN)\nZimmer,Raum,room\n", got)

	clipboardWrite = func(string) error { return errors.New("no display") }
	assert.ErrorContains(t, ToClipboard(entries), "no display")
}
