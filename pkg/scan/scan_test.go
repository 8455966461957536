package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/saved"
	"github.com/japaniel/vocabreader/pkg/source"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func book(t *testing.T) string {
	root := t.TempDir()
	write(t, filepath.Join(root, "chapters", "chapter_1.txt"), "Der Hund und der Hund.")
	write(t, filepath.Join(root, "chapters", "chapter_2.txt"), "Die Katze schläft.")
	write(t, filepath.Join(root, "chapters", "chapter_3.txt"), "Nichts hier.")
	write(t, filepath.Join(root, "vocab_data", "vocab_ch1.json"),
		`[{"word":"Hund","definition_german":"Tier","definition_english":"dog"}]`)
	write(t, filepath.Join(root, "vocab_data", "vocab_ch2.json"),
		`[{"word":"Katze","definition_german":"Tier","definition_english":"cat"},{"word":"schläft","definition_german":"ruht","definition_english":"sleeps"}]`)
	return root
}

func TestScanWithSharedIndex(t *testing.T) {
	chapters, err := source.Chapters(book(t))
	require.NoError(t, err)
	ix, err := glossary.NewIndex([]glossary.Entry{
		{Word: "hund", DefinitionEnglish: "dog"},
		{Word: "katze", DefinitionEnglish: "cat"},
	})
	require.NoError(t, err)

	sc := &Scanner{Index: ix, Saved: saved.New(ix, "katze"), Workers: 2}
	results, err := sc.Scan(context.Background(), chapters)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []int{1, 2, 3}, []int{results[0].Chapter, results[1].Chapter, results[2].Chapter})
	assert.Equal(t, 5, results[0].Words)
	assert.Equal(t, 2, results[0].Hits)
	assert.Equal(t, []string{"hund"}, results[0].Distinct)
	assert.Equal(t, 0, results[0].Saved)
	assert.InDelta(t, 0.4, results[0].Coverage(), 1e-9)

	assert.Equal(t, 1, results[1].Saved)
	assert.Empty(t, results[2].Distinct)
	assert.Zero(t, results[2].Coverage())
}

func TestScanWithChapterGlossaries(t *testing.T) {
	chapters, err := source.Chapters(book(t))
	require.NoError(t, err)
	results, err := (&Scanner{}).Scan(context.Background(), chapters)
	require.NoError(t, err)
	assert.Equal(t, []string{"katze", "schläft"}, results[1].Distinct)
	assert.Equal(t, 0, results[2].Hits)
}

func TestScanReportsBrokenChapter(t *testing.T) {
	root := book(t)
	write(t, filepath.Join(root, "vocab_data", "vocab_ch3.json"), `[{"definition_english":"no word"}]`)
	chapters, err := source.Chapters(root)
	require.NoError(t, err)

	results, err := (&Scanner{Workers: 3}).Scan(context.Background(), chapters)
	require.NoError(t, err)
	assert.Error(t, results[2].Err)
	assert.NotEmpty(t, results[2].Error)
	assert.NoError(t, results[0].Err)
}

func TestScanCancelled(t *testing.T) {
	chapters, err := source.Chapters(book(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Scanner{}).Scan(ctx, chapters)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanText(t *testing.T) {
	ix, err := glossary.NewIndex([]glossary.Entry{{Word: "family"}})
	require.NoError(t, err)
	res := (&Scanner{}).Text(ix, "The Buddenbrooks family, family!")
	assert.Equal(t, 4, res.Words)
	assert.Equal(t, 2, res.Hits)
}
