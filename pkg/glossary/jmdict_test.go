package glossary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jmdictSample = `{
  "words": [
    {
      "id": "1",
      "kanji": [{"text": "犬", "common": true}],
      "kana": [{"text": "いぬ", "common": true}],
      "sense": [
        {"gloss": [{"text": "dog"}, {"text": "Hund", "lang": "ger"}], "partOfSpeech": ["n"]},
        {"gloss": [{"text": "spy", "lang": "eng"}], "partOfSpeech": ["n"]}
      ]
    },
    {
      "id": "2",
      "kanji": [{"text": "走る", "common": true}, {"text": "奔る", "common": false}],
      "kana": [{"text": "はしる", "common": true}],
      "sense": [{"gloss": [{"text": "to run"}], "partOfSpeech": ["v5r"]}]
    },
    {
      "id": "3",
      "kanji": [],
      "kana": [{"text": "テスト", "common": true}],
      "sense": [{"gloss": [{"text": "test"}], "partOfSpeech": ["n", "vs"]}]
    },
    {
      "id": "4",
      "kanji": [{"text": "犬", "common": true}],
      "kana": [{"text": "けん", "common": false}],
      "sense": [{"gloss": [{"text": "counter for dogs"}]}]
    },
    {
      "id": "5",
      "kanji": [{"text": "空", "common": true}],
      "kana": [{"text": "そら", "common": true}],
      "sense": [{"gloss": [{"text": "ciel", "lang": "fre"}]}]
    }
  ]
}`

func TestLoadJMdict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jmdict.json")
	require.NoError(t, os.WriteFile(path, []byte(jmdictSample), 0o644))

	entries, err := LoadJMdict(path)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "犬", entries[0].Kanji[0].Text)

	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`[{"id":"9","kana":[{"text":"ね"}],"sense":[]}]`), 0o644))
	entries, err = LoadJMdict(bare)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`nope`), 0o644))
	_, err = LoadJMdict(garbage)
	assert.Error(t, err)
}

func TestFromJMdict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jmdict.json")
	require.NoError(t, os.WriteFile(path, []byte(jmdictSample), 0o644))
	dict, err := LoadJMdict(path)
	require.NoError(t, err)

	got := FromJMdict(dict, false)
	words := make([]string, len(got))
	for i, e := range got {
		words[i] = e.Word
	}
	assert.Equal(t, []string{"犬", "走る", "奔る", "テスト"}, words)

	assert.Equal(t, "dog; spy", got[0].DefinitionEnglish)
	assert.Equal(t, "Hund", got[0].DefinitionGerman)
	assert.Equal(t, "いぬ", got[0].ContextSnippet)
	assert.Equal(t, "to run", got[1].DefinitionEnglish)
	assert.Empty(t, got[3].ContextSnippet)

	common := FromJMdict(dict, true)
	require.Len(t, common, 3)
	assert.Equal(t, "テスト", common[2].Word)

	for _, e := range got {
		assert.NoError(t, e.Validate())
	}
}

func TestToHiragana(t *testing.T) {
	assert.Equal(t, "てすと", ToHiragana("テスト"))
	assert.Equal(t, "いぬ", ToHiragana("イヌ"))
	assert.Equal(t, "abc", ToHiragana("abc"))
}

func TestLatestJMdictURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vocabreader-cli", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"assets": [
			{"name": "jmdict-all-3.6.1.json.tgz", "browser_download_url": "https://example.com/all.tgz"},
			{"name": "jmdict-eng-common-3.6.1.json.tgz", "browser_download_url": "https://example.com/eng-common.tgz"}
		]}`))
	}))
	defer srv.Close()

	old := JMdictReleaseAPI
	JMdictReleaseAPI = srv.URL
	t.Cleanup(func() { JMdictReleaseAPI = old })

	url, err := LatestJMdictURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/eng-common.tgz", url)
}

func TestLatestJMdictURLNoAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"assets": []}`))
	}))
	defer srv.Close()

	old := JMdictReleaseAPI
	JMdictReleaseAPI = srv.URL
	t.Cleanup(func() { JMdictReleaseAPI = old })

	_, err := LatestJMdictURL(context.Background())
	assert.Error(t, err)
}
