package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabreader/pkg/annotate"
	"github.com/japaniel/vocabreader/pkg/glossary"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 1000, cfg.WordsPerPage)
	assert.Equal(t, `.,;:"!?()[]`, cfg.BoundaryChars)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
text: buddenbrooks.txt
user: anna
words_per_page: 250
display_mode: full
duplicates: reject
store:
  driver: file
  flush_interval: 500ms
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "buddenbrooks.txt", cfg.Text)
	assert.Equal(t, "anna", cfg.User)
	assert.Equal(t, 250, cfg.WordsPerPage)
	assert.Equal(t, 500*time.Millisecond, cfg.Store.FlushInterval)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, annotate.ModeFull, mode)
	policy, err := cfg.DuplicatePolicy()
	require.NoError(t, err)
	assert.Equal(t, glossary.DuplicateReject, policy)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"page size": "words_per_page: 0\n",
		"mode":      "display_mode: loud\n",
		"driver":    "store:\n  driver: redis\n",
		"segmenter": "segmenter: thai\n",
		"yaml":      "user: [unclosed\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.User = "bert"
	cfg.Store.FlushInterval = 3 * time.Second
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, filepath.Join("/tmp/cfg", "vocabreader", "config.yaml"), DefaultPath())

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/tmp/state", "vocabreader", "vocab.db"), cfg.StorePath())
	cfg.Store.Driver = "FILE"
	assert.Equal(t, filepath.Join("/tmp/state", "vocabreader", "saved_words.json"), cfg.StorePath())
	cfg.Store.Path = "/data/x.json"
	assert.Equal(t, "/data/x.json", cfg.StorePath())
}

func TestNormalizerUsesBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoundaryChars = "*"
	assert.Equal(t, "wort", cfg.Normalizer().Key("*Wort*"))
}

func TestTokenizerDefault(t *testing.T) {
	tz, err := DefaultConfig().Tokenizer()
	require.NoError(t, err)
	assert.Nil(t, tz.Segmenter)
}
