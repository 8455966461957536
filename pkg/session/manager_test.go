package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabreader/pkg/persist"
	"github.com/japaniel/vocabreader/pkg/saved"
)

func TestManagerIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := fileStore(t)
	cfg := testConfig(t, store)
	cfg.User = ""
	m := NewManager(cfg)

	anna, err := m.Open(ctx, "anna")
	require.NoError(t, err)
	bert, err := m.Open(ctx, "bert")
	require.NoError(t, err)

	anna.Click(saved.ClickEvent{Key: "family"})
	assert.False(t, bert.Saved("family"))
	bert.Next()
	assert.Equal(t, 0, anna.View().Page)

	again, err := m.Open(ctx, "anna")
	require.NoError(t, err)
	assert.Same(t, anna, again)
	assert.Equal(t, []string{"anna", "bert"}, m.Users())

	require.NoError(t, m.Close(ctx, "anna"))
	_, ok := m.Get("anna")
	assert.False(t, ok)
	require.NoError(t, m.Close(ctx, "nobody"))

	require.NoError(t, m.CloseAll(ctx))
	assert.Empty(t, m.Users())

	keys, err := store.Load(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, []string{"family"}, keys)
}

func TestManagerSharesTokens(t *testing.T) {
	cfg := testConfig(t, fileStore(t))
	m := NewManager(cfg)
	a, err := m.Open(context.Background(), "a")
	require.NoError(t, err)
	b, err := m.Open(context.Background(), "b")
	require.NoError(t, err)
	require.NotEmpty(t, a.tokens)
	assert.Same(t, &a.tokens[0], &b.tokens[0])
}

func TestManagerFlushesSharedWriter(t *testing.T) {
	ctx := context.Background()
	store := fileStore(t)
	cfg := testConfig(t, store)
	cfg.Writer = persist.NewWriteBehind(cfg.Bridge.Save, 0)
	m := NewManager(cfg)

	for _, u := range []string{"anna", "bert"} {
		s, err := m.Open(ctx, u)
		require.NoError(t, err)
		s.Click(saved.ClickEvent{Key: "family"})
	}
	require.NoError(t, m.CloseAll(ctx))
	require.NoError(t, cfg.Writer.Close())

	for _, u := range []string{"anna", "bert"} {
		keys, err := store.Load(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, []string{"family"}, keys, u)
	}
}

func TestManagerRejectsEmptyUser(t *testing.T) {
	m := NewManager(testConfig(t, fileStore(t)))
	_, err := m.Open(context.Background(), "")
	assert.Error(t, err)
}
