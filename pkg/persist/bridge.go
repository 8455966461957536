package persist

import (
	"context"
	"log"
)

// Bridge sits between a session and its Store. Load never fails; a broken or
// missing store yields an empty set and a logged warning.
type Bridge struct {
	Store  Store
	Logger *log.Logger
}

// NewBridge returns a bridge over store.
func NewBridge(store Store, logger *log.Logger) *Bridge {
	return &Bridge{Store: store, Logger: logger}
}

func (b *Bridge) logf(format string, args ...interface{}) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}

// Load returns the persisted keys for user, or an empty slice.
func (b *Bridge) Load(ctx context.Context, user string) []string {
	if b.Store == nil {
		return []string{}
	}
	keys, err := b.Store.Load(ctx, user)
	if err != nil {
		b.logf("Warning: could not load saved words for %q, starting empty: %v", user, err)
		return []string{}
	}
	if keys == nil {
		return []string{}
	}
	return keys
}

// Save writes keys sorted. A failure comes back as *SaveWarning.
func (b *Bridge) Save(ctx context.Context, user string, keys []string) error {
	if b.Store == nil {
		return nil
	}
	if err := b.Store.Save(ctx, user, sortedCopy(keys)); err != nil {
		w := &SaveWarning{User: user, Err: err}
		b.logf("%v", w)
		return w
	}
	return nil
}

// LoadProgress returns the remembered page for user in document, or 0 when
// the store keeps no progress or has none recorded.
func (b *Bridge) LoadProgress(ctx context.Context, user, document string) int {
	ps, ok := b.Store.(ProgressStore)
	if !ok || document == "" {
		return 0
	}
	page, found, err := ps.LoadProgress(ctx, user, document)
	if err != nil {
		b.logf("Warning: could not load progress for %q: %v", user, err)
		return 0
	}
	if !found {
		return 0
	}
	return page
}

// SaveProgress records page when the store supports it.
func (b *Bridge) SaveProgress(ctx context.Context, user, document string, page int) error {
	ps, ok := b.Store.(ProgressStore)
	if !ok || document == "" {
		return nil
	}
	if err := ps.SaveProgress(ctx, user, document, page); err != nil {
		w := &SaveWarning{User: user, Err: err}
		b.logf("%v", w)
		return w
	}
	return nil
}
