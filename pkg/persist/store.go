// Package persist stores each reader's saved-word set between sessions.
package persist

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Store reads and writes the saved keys of one user.
type Store interface {
	Load(ctx context.Context, user string) ([]string, error)
	Save(ctx context.Context, user string, keys []string) error
}

// ProgressStore remembers the page a user last viewed in a document.
type ProgressStore interface {
	LoadProgress(ctx context.Context, user, document string) (page int, ok bool, err error)
	SaveProgress(ctx context.Context, user, document string, page int) error
}

// SaveWarning reports a failed save. The in-memory set is still authoritative,
// so callers log it and carry on.
type SaveWarning struct {
	User string
	Err  error
}

func (w *SaveWarning) Error() string {
	return fmt.Sprintf("warning: saved words for %q not persisted: %v", w.User, w.Err)
}

func (w *SaveWarning) Unwrap() error { return w.Err }

// sortedCopy returns keys sorted with empties and repeats removed.
func sortedCopy(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// userLocks hands out one mutex per user.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *userLocks) get(user string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[user]
	if !ok {
		m = &sync.Mutex{}
		l.locks[user] = m
	}
	return m
}
