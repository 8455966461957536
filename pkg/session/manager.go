package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Manager keeps one isolated session per user over a shared document and
// glossary.
type Manager struct {
	mu       sync.Mutex
	base     Config
	sessions map[string]*Session
}

// NewManager tokenizes the base document once; every session shares the
// result and the glossary index.
func NewManager(base Config) *Manager {
	if base.Tokens == nil {
		base.Tokens = base.Tokenizer.Tokenize(base.Document.Text)
	}
	return &Manager{base: base, sessions: make(map[string]*Session)}
}

// Open returns the user's session, creating it on first use.
func (m *Manager) Open(ctx context.Context, user string) (*Session, error) {
	if user == "" {
		return nil, fmt.Errorf("session: user must be non-empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[user]; ok {
		return s, nil
	}
	cfg := m.base
	cfg.User = user
	s, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	m.sessions[user] = s
	return s, nil
}

// Get returns an open session.
func (m *Manager) Get(user string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[user]
	return s, ok
}

// Users lists users with open sessions.
func (m *Manager) Users() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sessions))
	for u := range m.sessions {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Close closes and forgets the user's session. Closing an unknown user is a
// no-op.
func (m *Manager) Close(ctx context.Context, user string) error {
	m.mu.Lock()
	s, ok := m.sessions[user]
	delete(m.sessions, user)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Close(ctx)
}

// CloseAll closes every session and returns the first error.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
