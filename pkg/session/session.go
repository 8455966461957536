// Package session holds the per-reader state of one reading: the token
// stream, the current page and the saved-word set.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/japaniel/vocabreader/pkg/annotate"
	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/page"
	"github.com/japaniel/vocabreader/pkg/persist"
	"github.com/japaniel/vocabreader/pkg/saved"
	"github.com/japaniel/vocabreader/pkg/source"
	"github.com/japaniel/vocabreader/pkg/tokenize"
)

// Config describes what a session reads and where it persists.
type Config struct {
	User      string
	Document  source.Document
	// Tokens, when set, is used instead of tokenizing Document.Text. It is
	// shared and must not be modified.
	Tokens    []tokenize.Token
	Tokenizer tokenize.Tokenizer
	Index     *glossary.Index
	PageSize  int
	Mode      annotate.Mode
	Bridge    *persist.Bridge
	// Writer batches saves in the background. Without one every change is
	// saved before the call returns.
	Writer    *persist.WriteBehind
	Logger    *log.Logger
}

// Session is safe for concurrent use; calls are serialized.
type Session struct {
	mu     sync.Mutex
	user   string
	doc    source.Document
	tokens []tokenize.Token
	pager  page.Paginator
	index  int
	set    *saved.Set
	ix     *glossary.Index
	annot  *annotate.Annotator
	bridge *persist.Bridge
	writer *persist.WriteBehind
	logger *log.Logger
	closed bool
}

// New opens a session, restoring the user's saved words and last page.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("session: user must be non-empty")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("session: glossary index required")
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = cfg.Tokenizer.Tokenize(cfg.Document.Text)
	}
	bridge := cfg.Bridge
	if bridge == nil {
		bridge = &persist.Bridge{Logger: cfg.Logger}
	}

	s := &Session{
		user:   cfg.User,
		doc:    cfg.Document,
		tokens: tokens,
		pager:  page.New(len(tokens), cfg.PageSize),
		ix:     cfg.Index,
		annot:  annotate.New(cfg.Index, cfg.Mode),
		bridge: bridge,
		writer: cfg.Writer,
		logger: cfg.Logger,
	}
	s.set = saved.New(cfg.Index, bridge.Load(ctx, cfg.User)...)
	s.index = s.pager.Clamp(bridge.LoadProgress(ctx, cfg.User, cfg.Document.Path))
	return s, nil
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// User returns the reader this session belongs to.
func (s *Session) User() string { return s.user }

// Document returns the text being read.
func (s *Session) Document() source.Document { return s.doc }

// View renders the current page.
func (s *Session) View() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() PageView {
	w := s.pager.Window(s.tokens, s.index)
	return PageView{
		User:         s.user,
		Title:        s.doc.Title,
		Page:         w.Index,
		Pages:        w.Pages,
		Start:        w.Start,
		End:          w.End,
		Total:        w.Total,
		HasPrevious:  w.HasPrevious,
		HasNext:      w.HasNext,
		Mode:         s.annot.Mode.String(),
		Instructions: s.annot.Annotate(w.Tokens, s.set),
		Saved:        s.entriesLocked(),
	}
}

// Click applies a click on a word. Rejected clicks leave the set unchanged
// and carry the reason in Outcome.Err.
func (s *Session) Click(ev saved.ClickEvent) saved.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.set.Reconcile(ev)
	if out.Rejected() {
		s.logf("Warning: ignoring click on %q: %v", ev.Key, out.Err)
		return out
	}
	s.persistLocked()
	return out
}

// Add saves a recognized key. Adding a saved key changes nothing.
func (s *Session) Add(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set.Recognized(key) {
		return fmt.Errorf("add %q: %w", key, saved.ErrUnrecognized)
	}
	if s.set.Contains(key) {
		return nil
	}
	s.set.Add(key)
	s.persistLocked()
	return nil
}

// Remove unsaves key. Removing an absent key changes nothing.
func (s *Session) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set.Contains(key) {
		return
	}
	s.set.Remove(key)
	s.persistLocked()
}

// Clear empties the saved-word set.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set.Clear()
	s.persistLocked()
}

// Saved reports whether key is saved.
func (s *Session) Saved(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Contains(key)
}

// SavedKeys returns every saved key, orphans included, sorted.
func (s *Session) SavedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Sorted()
}

// SavedEntries returns the saved words that have a glossary entry, sorted by
// key.
func (s *Session) SavedEntries() []SavedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked()
}

func (s *Session) entriesLocked() []SavedEntry {
	keys := s.set.Visible()
	out := make([]SavedEntry, 0, len(keys))
	for _, k := range keys {
		e, _ := s.ix.Get(k)
		out = append(out, SavedEntry{Key: k, Entry: e})
	}
	return out
}

// Next moves to the following page; on the last page it stays.
func (s *Session) Next() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.pager.Next(s.index)
	return s.viewLocked()
}

// Prev moves to the preceding page; on the first page it stays.
func (s *Session) Prev() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.pager.Prev(s.index)
	return s.viewLocked()
}

// Goto jumps to page i, clamped to the document.
func (s *Session) Goto(i int) PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.pager.Clamp(i)
	return s.viewLocked()
}

// Mode returns the current display mode.
func (s *Session) Mode() annotate.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annot.Mode
}

// SetMode switches between English-only and full definitions.
func (s *Session) SetMode(m annotate.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annot = annotate.New(s.ix, m)
}

// persistLocked hands the current set to the writer, or saves it directly.
func (s *Session) persistLocked() {
	keys := s.set.Sorted()
	if s.writer != nil {
		if err := s.writer.Submit(s.user, keys); err == nil {
			return
		}
	}
	// Bridge.Save logs its own warning.
	_ = s.bridge.Save(context.Background(), s.user, keys)
}

// Close records the current page and flushes pending saves.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	index := s.index
	s.mu.Unlock()

	var firstErr error
	if err := s.bridge.SaveProgress(ctx, s.user, s.doc.Path, index); err != nil {
		firstErr = err
	}
	if s.writer != nil {
		if err := s.writer.Flush(); err != nil && err != persist.ErrWriterClosed && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
