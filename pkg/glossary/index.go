package glossary

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/japaniel/vocabreader/pkg/tokenize"
)

// DuplicatePolicy decides what happens when two entries share a key.
type DuplicatePolicy int

const (
	// DuplicateOverwrite keeps the later entry and records the collision.
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject fails the build with a *DuplicateError.
	DuplicateReject
)

// ParseDuplicatePolicy maps "overwrite" and "reject" to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return DuplicateOverwrite, nil
	case "reject":
		return DuplicateReject, nil
	}
	return 0, fmt.Errorf("unknown duplicate policy %q", s)
}

// Duplicate records a key defined more than once. First and Second are
// positions in load order.
type Duplicate struct {
	Key    string
	First  int
	Second int
}

// DuplicateError lists every collision found while building an index.
type DuplicateError struct {
	Duplicates []Duplicate
}

func (e *DuplicateError) Error() string {
	keys := make([]string, 0, len(e.Duplicates))
	for _, d := range e.Duplicates {
		keys = append(keys, d.Key)
	}
	return fmt.Sprintf("glossary has %d duplicate key(s): %s", len(e.Duplicates), strings.Join(keys, ", "))
}

// Option configures NewIndex.
type Option func(*Index)

// WithNormalizer sets the normalizer used for keys and lookups.
func WithNormalizer(n tokenize.Normalizer) Option {
	return func(ix *Index) { ix.norm = n }
}

// WithDuplicatePolicy sets the collision policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(ix *Index) { ix.policy = p }
}

// WithLogger reports overwritten duplicates as warnings.
func WithLogger(l *log.Logger) Option {
	return func(ix *Index) { ix.logger = l }
}

// Index maps normalized keys to entries. It is immutable once built and safe
// for concurrent readers.
type Index struct {
	entries map[string]Entry
	norm    tokenize.Normalizer
	policy  DuplicatePolicy
	logger  *log.Logger
	dups    []Duplicate
}

// NewIndex builds an index over entries in load order.
func NewIndex(entries []Entry, opts ...Option) (*Index, error) {
	ix := &Index{entries: make(map[string]Entry, len(entries))}
	for _, opt := range opts {
		opt(ix)
	}

	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		key := ix.KeyOf(e)
		if key == "" {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Word, ErrMissingWord)
		}
		if first, ok := seen[key]; ok {
			ix.dups = append(ix.dups, Duplicate{Key: key, First: first, Second: i})
			if ix.logger != nil && ix.policy == DuplicateOverwrite {
				ix.logger.Printf("Warning: glossary key %q defined at %d and %d; keeping the later entry", key, first, i)
			}
		}
		seen[key] = i
		ix.entries[key] = e
	}

	if len(ix.dups) > 0 && ix.policy == DuplicateReject {
		return nil, &DuplicateError{Duplicates: ix.dups}
	}
	return ix, nil
}

// KeyOf returns the key an entry is indexed under.
func (ix *Index) KeyOf(e Entry) string {
	return ix.norm.Key(norm.NFC.String(e.Word))
}

// Key normalizes a raw token with the index's normalizer.
func (ix *Index) Key(raw string) string {
	return ix.norm.Key(raw)
}

// Normalizer returns the normalizer used by the index.
func (ix *Index) Normalizer() tokenize.Normalizer {
	return ix.norm
}

// Lookup normalizes a raw token and returns its entry.
func (ix *Index) Lookup(raw string) (Entry, bool) {
	return ix.Get(ix.norm.Key(raw))
}

// Get returns the entry for an already normalized key.
func (ix *Index) Get(key string) (Entry, bool) {
	e, ok := ix.entries[key]
	return e, ok
}

// Contains reports whether key has an entry.
func (ix *Index) Contains(key string) bool {
	_, ok := ix.entries[key]
	return ok
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.entries) }

// Keys returns all keys in sorted order.
func (ix *Index) Keys() []string {
	keys := make([]string, 0, len(ix.entries))
	for k := range ix.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Duplicates returns the collisions seen while building the index.
func (ix *Index) Duplicates() []Duplicate {
	return append([]Duplicate(nil), ix.dups...)
}
