// Package saved holds a reader's saved-word set: a toggled membership set of
// normalized glossary keys.
package saved

import (
	"errors"
	"sort"
)

// ErrUnrecognized is returned when a toggle names a key without a glossary
// entry. The set is left unchanged.
var ErrUnrecognized = errors.New("key not recognized")

// Recognizer reports whether a key has a glossary entry.
// *glossary.Index satisfies it.
type Recognizer interface {
	Contains(key string) bool
}

// Set is the mutable saved-word set owned by one reading session. It is not
// safe for concurrent use; the session serializes access.
type Set struct {
	known Recognizer
	keys  map[string]struct{}
}

// New creates a set seeded with keys. Seed keys are kept even when the
// recognizer does not know them; such orphans are inert.
func New(known Recognizer, keys ...string) *Set {
	s := &Set{known: known, keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k == "" {
			continue
		}
		s.keys[k] = struct{}{}
	}
	return s
}

// Recognized reports whether key may be toggled.
func (s *Set) Recognized(key string) bool {
	return s.known != nil && s.known.Contains(key)
}

// Contains reports membership.
func (s *Set) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Toggle flips membership of a recognized key and returns the new state.
func (s *Set) Toggle(key string) (bool, error) {
	if !s.Recognized(key) {
		return s.Contains(key), ErrUnrecognized
	}
	if s.Contains(key) {
		delete(s.keys, key)
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

// Add marks key saved. Adding a saved key is a no-op.
func (s *Set) Add(key string) {
	if key == "" {
		return
	}
	s.keys[key] = struct{}{}
}

// Remove unmarks key. Removing an absent key is a no-op.
func (s *Set) Remove(key string) {
	delete(s.keys, key)
}

// Clear empties the set.
func (s *Set) Clear() {
	s.keys = make(map[string]struct{})
}

// Len returns the number of keys, orphans included.
func (s *Set) Len() int { return len(s.keys) }

// Sorted returns all keys in sorted order.
func (s *Set) Sorted() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Visible returns the sorted keys that have a glossary entry.
func (s *Set) Visible() []string {
	out := make([]string, 0, len(s.keys))
	for _, k := range s.Sorted() {
		if s.Recognized(k) {
			out = append(out, k)
		}
	}
	return out
}
