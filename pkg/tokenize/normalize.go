package tokenize

import "strings"

// DefaultBoundary is the set of characters stripped from both ends of a
// token before glossary lookup.
const DefaultBoundary = `.,;:"!?()[]`

// Normalizer turns raw tokens into normalized keys: lowercased, with boundary
// characters trimmed from both ends.
type Normalizer struct {
	boundary string
}

// NewNormalizer returns a Normalizer for the given boundary set. An empty set
// selects DefaultBoundary.
func NewNormalizer(boundary string) Normalizer {
	if boundary == "" {
		boundary = DefaultBoundary
	}
	return Normalizer{boundary: boundary}
}

// Boundary returns the configured boundary characters.
func (n Normalizer) Boundary() string {
	if n.boundary == "" {
		return DefaultBoundary
	}
	return n.boundary
}

// Key normalizes raw. Key is idempotent.
func (n Normalizer) Key(raw string) string {
	return strings.Trim(strings.ToLower(raw), n.Boundary())
}

// Key normalizes raw with the default boundary set.
func Key(raw string) string {
	return Normalizer{}.Key(raw)
}
