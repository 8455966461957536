package saved

import "strings"

// ClickEvent is what a display surface sends when a word is clicked. Saved
// is the surface's own guess at the resulting state and may be nil.
type ClickEvent struct {
	Key   string `json:"key"`
	Saved *bool  `json:"saved,omitempty"`
}

// Outcome is the authoritative result of a click.
type Outcome struct {
	Key   string `json:"key"`
	Saved bool   `json:"saved"`
	// Corrected is set when the surface's advisory flag disagrees with Saved
	// and its optimistic state must be overwritten.
	Corrected bool  `json:"corrected"`
	Err       error `json:"-"`
}

// Rejected reports whether the click was refused.
func (o Outcome) Rejected() bool { return o.Err != nil }

// Reconcile applies a click. The transition is a toggle computed from the
// set's own membership. An event whose advisory flag already matches that
// membership has been applied before (a replay or a double click) and leaves
// the set unchanged.
func (s *Set) Reconcile(ev ClickEvent) Outcome {
	if ev.Saved != nil && s.Recognized(ev.Key) && *ev.Saved == s.Contains(ev.Key) {
		return Outcome{Key: ev.Key, Saved: *ev.Saved}
	}
	saved, err := s.Toggle(ev.Key)
	out := Outcome{Key: ev.Key, Saved: saved, Err: err}
	if ev.Saved != nil && *ev.Saved != saved {
		out.Corrected = true
	}
	return out
}

// ParsePayload decodes a raw click payload. A leading "+" or "-" carries the
// surface's advisory saved/unsaved flag; the rest is the key, lowercased.
func ParsePayload(raw string) ClickEvent {
	raw = strings.TrimSpace(raw)
	var ev ClickEvent
	if raw == "" {
		return ev
	}
	switch raw[0] {
	case '+':
		v := true
		ev.Saved = &v
		raw = raw[1:]
	case '-':
		v := false
		ev.Saved = &v
		raw = raw[1:]
	}
	ev.Key = strings.ToLower(raw)
	return ev
}

// Bool returns a pointer to v, for building advisory flags.
func Bool(v bool) *bool { return &v }
