package glossary

import "strings"

// Merge combines an existing chapter vocabulary with newly approved entries.
// Entries are matched by lowercased word; an incoming entry replaces the
// existing one in place, new words are appended in incoming order.
func Merge(existing, incoming []Entry) []Entry {
	pos := make(map[string]int, len(existing)+len(incoming))
	out := make([]Entry, 0, len(existing)+len(incoming))

	add := func(e Entry) {
		key := strings.ToLower(e.Word)
		if i, ok := pos[key]; ok {
			out[i] = e
			return
		}
		pos[key] = len(out)
		out = append(out, e)
	}
	for _, e := range existing {
		add(e)
	}
	for _, e := range incoming {
		add(e)
	}
	return out
}

// ByChapter groups entries by their numeric chapter tag. Entries without a
// numeric chapter are skipped.
func ByChapter(entries []Entry) map[int][]Entry {
	out := make(map[int][]Entry)
	for _, e := range entries {
		n := e.Chapter.Number()
		if n <= 0 {
			continue
		}
		out[n] = append(out[n], e)
	}
	return out
}
