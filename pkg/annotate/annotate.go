// Package annotate projects a token window onto render instructions using
// the glossary and the reader's saved words.
package annotate

import (
	"fmt"
	"strings"

	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/tokenize"
)

// Kind tells the surface how to draw a token.
type Kind int

const (
	Plain Kind = iota
	Annotated
)

func (k Kind) String() string {
	if k == Annotated {
		return "annotated"
	}
	return "plain"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Mode selects how much definition data travels with each instruction.
type Mode int

const (
	// ModeEnglish carries the English gloss only.
	ModeEnglish Mode = iota
	// ModeFull adds the German definition and the context snippet.
	ModeFull
)

// ParseMode maps "english" and "full" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "english":
		return ModeEnglish, nil
	case "full":
		return ModeFull, nil
	}
	return 0, fmt.Errorf("unknown display mode %q", s)
}

func (m Mode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "english"
}

// Membership is the read-only view of the saved-word set the annotator needs.
type Membership interface {
	Contains(key string) bool
}

// Instruction tells the surface how to render one token. Text is raw; any
// escaping is the surface's job.
type Instruction struct {
	Text    string `json:"text"`
	Kind    Kind   `json:"kind"`
	Key     string `json:"key,omitempty"`
	Word    string `json:"word,omitempty"`
	English string `json:"english,omitempty"`
	German  string `json:"german,omitempty"`
	Context string `json:"context,omitempty"`
	Saved   bool   `json:"saved,omitempty"`
}

// IsAnnotated reports whether the token resolved to a glossary entry.
func (in Instruction) IsAnnotated() bool { return in.Kind == Annotated }

// Annotator resolves tokens against a glossary index.
type Annotator struct {
	Index *glossary.Index
	Mode  Mode
}

// New returns an annotator over ix.
func New(ix *glossary.Index, mode Mode) *Annotator {
	return &Annotator{Index: ix, Mode: mode}
}

// Annotate returns one instruction per token. saved is only read.
func (a *Annotator) Annotate(tokens []tokenize.Token, saved Membership) []Instruction {
	out := make([]Instruction, len(tokens))
	for i, tok := range tokens {
		out[i] = a.Token(tok, saved)
	}
	return out
}

// Token annotates a single token.
func (a *Annotator) Token(tok tokenize.Token, saved Membership) Instruction {
	in := Instruction{Text: tok.Text, Kind: Plain}
	if a.Index == nil {
		return in
	}
	key := a.Index.Key(tok.Text)
	entry, ok := a.Index.Get(key)
	if !ok {
		return in
	}
	in.Kind = Annotated
	in.Key = key
	in.Word = entry.Word
	in.English = entry.DefinitionEnglish
	if a.Mode == ModeFull {
		in.German = entry.DefinitionGerman
		in.Context = entry.ContextSnippet
	}
	if saved != nil {
		in.Saved = saved.Contains(key)
	}
	return in
}

// Count returns how many instructions are annotated and how many of those
// are saved.
func Count(ins []Instruction) (annotated, saved int) {
	for _, in := range ins {
		if in.IsAnnotated() {
			annotated++
			if in.Saved {
				saved++
			}
		}
	}
	return annotated, saved
}
