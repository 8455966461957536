// Package tokenize splits reading text into addressable word and punctuation
// tokens and derives the normalized keys used for glossary lookup.
package tokenize

import (
	"strings"
	"unicode"
)

// Kind distinguishes word runs from single punctuation characters.
type Kind int

const (
	Word Kind = iota
	Punct
)

func (k Kind) String() string {
	if k == Punct {
		return "punct"
	}
	return "word"
}

// Token is one addressable unit of the source text. Text keeps the original
// surface casing.
type Token struct {
	Text string
	Kind Kind
}

// IsWord reports whether the token is a word run.
func (t Token) IsWord() bool { return t.Kind == Word }

// Segmenter splits a single word run further, e.g. for scripts that do not
// separate words with spaces. Implementations must return pieces that
// concatenate back to the run.
type Segmenter interface {
	Segment(run string) []string
}

// Tokenizer applies the word/punctuation split and an optional Segmenter.
// The zero value is ready to use.
type Tokenizer struct {
	Segmenter Segmenter
}

// Tokenize splits text using the zero Tokenizer.
func Tokenize(text string) []Token {
	return Tokenizer{}.Tokenize(text)
}

// Tokenize splits text into tokens. Maximal runs of letters, digits and
// underscores form one word; every other non-space rune is its own token.
func (tz Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	var run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		s := run.String()
		run.Reset()
		if tz.Segmenter == nil {
			tokens = append(tokens, Token{Text: s, Kind: Word})
			return
		}
		for _, piece := range tz.Segmenter.Segment(s) {
			if piece == "" {
				continue
			}
			tokens = append(tokens, Token{Text: piece, Kind: Word})
		}
	}

	for _, r := range text {
		switch {
		case isWordRune(r):
			run.WriteRune(r)
		case unicode.Is(unicode.M, r) && run.Len() > 0:
			// a combining mark continues the word it decorates
			run.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, Token{Text: string(r), Kind: Punct})
		}
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

// Join rebuilds a reading-equivalent text by separating tokens with single
// spaces. Original spacing and line breaks are not preserved.
func Join(tokens []Token) string {
	return strings.Join(Texts(tokens), " ")
}

// Texts returns the surface strings of tokens.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
