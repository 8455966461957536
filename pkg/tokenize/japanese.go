package tokenize

import (
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// JapaneseSegmenter splits word runs containing Japanese script into
// morphemes using kagome with the IPA dictionary. Runs without Japanese
// script are returned unchanged.
type JapaneseSegmenter struct {
	t *tokenizer.Tokenizer
}

// NewJapaneseSegmenter creates a segmenter. Loading the dictionary takes a
// moment, so callers should create one and share it.
func NewJapaneseSegmenter() (*JapaneseSegmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &JapaneseSegmenter{t: t}, nil
}

// Segment implements Segmenter.
func (s *JapaneseSegmenter) Segment(run string) []string {
	if !hasJapanese(run) {
		return []string{run}
	}
	var out []string
	for _, tok := range s.t.Tokenize(run) {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		out = append(out, tok.Surface)
	}
	if len(out) == 0 {
		return []string{run}
	}
	return out
}

func hasJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}
