// Package scan reports how much of each chapter a glossary covers.
package scan

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"

	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/source"
	"github.com/japaniel/vocabreader/pkg/tokenize"
)

// Membership reports whether a key is saved.
type Membership interface {
	Contains(key string) bool
}

// Result is the coverage of one chapter. Words counts word tokens, Hits
// those with a glossary entry, Distinct the sorted glossary keys occurring
// and Saved how many of those keys are saved.
type Result struct {
	Chapter  int      `json:"chapter"`
	Path     string   `json:"path"`
	Words    int      `json:"words"`
	Hits     int      `json:"hits"`
	Distinct []string `json:"distinct"`
	Saved    int      `json:"saved"`
	Err      error    `json:"-"`
	Error    string   `json:"error,omitempty"`
}

// Coverage is Hits as a fraction of Words.
func (r Result) Coverage() float64 {
	if r.Words == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Words)
}

// Scanner computes chapter coverage concurrently.
type Scanner struct {
	// Index is used for every chapter. When nil each chapter is matched
	// against its own vocab file.
	Index     *glossary.Index
	Tokenizer tokenize.Tokenizer
	Saved     Membership
	Workers   int
	// Logger is used for per-chapter failures. nil means no logging.
	Logger    *log.Logger
}

// Scan returns one result per chapter in the order given, however the
// workers finish. Per-chapter failures are reported in Result.Err; the
// returned error is only set when ctx ends the scan early.
func (sc *Scanner) Scan(ctx context.Context, chapters []source.Chapter) ([]Result, error) {
	results := make([]Result, len(chapters))
	workers := sc.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := NewPool(workers, len(chapters))
	pool.Start(ctx)

	for i, ch := range chapters {
		i, ch := i, ch
		if err := pool.Submit(func(ctx context.Context) error {
			results[i] = sc.Chapter(ch)
			if results[i].Err != nil && sc.Logger != nil {
				sc.Logger.Printf("Warning: chapter %d: %v", ch.Number, results[i].Err)
			}
			return nil
		}); err != nil {
			pool.Wait()
			return nil, err
		}
	}
	_ = pool.Wait()
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Chapter scans a single chapter.
func (sc *Scanner) Chapter(ch source.Chapter) Result {
	res := Result{Chapter: ch.Number, Path: ch.TextPath}
	fail := func(err error) Result {
		res.Err = err
		res.Error = err.Error()
		return res
	}

	ix := sc.Index
	if ix == nil {
		entries, err := ch.Glossary()
		if err != nil {
			return fail(fmt.Errorf("glossary: %w", err))
		}
		if ix, err = glossary.NewIndex(entries); err != nil {
			return fail(fmt.Errorf("glossary: %w", err))
		}
	}
	doc, err := ch.Load()
	if err != nil {
		return fail(err)
	}
	return sc.count(res, ix, sc.Tokenizer.Tokenize(doc.Text))
}

// Text scans a text that is not on disk.
func (sc *Scanner) Text(ix *glossary.Index, text string) Result {
	return sc.count(Result{}, ix, sc.Tokenizer.Tokenize(text))
}

func (sc *Scanner) count(res Result, ix *glossary.Index, tokens []tokenize.Token) Result {
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if !tok.IsWord() {
			continue
		}
		res.Words++
		key := ix.Key(tok.Text)
		if !ix.Contains(key) {
			continue
		}
		res.Hits++
		seen[key] = struct{}{}
	}
	res.Distinct = make([]string, 0, len(seen))
	for k := range seen {
		res.Distinct = append(res.Distinct, k)
		if sc.Saved != nil && sc.Saved.Contains(k) {
			res.Saved++
		}
	}
	sort.Strings(res.Distinct)
	return res
}
