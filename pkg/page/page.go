// Package page slices a token stream into bounded windows for display.
package page

import "github.com/japaniel/vocabreader/pkg/tokenize"

// DefaultSize is the number of tokens shown per page.
const DefaultSize = 1000

// Window is one page of the token stream. Start and End are offsets into
// the full stream, End exclusive.
type Window struct {
	Index       int
	Size        int
	Start       int
	End         int
	Total       int
	Pages       int
	HasPrevious bool
	HasNext     bool
	Tokens      []tokenize.Token
}

// Empty reports whether the window holds no tokens.
func (w Window) Empty() bool { return w.Start >= w.End }

// Paginator computes windows over a stream of Total tokens.
type Paginator struct {
	Total int
	Size  int
}

// New returns a paginator; a non-positive size selects DefaultSize.
func New(total, size int) Paginator {
	if size <= 0 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}
	return Paginator{Total: total, Size: size}
}

func (p Paginator) size() int {
	if p.Size <= 0 {
		return DefaultSize
	}
	return p.Size
}

// Pages returns the number of non-empty pages.
func (p Paginator) Pages() int {
	if p.Total <= 0 {
		return 0
	}
	s := p.size()
	return (p.Total + s - 1) / s
}

// Valid reports whether index names a non-empty page.
func (p Paginator) Valid(index int) bool {
	return index >= 0 && index*p.size() < p.Total
}

// Bounds returns the [start, end) offsets of page index. Invalid pages
// return an empty range.
func (p Paginator) Bounds(index int) (start, end int) {
	if !p.Valid(index) {
		return 0, 0
	}
	s := p.size()
	start = index * s
	end = start + s
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// Window slices tokens for page index. tokens must have length Total.
func (p Paginator) Window(tokens []tokenize.Token, index int) Window {
	s := p.size()
	w := Window{
		Index:       index,
		Size:        s,
		Total:       p.Total,
		Pages:       p.Pages(),
		HasPrevious: index > 0,
		HasNext:     index >= 0 && (index+1)*s < p.Total,
	}
	w.Start, w.End = p.Bounds(index)
	if w.End > w.Start {
		w.Tokens = tokens[w.Start:w.End]
	}
	return w
}

// Next returns the following page index, or index itself on the last page.
func (p Paginator) Next(index int) int {
	if p.Valid(index + 1) {
		return index + 1
	}
	return index
}

// Prev returns the preceding page index, or index itself on the first page.
func (p Paginator) Prev(index int) int {
	if index > 0 && p.Valid(index-1) {
		return index - 1
	}
	return index
}

// Clamp moves an arbitrary index onto the nearest valid page, or 0 when
// there are no pages.
func (p Paginator) Clamp(index int) int {
	if index < 0 || p.Pages() == 0 {
		return 0
	}
	if last := p.Pages() - 1; index > last {
		return last
	}
	return index
}
