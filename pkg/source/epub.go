package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// EPUBFormat reads the spine of an EPUB book in order.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Extract(filename string) (Extracted, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return Extracted{}, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return Extracted{}, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	var out strings.Builder

	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		out.WriteString(extractTextFromHTML(string(SanitizeRuby(data))))
		out.WriteString("\n")
	}

	return Extracted{Title: book.Metadata.Title, Text: out.String()}, nil
}
