package source

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFFormat reads the plain text layer of a PDF.
type PDFFormat struct{}

func init() {
	Register(&PDFFormat{})
}

var extraneousWhitespace = regexp.MustCompile(`[ \t]+`)

func (f *PDFFormat) Name() string         { return "PDF" }
func (f *PDFFormat) Extensions() []string { return []string{".pdf"} }

func (f *PDFFormat) Extract(filename string) (Extracted, error) {
	file, reader, err := pdf.Open(filename)
	if err != nil {
		return Extracted{}, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return Extracted{}, fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return Extracted{}, err
	}
	text := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return Extracted{Text: strings.TrimSpace(text)}, nil
}
