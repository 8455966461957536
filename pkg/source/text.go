package source

import (
	"os"
	"regexp"
	"strings"
)

// TextFormat reads plain text files.
type TextFormat struct{}

// MarkdownFormat reads Markdown and drops the markup that would otherwise
// end up glued to words.
type MarkdownFormat struct{}

func init() {
	Register(&TextFormat{})
	Register(&MarkdownFormat{})
}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt", ".text"} }

func (f *TextFormat) Extract(filename string) (Extracted, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Extracted{}, err
	}
	return Extracted{Text: string(data)}, nil
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

var (
	headerRegex   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	linkRegex     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	emphasisRegex = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_\n]+)(\*{1,3}|_{1,3})`)
	firstHeading  = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

func (f *MarkdownFormat) Extract(filename string) (Extracted, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Extracted{}, err
	}
	return StripMarkdown(string(data)), nil
}

// StripMarkdown removes heading markers, link targets and emphasis. The first
// level-one heading becomes the title.
func StripMarkdown(s string) Extracted {
	var title string
	if m := firstHeading.FindStringSubmatch(s); m != nil {
		title = strings.TrimSpace(m[1])
	}
	s = headerRegex.ReplaceAllString(s, "")
	s = linkRegex.ReplaceAllString(s, "$1")
	s = emphasisRegex.ReplaceAllString(s, "$2")
	return Extracted{Title: title, Text: s}
}
