// Package source turns files on disk into the text a reading session pages
// through.
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrNotUTF8 is returned for text that is not valid UTF-8.
var ErrNotUTF8 = errors.New("text is not valid UTF-8")

// Format extracts readable text from one kind of file.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (Extracted, error)
}

// Extracted is what a Format pulls out of a file. Title may be empty.
type Extracted struct {
	Title string
	Text  string
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Lookup returns the format registered for filename's extension.
func Lookup(filename string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f, true
			}
		}
	}
	return nil, false
}

// ExtractText extracts text from a file, using a registered format or plain
// text fallback.
func ExtractText(filename string) (Extracted, error) {
	if f, ok := Lookup(filename); ok {
		return f.Extract(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return Extracted{}, err
	}
	return Extracted{Text: string(data)}, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// Document is a loaded text ready for tokenizing.
type Document struct {
	Path  string
	Title string
	Text  string
	Hash  string
}

// Load reads path through its format. The text must be valid UTF-8 and is
// returned in NFC.
func Load(path string) (Document, error) {
	ex, err := ExtractText(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := newDocument(path, ex)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

func newDocument(path string, ex Extracted) (Document, error) {
	if !utf8.ValidString(ex.Text) {
		return Document{}, ErrNotUTF8
	}
	text := norm.NFC.String(strings.TrimPrefix(ex.Text, "\ufeff"))
	title := strings.TrimSpace(ex.Title)
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return Document{Path: path, Title: title, Text: text, Hash: ContentHash(text)}, nil
}

// ContentHash identifies a text independent of where it is stored.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
