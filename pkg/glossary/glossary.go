// Package glossary loads vocabulary entries and indexes them by normalized
// key for lookup from reading tokens.
package glossary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingWord is returned for entries without a usable word field.
var ErrMissingWord = errors.New("glossary entry missing word")

// Entry is one definition record for a canonical word.
type Entry struct {
	Word              string  `json:"word" yaml:"word"`
	DefinitionGerman  string  `json:"definition_german" yaml:"definition_german"`
	DefinitionEnglish string  `json:"definition_english" yaml:"definition_english"`
	ContextSnippet    string  `json:"context_snippet,omitempty" yaml:"context_snippet,omitempty"`
	Chapter           Chapter `json:"chapter,omitempty" yaml:"chapter,omitempty"`
}

// Chapter tags an entry with the chapter it belongs to. Sources write it
// either as a number or as a string.
type Chapter string

// Number returns the chapter as an integer, or 0 if it is not numeric.
func (c Chapter) Number() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(c)))
	if err != nil {
		return 0
	}
	return n
}

func (c *Chapter) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Chapter(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chapter must be a string or number: %w", err)
	}
	*c = Chapter(n.String())
	return nil
}

func (c Chapter) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(string(c)); err == nil {
		return []byte(c), nil
	}
	return json.Marshal(string(c))
}

func (c *Chapter) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("chapter must be a scalar, line %d", node.Line)
	}
	*c = Chapter(node.Value)
	return nil
}

// Validate checks the fields required at load time.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Word) == "" {
		return ErrMissingWord
	}
	return nil
}

// LoadFile reads glossary entries from a JSON or YAML file, chosen by
// extension. Unknown extensions are parsed as JSON.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, err = ParseYAML(data)
	default:
		entries, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ParseJSON accepts either a bare array of entries or an object wrapping
// them as {"words": [...]}. An empty words list is an empty glossary.
func ParseJSON(data []byte) ([]Entry, error) {
	var wrapped struct {
		Words *[]Entry `json:"words"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Words != nil {
		return validated(*wrapped.Words)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse glossary as object or array: %w", err)
	}
	return validated(entries)
}

// ParseYAML parses a YAML sequence of entries, or a mapping with a words key.
func ParseYAML(data []byte) ([]Entry, error) {
	var wrapped struct {
		Words *[]Entry `yaml:"words"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err == nil && wrapped.Words != nil {
		return validated(*wrapped.Words)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse glossary yaml: %w", err)
	}
	return validated(entries)
}

func validated(entries []Entry) ([]Entry, error) {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return entries, nil
}

// WriteFile stores entries as indented JSON, the layout used for chapter
// vocabulary files.
func WriteFile(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
