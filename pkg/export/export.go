// Package export writes a reader's saved words out as a spreadsheet-ready
// CSV table.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/japaniel/vocabreader/pkg/glossary"
)

// Header is the first CSV row.
var Header = []string{"Wort (DE)", "Definition (DE)", "Definition (EN)"}

// bom makes spreadsheet programs read the file as UTF-8.
const bom = "\ufeff"

// WriteCSV writes entries with a UTF-8 byte order mark and a header row.
func WriteCSV(w io.Writer, entries []glossary.Entry) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Word, e.DefinitionGerman, e.DefinitionEnglish}); err != nil {
			return fmt.Errorf("write %q: %w", e.Word, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the table as a string.
func CSV(entries []glossary.Entry) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile writes the table to path, creating parent directories.
func WriteFile(path string, entries []glossary.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// ToClipboard copies the table, without the byte order mark, to the system
// clipboard.
func ToClipboard(entries []glossary.Entry) error {
	s, err := CSV(entries)
	if err != nil {
		return err
	}
	if err := clipboardWrite(s[len(bom):]); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// ClipboardAvailable reports whether a system clipboard can be used.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}
