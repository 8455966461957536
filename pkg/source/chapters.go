package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/japaniel/vocabreader/pkg/glossary"
)

var (
	chapterFile = regexp.MustCompile(`^chapter_(\d+)\.txt$`)
	vocabFile   = regexp.MustCompile(`^vocab_ch(\d+)\.json$`)
)

// Chapter is one numbered chapter text and, if present, its glossary file.
type Chapter struct {
	Number    int
	TextPath  string
	VocabPath string
}

// Load reads the chapter text.
func (c Chapter) Load() (Document, error) {
	return Load(c.TextPath)
}

// Glossary reads the chapter's glossary entries. A chapter without a glossary
// file has none.
func (c Chapter) Glossary() ([]glossary.Entry, error) {
	if c.VocabPath == "" {
		return nil, nil
	}
	return glossary.LoadFile(c.VocabPath)
}

// Chapters finds chapter_N.txt files under root or root/chapters and pairs
// them with vocab_chN.json from root or root/vocab_data, sorted by N.
func Chapters(root string) ([]Chapter, error) {
	texts, err := scanNumbered(chapterFile, root, filepath.Join(root, "chapters"))
	if err != nil {
		return nil, err
	}
	vocab, err := scanNumbered(vocabFile, root, filepath.Join(root, "vocab_data"))
	if err != nil {
		return nil, err
	}

	out := make([]Chapter, 0, len(texts))
	for n, p := range texts {
		out = append(out, Chapter{Number: n, TextPath: p, VocabPath: vocab[n]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// VocabFiles returns the vocab_chN.json files under root or root/vocab_data,
// keyed by chapter number.
func VocabFiles(root string) (map[int]string, error) {
	return scanNumbered(vocabFile, root, filepath.Join(root, "vocab_data"))
}

// VocabPath returns the canonical location of chapter n's glossary file.
func VocabPath(root string, n int) string {
	return filepath.Join(root, "vocab_data", fmt.Sprintf("vocab_ch%d.json", n))
}

func scanNumbered(re *regexp.Regexp, dirs ...string) (map[int]string, error) {
	found := make(map[int]string)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			m := re.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if _, dup := found[n]; !dup {
				found[n] = filepath.Join(dir, e.Name())
			}
		}
	}
	return found, nil
}
