package glossary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// JMdictReleaseAPI lists the latest jmdict-simplified release.
var JMdictReleaseAPI = "https://api.github.com/repos/scriptin/jmdict-simplified/releases/latest"

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	ID    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // "eng" when missing
}

// maxSenses bounds how many senses end up in one definition.
const maxSenses = 3

// LoadJMdict reads a jmdict-simplified file, either the full object with a
// "words" array or a bare array of entries.
func LoadJMdict(path string) ([]JMdictEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Words []JMdictEntry `json:"words"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Words) > 0 {
		return wrapped.Words, nil
	}

	var entries []JMdictEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary as object or array: %w", err)
	}
	return entries, nil
}

// FromJMdict turns dictionary entries into glossary entries, one per written
// form. English glosses fill DefinitionEnglish, German ("ger") glosses fill
// DefinitionGerman and the hiragana readings go into ContextSnippet. When a
// form appears in several entries the first one wins. With commonOnly only
// forms marked common are kept.
func FromJMdict(entries []JMdictEntry, commonOnly bool) []Entry {
	var out []Entry
	seen := make(map[string]bool)

	for _, e := range entries {
		english := glosses(e.Sense, "eng")
		german := glosses(e.Sense, "ger")
		if english == "" && german == "" {
			continue
		}
		readings := make([]string, 0, len(e.Kana))
		for _, k := range e.Kana {
			readings = append(readings, ToHiragana(k.Text))
		}

		forms := e.Kanji
		if len(forms) == 0 {
			forms = e.Kana
		}
		for _, f := range forms {
			if f.Text == "" || seen[f.Text] || (commonOnly && !f.Common) {
				continue
			}
			seen[f.Text] = true
			ent := Entry{
				Word:              f.Text,
				DefinitionGerman:  german,
				DefinitionEnglish: english,
			}
			if len(e.Kanji) > 0 && len(readings) > 0 {
				ent.ContextSnippet = strings.Join(readings, "・")
			}
			out = append(out, ent)
		}
	}
	return out
}

func glosses(senses []JMdictSense, lang string) string {
	var parts []string
	for _, s := range senses {
		var texts []string
		for _, g := range s.Gloss {
			l := g.Lang
			if l == "" {
				l = "eng"
			}
			if l == lang && g.Text != "" {
				texts = append(texts, g.Text)
			}
		}
		if len(texts) == 0 {
			continue
		}
		parts = append(parts, strings.Join(texts, ", "))
		if len(parts) == maxSenses {
			break
		}
	}
	return strings.Join(parts, "; ")
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// LatestJMdictURL returns the download URL of the English common dictionary
// in the latest jmdict-simplified release.
func LatestJMdictURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, JMdictReleaseAPI, nil)
	if err != nil {
		return "", err
	}
	// GitHub rejects requests without a User-Agent.
	req.Header.Set("User-Agent", "vocabreader-cli")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var release struct {
		Assets []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	for _, asset := range release.Assets {
		if strings.Contains(asset.Name, "jmdict-eng-common") && (strings.HasSuffix(asset.Name, ".json.tgz") || strings.HasSuffix(asset.Name, ".json.gz")) {
			return asset.BrowserDownloadURL, nil
		}
	}
	return "", fmt.Errorf("no suitable dictionary asset found in latest release")
}
