package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// HTMLFormat extracts the main article text of an HTML page.
type HTMLFormat struct{}

func init() {
	Register(&HTMLFormat{})
}

func (f *HTMLFormat) Name() string         { return "HTML" }
func (f *HTMLFormat) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

func (f *HTMLFormat) Extract(filename string) (Extracted, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Extracted{}, err
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}
	return extractArticle(data, &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)})
}

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>) so furigana is not read as part of the base word
// (e.g. "漢字" becoming "漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	cleaned = reRP.ReplaceAll(cleaned, []byte{})
	return cleaned
}

// extractArticle runs readability over the page and falls back to every text
// node when readability finds no article.
func extractArticle(data []byte, pageURL *url.URL) (Extracted, error) {
	data = SanitizeRuby(data)
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return Extracted{Title: article.Title, Text: article.TextContent}, nil
	}
	text := extractTextFromHTML(string(data))
	if strings.TrimSpace(text) == "" {
		if err != nil {
			return Extracted{}, fmt.Errorf("extract article: %w", err)
		}
		return Extracted{}, fmt.Errorf("extract article: no text found")
	}
	return Extracted{Text: text}, nil
}

func extractTextFromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "head") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out.String()
}

// maxBodySize caps pages fetched by FetchURL.
const maxBodySize = 10 * 1024 * 1024

// HTTPClient is used by FetchURL.
var HTTPClient = http.DefaultClient

// FetchURL downloads a web page and extracts its article as a Document.
func FetchURL(ctx context.Context, rawURL string) (Document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return Document{}, fmt.Errorf("invalid url %q", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("User-Agent", "vocabreader-cli")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("fetch %s: got status code %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > int64(maxBodySize) {
		return Document{}, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return Document{}, fmt.Errorf("read response body: %w", err)
	}
	if len(body) > maxBodySize {
		return Document{}, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}

	ex, err := extractArticle(body, parsedURL)
	if err != nil {
		return Document{}, err
	}
	return newDocument(rawURL, ex)
}
