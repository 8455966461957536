package glossary

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxDownloadSize bounds both the downloaded bytes and the unpacked glossary.
var maxDownloadSize int64 = 64 * 1024 * 1024

// ErrTooLarge is returned when a download or its unpacked member exceeds the
// size limit. Nothing is written to dest.
var ErrTooLarge = errors.New("download exceeds size limit")

// sizeLimitReader fails with ErrTooLarge once more than n bytes are read.
type sizeLimitReader struct {
	r io.Reader
	n int64
}

func limitSize(r io.Reader) io.Reader {
	return &sizeLimitReader{r: r, n: maxDownloadSize}
}

func (l *sizeLimitReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, ErrTooLarge
	}
	return n, err
}

// HTTPClient is used by Fetch. Tests may replace it.
var HTTPClient = &http.Client{Timeout: 60 * time.Second}

// Fetch downloads the glossary at url to dest unless dest already exists.
// Archives ending in .tgz/.tar.gz are searched for the first JSON or YAML
// member; .gz files are decompressed.
func Fetch(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "vocabreader-cli")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	if resp.ContentLength > maxDownloadSize {
		return fmt.Errorf("content-length %d: %w", resp.ContentLength, ErrTooLarge)
	}
	body := limitSize(resp.Body)
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".tgz") || strings.HasSuffix(lower, ".tar.gz"):
		return extractTarGz(body, dest)
	case strings.HasSuffix(lower, ".gz"):
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		return writeAtomic(dest, limitSize(gz))
	default:
		return writeAtomic(dest, body)
	}
}

func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		switch strings.ToLower(filepath.Ext(header.Name)) {
		case ".json", ".yaml", ".yml":
			return writeAtomic(dest, limitSize(tr))
		}
	}
	return fmt.Errorf("no glossary file found in downloaded archive")
}

// writeAtomic writes to a temp file next to dest and renames it into place.
func writeAtomic(dest string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
