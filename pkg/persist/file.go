package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/japaniel/vocabreader/pkg/db"
)

const stateFileName = "saved_words.json"

// fileRecord is the per-user document inside the state file.
type fileRecord struct {
	SavedWords []string       `json:"saved_words"`
	Progress   map[string]int `json:"progress,omitempty"`
}

// FileStore keeps every user in one JSON document keyed by user name.
// Writes go to a temporary file that is renamed over the old one.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the JSON file at path. The file is
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns XDG_STATE_HOME/vocabreader/saved_words.json or
// ~/.local/state/vocabreader/saved_words.json.
func DefaultFilePath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "vocabreader", stateFileName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "vocabreader", stateFileName)
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context, user string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	rec, ok := data[user]
	if !ok {
		return []string{}, nil
	}
	return sortedCopy(rec.SavedWords), nil
}

func (s *FileStore) Save(ctx context.Context, user string, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	rec := data[user]
	rec.SavedWords = sortedCopy(keys)
	data[user] = rec
	return s.write(data)
}

func (s *FileStore) LoadProgress(ctx context.Context, user, document string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return 0, false, err
	}
	page, ok := data[user].Progress[document]
	return page, ok, nil
}

func (s *FileStore) SaveProgress(ctx context.Context, user, document string, page int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page < 0 {
		return fmt.Errorf("page must not be negative, got %d", page)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	rec := data[user]
	if rec.Progress == nil {
		rec.Progress = make(map[string]int)
	}
	if rec.SavedWords == nil {
		rec.SavedWords = []string{}
	}
	rec.Progress[document] = page
	data[user] = rec
	return s.write(data)
}

// Users lists every stored user with a saved-word count, sorted by name.
func (s *FileStore) Users(ctx context.Context) ([]db.UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]db.UserSummary, 0, len(data))
	for name, rec := range data {
		out = append(out, db.UserSummary{Name: name, SavedWords: len(rec.SavedWords)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// read assumes s.mu is held. A missing file is an empty store.
func (s *FileStore) read() (map[string]fileRecord, error) {
	data := make(map[string]fileRecord)
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return data, nil
}

// write assumes s.mu is held.
func (s *FileStore) write(data map[string]fileRecord) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".saved-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
