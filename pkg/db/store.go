package db

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// CreateOrGetUser returns the id of the named user, inserting it if needed.
func CreateOrGetUser(db DBExecutor, name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("user name must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(`SELECT id FROM users WHERE name = ?`, trimmed).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}

		res, err := db.Exec(`INSERT INTO users (name) VALUES (?)`, trimmed)
		if err != nil {
			// Another connection inserted the same user; retry the SELECT.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get user after %d retries", maxRetries)
}

// GetSavedWords returns the saved keys of the named user in sorted order.
// An unknown user has no saved words.
func GetSavedWords(db DBExecutor, name string) ([]string, error) {
	rows, err := db.Query(`SELECT sw.word_key FROM saved_words sw JOIN users u ON u.id = sw.user_id WHERE u.name = ? ORDER BY sw.word_key`, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceSavedWords overwrites the saved keys of a user. Call it inside a
// transaction so readers never observe a partial set.
func ReplaceSavedWords(db DBExecutor, userID int64, keys []string) error {
	if userID <= 0 {
		return fmt.Errorf("userID must be positive")
	}
	if _, err := db.Exec(`DELETE FROM saved_words WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear saved words: %w", err)
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	now := time.Now()
	for _, k := range sorted {
		if k == "" {
			continue
		}
		if _, err := db.Exec(`INSERT INTO saved_words (user_id, word_key, saved_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`, userID, k, now); err != nil {
			return fmt.Errorf("insert saved word %q: %w", k, err)
		}
	}
	return nil
}

// ListUsers returns every user with their saved-word count.
func ListUsers(db DBExecutor) ([]UserSummary, error) {
	rows, err := db.Query(`SELECT u.name, COUNT(sw.word_key) FROM users u LEFT JOIN saved_words sw ON sw.user_id = u.id GROUP BY u.id ORDER BY u.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UserSummary
	for rows.Next() {
		var s UserSummary
		if err := rows.Scan(&s.Name, &s.SavedWords); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateOrGetDocument returns the id of the document at path, inserting or
// refreshing its metadata.
func CreateOrGetDocument(db DBExecutor, path, title, contentHash string, tokenCount int) (int64, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return 0, fmt.Errorf("document path must be non-empty")
	}

	var id int64
	query := `INSERT INTO documents (path, title, content_hash, token_count)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(path)
			  DO UPDATE SET
			    title = COALESCE(NULLIF(excluded.title, ''), documents.title),
			    content_hash = COALESCE(NULLIF(excluded.content_hash, ''), documents.content_hash),
			    token_count = CASE WHEN excluded.token_count > 0 THEN excluded.token_count ELSE documents.token_count END
			  RETURNING id`

	if err := db.QueryRow(query, trimmed, title, contentHash, tokenCount).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert document: %w", err)
	}
	return id, nil
}

// GetUserID returns the id of the named user without creating it. It returns
// sql.ErrNoRows for an unknown user.
func GetUserID(db DBExecutor, name string) (int64, error) {
	var id int64
	err := db.QueryRow(`SELECT id FROM users WHERE name = ?`, strings.TrimSpace(name)).Scan(&id)
	return id, err
}

// GetDocument returns the document stored at path, or sql.ErrNoRows.
func GetDocument(db DBExecutor, path string) (Document, error) {
	var d Document
	var title, hash sql.NullString
	err := db.QueryRow(`SELECT id, path, title, content_hash, token_count, added_at FROM documents WHERE path = ?`, strings.TrimSpace(path)).
		Scan(&d.ID, &d.Path, &title, &hash, &d.TokenCount, &d.AddedAt)
	if err != nil {
		return Document{}, err
	}
	d.Title = title.String
	d.ContentHash = hash.String
	return d, nil
}

// GetProgress returns the last page index the user viewed in a document.
// It returns sql.ErrNoRows when nothing was recorded.
func GetProgress(db DBExecutor, userID, documentID int64) (int, error) {
	var index int
	err := db.QueryRow(`SELECT page_index FROM reading_progress WHERE user_id = ? AND document_id = ?`, userID, documentID).Scan(&index)
	if err != nil {
		return 0, err
	}
	return index, nil
}

// UpdateProgress records the page index the user is on.
func UpdateProgress(db DBExecutor, userID, documentID int64, pageIndex int) error {
	if pageIndex < 0 {
		return fmt.Errorf("pageIndex must not be negative, got %d", pageIndex)
	}
	_, err := db.Exec(`INSERT INTO reading_progress (user_id, document_id, page_index, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, document_id) DO UPDATE SET
		  page_index = excluded.page_index,
		  updated_at = excluded.updated_at`, userID, documentID, pageIndex, time.Now())
	return err
}
