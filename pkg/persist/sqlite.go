package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/japaniel/vocabreader/pkg/db"
)

// SQLiteStore keeps saved words in the SQLite schema of package db.
type SQLiteStore struct {
	conn  *sql.DB
	locks userLocks
}

// NewSQLiteStore wraps an already migrated connection.
func NewSQLiteStore(conn *sql.DB) *SQLiteStore {
	return &SQLiteStore{conn: conn}
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store %s: %w", path, err)
	}
	return NewSQLiteStore(conn), nil
}

// DB exposes the underlying connection.
func (s *SQLiteStore) DB() *sql.DB { return s.conn }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.conn.Close() }

func (s *SQLiteStore) Load(ctx context.Context, user string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return db.GetSavedWords(s.conn, user)
}

// Save replaces the user's saved words in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, user string, keys []string) error {
	m := s.locks.get(user)
	m.Lock()
	defer m.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	uid, err := db.CreateOrGetUser(tx, user)
	if err != nil {
		return err
	}
	if err := db.ReplaceSavedWords(tx, uid, sortedCopy(keys)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit saved words (%d keys): %w", len(keys), err)
	}
	return nil
}

// RegisterDocument records metadata for a document the user opened.
func (s *SQLiteStore) RegisterDocument(ctx context.Context, path, title, hash string, tokens int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := db.CreateOrGetDocument(s.conn, path, title, hash, tokens)
	return err
}

func (s *SQLiteStore) LoadProgress(ctx context.Context, user, document string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	uid, err := db.GetUserID(s.conn, user)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	doc, err := db.GetDocument(s.conn, document)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	page, err := db.GetProgress(s.conn, uid, doc.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return page, true, nil
}

func (s *SQLiteStore) SaveProgress(ctx context.Context, user, document string, page int) error {
	m := s.locks.get(user)
	m.Lock()
	defer m.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin progress tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	uid, err := db.CreateOrGetUser(tx, user)
	if err != nil {
		return err
	}
	did, err := db.CreateOrGetDocument(tx, document, "", "", 0)
	if err != nil {
		return err
	}
	if err := db.UpdateProgress(tx, uid, did, page); err != nil {
		return err
	}
	return tx.Commit()
}

// Users lists every stored user with a saved-word count.
func (s *SQLiteStore) Users(ctx context.Context) ([]db.UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return db.ListUsers(s.conn)
}
