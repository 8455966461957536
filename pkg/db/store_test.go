package db

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateOrGetUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id1, err := CreateOrGetUser(db, "anna")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	id2, err := CreateOrGetUser(db, "  anna ")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
	if _, err := CreateOrGetUser(db, "   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestReplaceAndGetSavedWords(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	uid, err := CreateOrGetUser(db, "anna")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := GetSavedWords(db, "anna")
	if err != nil {
		t.Fatalf("get saved: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no saved words, got %v", got)
	}

	if err := ReplaceSavedWords(db, uid, []string{"zimmer", "buddenbrooks", "", "zimmer"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = GetSavedWords(db, "anna")
	if err != nil {
		t.Fatalf("get saved: %v", err)
	}
	if want := []string{"buddenbrooks", "zimmer"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if err := ReplaceSavedWords(db, uid, nil); err != nil {
		t.Fatalf("replace empty: %v", err)
	}
	got, _ = GetSavedWords(db, "anna")
	if len(got) != 0 {
		t.Fatalf("expected cleared set, got %v", got)
	}
}

func TestSavedWordsIsolatedPerUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	a, _ := CreateOrGetUser(db, "anna")
	b, _ := CreateOrGetUser(db, "bert")
	if err := ReplaceSavedWords(db, a, []string{"haus"}); err != nil {
		t.Fatalf("replace a: %v", err)
	}
	if err := ReplaceSavedWords(db, b, []string{"hund", "katze"}); err != nil {
		t.Fatalf("replace b: %v", err)
	}
	got, _ := GetSavedWords(db, "anna")
	if !reflect.DeepEqual(got, []string{"haus"}) {
		t.Fatalf("anna: unexpected %v", got)
	}

	users, err := ListUsers(db)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	want := []UserSummary{{Name: "anna", SavedWords: 1}, {Name: "bert", SavedWords: 2}}
	if !reflect.DeepEqual(users, want) {
		t.Fatalf("expected %v, got %v", want, users)
	}
}

func TestReplaceSavedWordsInTx(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	uid, _ := CreateOrGetUser(db, "anna")
	if err := ReplaceSavedWords(db, uid, []string{"haus"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := ReplaceSavedWords(tx, uid, []string{"hund"}); err != nil {
		t.Fatalf("replace in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	got, _ := GetSavedWords(db, "anna")
	if !reflect.DeepEqual(got, []string{"haus"}) {
		t.Fatalf("rollback should keep previous set, got %v", got)
	}
}

func TestCreateOrGetDocument(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id1, err := CreateOrGetDocument(db, "/books/buddenbrooks.txt", "Buddenbrooks", "abc", 2500)
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	id2, err := CreateOrGetDocument(db, "/books/buddenbrooks.txt", "", "def", 2600)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same document id, got %d and %d", id1, id2)
	}
	doc, err := GetDocument(db, " /books/buddenbrooks.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.ID != id1 || doc.Title != "Buddenbrooks" || doc.ContentHash != "def" || doc.TokenCount != 2600 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if _, err := CreateOrGetDocument(db, "", "", "", 0); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := GetDocument(db, "/books/missing.txt"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetUserIDTrimsName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	if _, err := GetUserID(db, "anna"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	id, err := CreateOrGetUser(db, " anna ")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	got, err := GetUserID(db, "anna ")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got != id {
		t.Fatalf("expected id %d, got %d", id, got)
	}
}

func TestProgress(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	uid, _ := CreateOrGetUser(db, "anna")
	did, _ := CreateOrGetDocument(db, "/books/a.txt", "A", "", 10)

	if _, err := GetProgress(db, uid, did); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if err := UpdateProgress(db, uid, did, 2); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := UpdateProgress(db, uid, did, 3); err != nil {
		t.Fatalf("update again: %v", err)
	}
	idx, err := GetProgress(db, uid, did)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if idx != 3 {
		t.Fatalf("expected page 3, got %d", idx)
	}
	if err := UpdateProgress(db, uid, did, -1); err == nil {
		t.Fatalf("expected error for negative page")
	}
}
