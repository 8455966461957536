package db

import "time"

// User is a reader identity.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Document is a text source a reader has opened.
type Document struct {
	ID          int64
	Path        string
	Title       string
	ContentHash string
	TokenCount  int
	AddedAt     time.Time
}

// UserSummary counts a reader's saved words.
type UserSummary struct {
	Name       string
	SavedWords int
}
