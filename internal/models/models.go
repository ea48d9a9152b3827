package models

import (
	"time"
)

// User represents an authenticated user of the platform.
type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Document represents one ingested source file for one owning user.
// ContentHash is the hex sha256 of the raw uploaded bytes; it is unique per
// user by convention (dedup lookup), not by a database constraint.
type Document struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentHash string    `db:"content_hash" json:"content_hash"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DocumentChunk represents one bounded span of a document's extracted text.
// Embedding is nil at creation time and populated later by the query-time
// backfill, outside the ingestion pipeline.
type DocumentChunk struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Text       string    `db:"text" json:"text"`
	Position   int       `db:"position" json:"position"`
	Embedding  []float32 `db:"embedding" json:"embedding,omitempty"` // pgvector column
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
