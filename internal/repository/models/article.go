package models

import (
	"database/sql"
	"time"
)

// Article represents one row of the articles table.
type Article struct {
	ID                string         `db:"id"`                 // ULID
	URL               string         `db:"url"`                // unique
	Title             string         `db:"title"`
	StructuredContent string         `db:"structured_content"` // JSON-encoded domain.StructuredContent
	QuizPayload       sql.NullString `db:"quiz_payload"`       // JSON-encoded domain.QuizOutput or "{}"
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

// ArticleHistory is the projection used by the history listing.
type ArticleHistory struct {
	ID        string    `db:"id"`
	URL       string    `db:"url"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}
