package domain

import (
	"context"
	"io"
)

// ArticleRepository defines the interface for article persistence.
// Lookups return (nil, nil) when no row matches.
type ArticleRepository interface {
	// GetByURL returns the article stored for an exact URL.
	GetByURL(ctx context.Context, url string) (*Article, error)

	// GetByID returns the article with the given ID.
	GetByID(ctx context.Context, id string) (*Article, error)

	// Create inserts a new article with its structured content and an empty quiz placeholder.
	Create(ctx context.Context, article *Article) error

	// UpdateQuiz replaces the stored quiz of an existing article.
	UpdateQuiz(ctx context.Context, id string, quiz *QuizOutput) error

	// ListHistory returns every stored article, newest first.
	ListHistory(ctx context.Context) ([]HistoryItem, error)
}

// TransactionManager runs fn inside a transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MarkupFetcher retrieves raw article markup.
type MarkupFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DocumentStructurer turns article markup into StructuredContent.
type DocumentStructurer interface {
	Structure(r io.Reader) (*StructuredContent, error)
}
