package domain

import "context"

// EmbeddingService turns article chunks and retrieval queries into vectors
// for similarity ranking.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
