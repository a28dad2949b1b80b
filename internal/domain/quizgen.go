package domain

import (
	"context"
)

// GenerationRequest is the input handed to the quiz generation collaborator.
type GenerationRequest struct {
	Title    string
	Text     string
	Mode     Difficulty
	Sections []string
}

// QuizGenerator produces a QuizOutput-shaped payload from article text.
// The result is validated by the caller before it is persisted.
type QuizGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*QuizOutput, error)
}

// SummaryGenerator returns short factual statements about an article.
type SummaryGenerator interface {
	Summarize(ctx context.Context, title, content string) ([]string, error)
}
