package quizgen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/util"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTopK         = 10
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 400

	embedConcurrency = 4
)

var chunkSeparators = []string{"\n\n", "\n", ".", "!", "?"}

// Retriever selects the chunks of an article most relevant to its title.
type Retriever struct {
	splitter textsplitter.RecursiveCharacter
	embedder domain.EmbeddingService
	topK     int
	logger   *zap.Logger
}

// NewRetriever returns a Retriever. A nil embedder keeps the first topK chunks.
func NewRetriever(embedder domain.EmbeddingService, topK, chunkSize, chunkOverlap int, logger *zap.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(chunkSeparators),
		),
		embedder: embedder,
		topK:     topK,
		logger:   logger,
	}
}

// RetrievalQuery is the similarity query used for an article title.
func RetrievalQuery(title string) string {
	return fmt.Sprintf("important facts, achievements, and insights about %s", title)
}

// Retrieve returns up to topK chunks of text ranked by similarity to the
// title query, most similar first. With topK or fewer chunks the original
// order is kept.
func (r *Retriever) Retrieve(ctx context.Context, title, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	chunks, err := r.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split article text: %w", err)
	}
	if len(chunks) <= r.topK || r.embedder == nil {
		if len(chunks) > r.topK {
			chunks = chunks[:r.topK]
		}
		return chunks, nil
	}

	queryVec, err := r.embedder.Generate(ctx, RetrievalQuery(title))
	if err != nil {
		return nil, fmt.Errorf("failed to embed retrieval query: %w", err)
	}

	scores := make([]float64, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			vec, err := r.embedder.Generate(gctx, chunk)
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d: %w", i, err)
			}
			score, err := util.CosineSimilarity(queryVec, vec)
			if err != nil {
				return fmt.Errorf("failed to score chunk %d: %w", i, err)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	order := make([]int, len(chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	selected := make([]string, 0, r.topK)
	for _, idx := range order[:r.topK] {
		selected = append(selected, chunks[idx])
	}
	r.logger.Debug("Retrieved article chunks",
		zap.String("title", title),
		zap.Int("chunks", len(chunks)),
		zap.Int("selected", len(selected)),
	)
	return selected, nil
}
