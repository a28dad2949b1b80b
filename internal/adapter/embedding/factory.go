package embedding

import (
	"fmt"
	"strings"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"

	"go.uber.org/zap"
)

// NewEmbeddingService builds the embedding service selected by cfg.Embedding.Source.
func NewEmbeddingService(cfg *config.Config, cache domain.Cache, logger *zap.Logger) (domain.EmbeddingService, error) {
	ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Embedding, DefaultEmbeddingTTL)

	var (
		svc *CachedEmbeddingService
		err error
	)
	switch strings.ToLower(cfg.Embedding.Source) {
	case "", "ollama":
		svc, err = NewOllamaEmbeddingService(cfg.Embedding.Ollama.ServerURL, cfg.Embedding.Ollama.Model, cache, ttl, logger)
	case "openai":
		svc, err = NewOpenAIEmbeddingService(cfg.Embedding.OpenAI.APIKey, cfg.Embedding.OpenAI.Model, cache, ttl, logger)
	default:
		return nil, fmt.Errorf("unsupported embedding source %q", cfg.Embedding.Source)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
