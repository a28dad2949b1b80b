package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultEmbeddingTTL is used when no cache TTL is configured.
const DefaultEmbeddingTTL = 168 * time.Hour

// CachedEmbeddingService implements domain.EmbeddingService over a langchaingo
// embedder, caching vectors in domain.Cache keyed by the SHA-256 of the text.
type CachedEmbeddingService struct {
	embedder embeddings.Embedder
	source   string
	cache    domain.Cache
	ttl      time.Duration
	sfGroup  singleflight.Group
	logger   *zap.Logger
}

// NewCachedEmbeddingService wraps embedder. cache may be nil to disable caching.
func NewCachedEmbeddingService(embedder embeddings.Embedder, source string, cache domain.Cache, ttl time.Duration, logger *zap.Logger) (*CachedEmbeddingService, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultEmbeddingTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbeddingService{
		embedder: embedder,
		source:   source,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}, nil
}

// Generate returns the embedding of text, from cache when possible.
func (s *CachedEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	textHash := hashString(text)
	cacheKey := cache.GenerateCacheKey("embedding", s.source, textHash)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			var embedding []float32
			errDecode := gob.NewDecoder(bytes.NewReader([]byte(cached))).Decode(&embedding)
			if errDecode == nil {
				s.logger.Debug("Embedding cache hit", zap.String("source", s.source), zap.String("textHash", textHash))
				return embedding, nil
			}
			s.logger.Warn("Failed to decode cached embedding", zap.Error(errDecode), zap.String("cacheKey", cacheKey))
		case errors.Is(err, domain.ErrCacheMiss):
			s.logger.Debug("Embedding cache miss", zap.String("source", s.source), zap.String("textHash", textHash))
		default:
			s.logger.Error("Failed to get embedding from cache", zap.Error(err), zap.String("cacheKey", cacheKey))
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		raw, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to generate embedding using %s: %w", s.source, fetchErr)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("received empty embedding from %s", s.source)
		}
		embedding := make([]float32, len(raw))
		for i, v := range raw {
			embedding[i] = float32(v)
		}
		s.store(ctx, cacheKey, embedding)
		return embedding, nil
	})
	if err != nil {
		return nil, err
	}

	if embedding, ok := res.([]float32); ok {
		return embedding, nil
	}
	return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
}

// store caches embedding; failures are logged and otherwise ignored.
func (s *CachedEmbeddingService) store(ctx context.Context, cacheKey string, embedding []float32) {
	if s.cache == nil {
		return
	}
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(embedding); err != nil {
		s.logger.Error("Failed to gob encode embedding for caching", zap.Error(err), zap.String("cacheKey", cacheKey))
		return
	}
	if err := s.cache.Set(ctx, cacheKey, buffer.String(), s.ttl); err != nil {
		s.logger.Error("Failed to set embedding to cache", zap.Error(err), zap.String("cacheKey", cacheKey))
		return
	}
	s.logger.Debug("Embedding cached", zap.String("cacheKey", cacheKey), zap.Duration("ttl", s.ttl))
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
