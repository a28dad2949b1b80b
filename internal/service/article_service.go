package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/util"
	"wikiquiz/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultSummaryTTL = 24 * time.Hour

// ArticleService defines the article and quiz operations exposed to handlers.
type ArticleService interface {
	GetOrCreateStructured(ctx context.Context, url string) (*domain.Article, error)
	GetOrCreateQuiz(ctx context.Context, req domain.QuizRequest) (*domain.QuizOutput, error)
	ListHistory(ctx context.Context) ([]domain.HistoryItem, error)
	GetQuizByID(ctx context.Context, id string) (*domain.QuizRecord, error)
	GetArticleByID(ctx context.Context, id string) (*domain.Article, error)
	GetSummary(ctx context.Context, url string) (*domain.SummaryResult, error)
}

// articleService implements ArticleService as a read-through layer over the
// article store.
type articleService struct {
	repo          domain.ArticleRepository
	txManager     domain.TransactionManager
	fetcher       domain.MarkupFetcher
	structurer    domain.DocumentStructurer
	generator     domain.QuizGenerator
	summarizer    domain.SummaryGenerator
	quizValidator *validation.QuizValidator
	cache         domain.Cache
	summaryTTL    time.Duration
	sfGroup       singleflight.Group
}

// NewArticleService creates a new ArticleService. cache and summarizer may be nil.
func NewArticleService(
	repo domain.ArticleRepository,
	txManager domain.TransactionManager,
	fetcher domain.MarkupFetcher,
	structurer domain.DocumentStructurer,
	generator domain.QuizGenerator,
	summarizer domain.SummaryGenerator,
	cache domain.Cache,
	cfg *config.Config,
) ArticleService {
	maxEntities := 5
	summaryTTL := DefaultSummaryTTL
	if cfg != nil {
		if cfg.Quiz.MaxEntities > 0 {
			maxEntities = cfg.Quiz.MaxEntities
		}
		summaryTTL = cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Summary, DefaultSummaryTTL)
	}
	return &articleService{
		repo:          repo,
		txManager:     txManager,
		fetcher:       fetcher,
		structurer:    structurer,
		generator:     generator,
		summarizer:    summarizer,
		quizValidator: validation.NewQuizValidator(maxEntities),
		cache:         cache,
		summaryTTL:    summaryTTL,
	}
}

// GetOrCreateStructured returns the stored article for url, fetching and
// structuring it on first request.
func (s *articleService) GetOrCreateStructured(ctx context.Context, url string) (*domain.Article, error) {
	article, err := s.repo.GetByURL(ctx, url)
	if err != nil {
		return nil, domain.NewStorageError("Failed to look up article", err)
	}
	if article != nil {
		logger.Get().Debug("Article cache hit", zap.String("url", url), zap.String("id", article.ID))
		return article, nil
	}

	v, err := s.share(ctx, "article:"+url, func(flightCtx context.Context) (interface{}, error) {
		// A concurrent caller may have stored it while we waited.
		existing, err := s.repo.GetByURL(flightCtx, url)
		if err != nil {
			return nil, domain.NewStorageError("Failed to look up article", err)
		}
		if existing != nil {
			return existing, nil
		}
		return s.scrapeAndStore(flightCtx, url)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Article), nil
}

func (s *articleService) scrapeAndStore(ctx context.Context, url string) (*domain.Article, error) {
	markup, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, asDomainError(err, "Failed to fetch article")
	}
	content, err := s.structurer.Structure(bytes.NewReader(markup))
	if err != nil {
		return nil, asDomainError(err, "Failed to structure article")
	}

	now := time.Now().UTC()
	article := &domain.Article{
		ID:        util.NewULID(),
		URL:       url,
		Title:     content.Title,
		Content:   *content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, article)
	})
	if err != nil {
		return nil, asStorageError(err, "Failed to store article")
	}

	logger.Get().Info("Stored new article",
		zap.String("url", url),
		zap.String("id", article.ID),
		zap.Int("sections", len(article.Content.Sections)),
	)
	return article, nil
}

// GetOrCreateQuiz returns the stored quiz when it was generated with the
// same mode and section filter, and generates a new one otherwise. The
// article must already be stored.
func (s *articleService) GetOrCreateQuiz(ctx context.Context, req domain.QuizRequest) (*domain.QuizOutput, error) {
	mode := req.Difficulty
	if mode == "" {
		mode = domain.DifficultyMedium
	}
	if !mode.Valid() {
		return nil, domain.NewInvalidInputError("Unknown difficulty " + string(req.Difficulty))
	}

	article, err := s.repo.GetByURL(ctx, req.URL)
	if err != nil {
		return nil, domain.NewStorageError("Failed to look up article", err)
	}
	if article == nil {
		return nil, domain.NewNotFoundError("No article stored for " + req.URL)
	}

	if !req.Regenerate && article.HasQuiz() && article.Quiz.GeneratedWith(mode, req.Sections) {
		logger.Get().Debug("Quiz cache hit", zap.String("url", req.URL), zap.String("mode", string(mode)))
		return article.Quiz, nil
	}

	v, err := s.share(ctx, quizFlightKey(req.URL, mode, req.Sections), func(flightCtx context.Context) (interface{}, error) {
		current := article
		if !req.Regenerate {
			// The previous flight for this key may have just stored a matching quiz.
			stored, err := s.repo.GetByURL(flightCtx, req.URL)
			if err != nil {
				return nil, domain.NewStorageError("Failed to look up article", err)
			}
			if stored != nil {
				if stored.HasQuiz() && stored.Quiz.GeneratedWith(mode, req.Sections) {
					return stored.Quiz, nil
				}
				current = stored
			}
		}
		return s.generateAndStore(flightCtx, current, mode, req.Sections)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.QuizOutput), nil
}

func (s *articleService) generateAndStore(ctx context.Context, article *domain.Article, mode domain.Difficulty, sections []string) (*domain.QuizOutput, error) {
	text := domain.JoinSectionText(article.Content.FilterSections(sections))
	if text == "" {
		logger.Get().Warn("Section filter produced no text",
			zap.String("url", article.URL),
			zap.Strings("sections", sections),
		)
	}

	quiz, err := s.generator.Generate(ctx, domain.GenerationRequest{
		Title:    article.Title,
		Text:     text,
		Mode:     mode,
		Sections: sections,
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewGenerationError(err)
	}

	if err := s.quizValidator.Validate(quiz, mode); err != nil {
		logger.Get().Warn("Generated quiz rejected",
			zap.String("url", article.URL),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return nil, err
	}

	quiz.ID = article.ID
	quiz.URL = article.URL
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateQuiz(txCtx, article.ID, quiz)
	})
	if err != nil {
		return nil, asStorageError(err, "Failed to store quiz")
	}

	logger.Get().Info("Stored generated quiz",
		zap.String("url", article.URL),
		zap.String("mode", string(mode)),
		zap.String("mix", quiz.CountByDifficulty().String()),
	)
	return quiz, nil
}

// ListHistory implements ArticleService
func (s *articleService) ListHistory(ctx context.Context) ([]domain.HistoryItem, error) {
	items, err := s.repo.ListHistory(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to list history", err)
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	return items, nil
}

// GetQuizByID implements ArticleService. Quiz is nil when none has been generated.
func (s *articleService) GetQuizByID(ctx context.Context, id string) (*domain.QuizRecord, error) {
	article, err := s.GetArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.QuizRecord{ID: article.ID, Title: article.Title, Quiz: article.Quiz}, nil
}

// GetArticleByID implements ArticleService
func (s *articleService) GetArticleByID(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewStorageError("Failed to get article", err)
	}
	if article == nil {
		return nil, domain.NewNotFoundError("Article " + id + " not found")
	}
	return article, nil
}

// GetSummary returns key points for the article at url, scraping it first if
// needed. Results are cached per URL.
func (s *articleService) GetSummary(ctx context.Context, url string) (*domain.SummaryResult, error) {
	if s.summarizer == nil {
		return nil, domain.NewInternalError("Summary generation is not configured", nil)
	}

	key := cache.GenerateCacheKey("summary", "article", hashURL(url))
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var result domain.SummaryResult
			jsonErr := json.Unmarshal([]byte(cached), &result)
			if jsonErr == nil {
				logger.Get().Debug("Summary cache hit", zap.String("url", url))
				return &result, nil
			}
			logger.Get().Warn("Dropping unreadable cached summary", zap.String("key", key), zap.Error(jsonErr))
		case errors.Is(err, domain.ErrCacheMiss):
		default:
			logger.Get().Warn("Summary cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	article, err := s.GetOrCreateStructured(ctx, url)
	if err != nil {
		return nil, err
	}

	points, err := s.summarizer.Summarize(ctx, article.Title, domain.JoinSectionText(article.Content.Sections))
	if err != nil {
		return nil, asDomainError(err, "Failed to summarize article")
	}
	result := &domain.SummaryResult{Title: article.Title, Points: points}

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.summaryTTL); err != nil {
				logger.Get().Warn("Summary cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return result, nil
}

// share runs fn once per key across concurrent callers. fn gets a context
// detached from the caller's cancellation so one caller giving up does not
// fail the others; each caller still returns early when its own ctx ends.
func (s *articleService) share(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := s.sfGroup.DoChan(key, func() (interface{}, error) {
		return fn(flightCtx)
	})
	select {
	case res := <-ch:
		if res.Shared {
			logger.Get().Debug("Request shared with in-flight work", zap.String("key", key))
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, domain.NewInternalError("Request cancelled while waiting for "+key, ctx.Err())
	}
}

func quizFlightKey(url string, mode domain.Difficulty, sections []string) string {
	normalized := domain.NormalizeSectionSelection(sections)
	sort.Strings(normalized)
	return "quiz:" + url + "|" + string(mode) + "|" + strings.Join(normalized, ",")
}

func hashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// asDomainError keeps domain errors as they are and wraps anything else as internal.
func asDomainError(err error, message string) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewInternalError(message, err)
}

// asStorageError keeps domain errors as they are and wraps anything else as a storage error.
func asStorageError(err error, message string) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewStorageError(message, err)
}
