package service

import (
	"context"
	"io"
	"time"

	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockArticleRepository ---
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) UpdateQuiz(ctx context.Context, id string, quiz *domain.QuizOutput) error {
	args := m.Called(ctx, id, quiz)
	return args.Error(0)
}

func (m *MockArticleRepository) ListHistory(ctx context.Context) ([]domain.HistoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryItem), args.Error(1)
}

// --- passthroughTxManager ---
// Runs fn directly and counts transactions.
type passthroughTxManager struct {
	calls int
}

func (p *passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// --- MockFetcher ---
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- MockStructurer ---
type MockStructurer struct {
	mock.Mock
}

func (m *MockStructurer) Structure(r io.Reader) (*domain.StructuredContent, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StructuredContent), args.Error(1)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.QuizOutput, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizOutput), args.Error(1)
}

// --- MockSummaryGenerator ---
type MockSummaryGenerator struct {
	mock.Mock
}

func (m *MockSummaryGenerator) Summarize(ctx context.Context, title, content string) ([]string, error) {
	args := m.Called(ctx, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Ensure all required methods for interfaces are present in the mocks
var _ domain.ArticleRepository = (*MockArticleRepository)(nil)
var _ domain.TransactionManager = (*passthroughTxManager)(nil)
var _ domain.MarkupFetcher = (*MockFetcher)(nil)
var _ domain.DocumentStructurer = (*MockStructurer)(nil)
var _ domain.QuizGenerator = (*MockQuizGenerator)(nil)
var _ domain.SummaryGenerator = (*MockSummaryGenerator)(nil)
var _ domain.Cache = (*MockCache)(nil)
