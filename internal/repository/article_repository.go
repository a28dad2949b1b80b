package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// EmptyQuizPayload is stored in quiz_payload until a quiz is generated.
const EmptyQuizPayload = "{}"

const articleColumns = `
		id "id",
		url "url",
		title "title",
		structured_content "structured_content",
		quiz_payload "quiz_payload",
		created_at "created_at",
		updated_at "updated_at"`

// ArticleDatabaseAdapter implements domain.ArticleRepository using sqlx.
type ArticleDatabaseAdapter struct {
	db DBTX
}

// NewArticleDatabaseAdapter creates a new instance of ArticleDatabaseAdapter
func NewArticleDatabaseAdapter(db *sqlx.DB) domain.ArticleRepository {
	return &ArticleDatabaseAdapter{db: db}
}

// GetByURL implements domain.ArticleRepository
func (a *ArticleDatabaseAdapter) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	return a.getOne(ctx, "url", url)
}

// GetByID implements domain.ArticleRepository
func (a *ArticleDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return a.getOne(ctx, "id", id)
}

func (a *ArticleDatabaseAdapter) getOne(ctx context.Context, column, value string) (*domain.Article, error) {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`SELECT` + articleColumns + `
	FROM articles
	WHERE ` + column + ` = ?`)

	var row models.Article
	if err := exec.GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article by %s: %w", column, err)
	}
	return toDomainArticle(&row)
}

// Create implements domain.ArticleRepository. ID and timestamps are filled
// in by the caller.
func (a *ArticleDatabaseAdapter) Create(ctx context.Context, article *domain.Article) error {
	row, err := toModelArticle(article)
	if err != nil {
		return err
	}

	query := `INSERT INTO articles (
		id, url, title, structured_content, quiz_payload, created_at, updated_at
	) VALUES (
		:id, :url, :title, :structured_content, :quiz_payload, :created_at, :updated_at
	)`

	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// UpdateQuiz implements domain.ArticleRepository
func (a *ArticleDatabaseAdapter) UpdateQuiz(ctx context.Context, id string, quiz *domain.QuizOutput) error {
	payload, err := encodeQuiz(quiz)
	if err != nil {
		return err
	}

	query := `UPDATE articles SET
		quiz_payload = :quiz_payload,
		updated_at = :updated_at
	WHERE id = :id`

	args := map[string]interface{}{
		"id":           id,
		"quiz_payload": payload,
		"updated_at":   time.Now().UTC(),
	}
	result, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to update quiz for article %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("article %s not found", id))
	}
	return nil
}

// ListHistory implements domain.ArticleRepository
func (a *ArticleDatabaseAdapter) ListHistory(ctx context.Context) ([]domain.HistoryItem, error) {
	query := `SELECT
		id "id",
		url "url",
		title "title",
		created_at "created_at"
	FROM articles
	ORDER BY created_at DESC, id DESC`

	var rows []models.ArticleHistory
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list article history: %w", err)
	}

	items := make([]domain.HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.HistoryItem{
			ID:        r.ID,
			URL:       r.URL,
			Title:     r.Title,
			CreatedAt: r.CreatedAt,
		})
	}
	return items, nil
}

func toModelArticle(article *domain.Article) (*models.Article, error) {
	if article == nil {
		return nil, fmt.Errorf("cannot save nil article")
	}
	if article.ID == "" {
		return nil, fmt.Errorf("cannot save article with empty ID")
	}
	content, err := json.Marshal(article.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode structured content: %w", err)
	}
	payload, err := encodeQuiz(article.Quiz)
	if err != nil {
		return nil, err
	}
	return &models.Article{
		ID:                article.ID,
		URL:               article.URL,
		Title:             article.Title,
		StructuredContent: string(content),
		QuizPayload:       sql.NullString{String: payload, Valid: true},
		CreatedAt:         article.CreatedAt,
		UpdatedAt:         article.UpdatedAt,
	}, nil
}

func toDomainArticle(row *models.Article) (*domain.Article, error) {
	article := &domain.Article{
		ID:        row.ID,
		URL:       row.URL,
		Title:     row.Title,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.StructuredContent), &article.Content); err != nil {
		return nil, fmt.Errorf("failed to decode structured content of article %s: %w", row.ID, err)
	}
	quiz, err := decodeQuiz(row.QuizPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode quiz of article %s: %w", row.ID, err)
	}
	article.Quiz = quiz
	return article, nil
}

func encodeQuiz(quiz *domain.QuizOutput) (string, error) {
	if quiz == nil {
		return EmptyQuizPayload, nil
	}
	b, err := json.Marshal(quiz)
	if err != nil {
		return "", fmt.Errorf("failed to encode quiz: %w", err)
	}
	return string(b), nil
}

// decodeQuiz returns nil for NULL, empty and placeholder payloads.
func decodeQuiz(payload sql.NullString) (*domain.QuizOutput, error) {
	raw := strings.TrimSpace(payload.String)
	if !payload.Valid || raw == "" || raw == EmptyQuizPayload {
		return nil, nil
	}
	var quiz domain.QuizOutput
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}
