package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"wikiquiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupArticleTestDB creates a new sqlx.DB instance and sqlmock for article repository testing.
func setupArticleTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var articleColumnNames = []string{"id", "url", "title", "structured_content", "quiz_payload", "created_at", "updated_at"}

func sampleArticle() *domain.Article {
	body := "Born in London."
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Article{
		ID:    "01HX0000000000000000000000",
		URL:   "https://en.wikipedia.org/wiki/Ada_Lovelace",
		Title: "Ada Lovelace",
		Content: domain.StructuredContent{
			Title: "Ada Lovelace",
			Sections: []domain.Section{
				{Heading: "Early Life", BodyText: &body, Subsections: []domain.Subsection{}},
				{Heading: "Career", Subsections: []domain.Subsection{{Heading: "Work", BodyText: "Notes."}}},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func articleRow(t *testing.T, a *domain.Article, quizPayload interface{}) *sqlmock.Rows {
	t.Helper()
	content, err := json.Marshal(a.Content)
	require.NoError(t, err)
	return sqlmock.NewRows(articleColumnNames).
		AddRow(a.ID, a.URL, a.Title, string(content), quizPayload, a.CreatedAt, a.UpdatedAt)
}

func TestArticleDatabaseAdapter_GetByURL(t *testing.T) {
	db, mock := setupArticleTestDB(t)
	defer db.Close()
	repo := NewArticleDatabaseAdapter(db)
	ctx := context.Background()
	article := sampleArticle()
	query := regexp.QuoteMeta(`FROM articles`) + `\s+WHERE url = \?`

	t.Run("found with placeholder quiz", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(article.URL).WillReturnRows(articleRow(t, article, EmptyQuizPayload))

		got, err := repo.GetByURL(ctx, article.URL)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, article.ID, got.ID)
		assert.Equal(t, article.Content, got.Content)
		assert.Nil(t, got.Content.Sections[1].BodyText)
		assert.False(t, got.HasQuiz())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("found with stored quiz", func(t *testing.T) {
		quiz := &domain.QuizOutput{Summary: "s", Mode: domain.DifficultyEasy, RelatedTopics: []string{"x"}}
		payload, err := json.Marshal(quiz)
		require.NoError(t, err)
		mock.ExpectQuery(query).WithArgs(article.URL).WillReturnRows(articleRow(t, article, string(payload)))

		got, err := repo.GetByURL(ctx, article.URL)
		require.NoError(t, err)
		require.True(t, got.HasQuiz())
		assert.Equal(t, domain.DifficultyEasy, got.Quiz.Mode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null quiz payload", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(article.URL).WillReturnRows(articleRow(t, article, nil))

		got, err := repo.GetByURL(ctx, article.URL)
		require.NoError(t, err)
		assert.False(t, got.HasQuiz())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		got, err := repo.GetByURL(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(article.URL).WillReturnError(errors.New("db down"))

		got, err := repo.GetByURL(ctx, article.URL)
		assert.Error(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestArticleDatabaseAdapter_GetByID(t *testing.T) {
	db, mock := setupArticleTestDB(t)
	defer db.Close()
	repo := NewArticleDatabaseAdapter(db)
	article := sampleArticle()

	mock.ExpectQuery(`FROM articles\s+WHERE id = \?`).WithArgs(article.ID).WillReturnRows(articleRow(t, article, "{}"))

	got, err := repo.GetByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.URL, got.URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleDatabaseAdapter_Create(t *testing.T) {
	db, mock := setupArticleTestDB(t)
	defer db.Close()
	repo := NewArticleDatabaseAdapter(db)
	ctx := context.Background()
	article := sampleArticle()

	t.Run("success stores placeholder quiz", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO articles`).
			WithArgs(article.ID, article.URL, article.Title, sqlmock.AnyArg(), EmptyQuizPayload, article.CreatedAt, article.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, repo.Create(ctx, article))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO articles`).WillReturnError(errors.New("ORA-00001: unique constraint violated"))

		err := repo.Create(ctx, article)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing id", func(t *testing.T) {
		bad := sampleArticle()
		bad.ID = ""
		assert.Error(t, repo.Create(ctx, bad))
	})
}

func TestArticleDatabaseAdapter_UpdateQuiz(t *testing.T) {
	db, mock := setupArticleTestDB(t)
	defer db.Close()
	repo := NewArticleDatabaseAdapter(db)
	ctx := context.Background()
	quiz := &domain.QuizOutput{Summary: "s", RelatedTopics: []string{"x"}}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE articles SET`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "id-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateQuiz(ctx, "id-1", quiz))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		mock.ExpectExec(`UPDATE articles SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateQuiz(ctx, "missing", quiz)
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestArticleDatabaseAdapter_ListHistory(t *testing.T) {
	db, mock := setupArticleTestDB(t)
	defer db.Close()
	repo := NewArticleDatabaseAdapter(db)

	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "url", "title", "created_at"}).
		AddRow("b", "https://en.wikipedia.org/wiki/B", "B", newer).
		AddRow("a", "https://en.wikipedia.org/wiki/A", "A", older)
	mock.ExpectQuery(`FROM articles\s+ORDER BY created_at DESC`).WillReturnRows(rows)

	items, err := repo.ListHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.True(t, items[0].CreatedAt.Equal(newer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManagerAdapter(t *testing.T) {
	db, mock := setupArticleTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)
	repo := NewArticleDatabaseAdapter(db)
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO articles`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := tm.WithTransaction(ctx, func(txCtx context.Context) error {
			return repo.Create(txCtx, sampleArticle())
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := tm.WithTransaction(ctx, func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
