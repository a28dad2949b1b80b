package dto

import (
	"time"

	"wikiquiz/internal/domain"
)

// ArticleRequest is the body of POST /api/articles and POST /api/summary
// @Description Request body carrying a Wikipedia article URL
type ArticleRequest struct {
	URL string `json:"url" example:"https://en.wikipedia.org/wiki/Alan_Turing"`
}

// ArticleResponse is returned after an article has been scraped or found
// @Description Stored article with its top-level headings
type ArticleResponse struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

// ArticleDetailResponse carries the full structured content of an article
type ArticleDetailResponse struct {
	ID        string           `json:"id"`
	URL       string           `json:"url"`
	Title     string           `json:"title"`
	Sections  []domain.Section `json:"sections"`
	HasQuiz   bool             `json:"has_quiz"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// QuizRequest is the body of PUT /api/quizzes
// @Description Quiz generation options
type QuizRequest struct {
	URL        string   `json:"url" example:"https://en.wikipedia.org/wiki/Alan_Turing"`
	Difficulty string   `json:"difficulty" example:"medium"`
	Sections   []string `json:"sections,omitempty"`
	Regenerate bool     `json:"regenerate,omitempty"`
}

// QuizRecordResponse is returned by GET /api/quizzes/:id. QuizData is an
// empty object until a quiz has been generated.
type QuizRecordResponse struct {
	Title    string      `json:"title"`
	QuizData interface{} `json:"quiz_data"`
}

// HistoryItemResponse is one entry of GET /api/history
type HistoryItemResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryResponse is returned by POST /api/summary
type SummaryResponse struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// NewArticleResponse maps a stored article to its summary response.
func NewArticleResponse(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:       a.ID,
		URL:      a.URL,
		Title:    a.Title,
		Sections: a.Content.Headings(),
	}
}

// NewArticleDetailResponse maps a stored article to its detail response.
func NewArticleDetailResponse(a *domain.Article) ArticleDetailResponse {
	sections := a.Content.Sections
	if sections == nil {
		sections = []domain.Section{}
	}
	return ArticleDetailResponse{
		ID:        a.ID,
		URL:       a.URL,
		Title:     a.Title,
		Sections:  sections,
		HasQuiz:   a.HasQuiz(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewQuizRecordResponse maps a quiz record, using {} for a missing quiz.
func NewQuizRecordResponse(r *domain.QuizRecord) QuizRecordResponse {
	var data interface{} = struct{}{}
	if r.Quiz != nil {
		data = r.Quiz
	}
	return QuizRecordResponse{Title: r.Title, QuizData: data}
}

// NewHistoryResponse maps history items, never returning nil.
func NewHistoryResponse(items []domain.HistoryItem) []HistoryItemResponse {
	out := make([]HistoryItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, HistoryItemResponse{
			ID:        it.ID,
			URL:       it.URL,
			Title:     it.Title,
			CreatedAt: it.CreatedAt,
		})
	}
	return out
}
