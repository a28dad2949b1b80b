package handler

import (
	"strings"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/middleware"
	"wikiquiz/internal/service"
	"wikiquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ArticleHandler handles article, quiz and summary HTTP requests
type ArticleHandler struct {
	service   service.ArticleService
	validator *validation.Validator
}

// NewArticleHandler creates a new ArticleHandler instance
func NewArticleHandler(service service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateArticle godoc
// @Summary Scrape or fetch a stored article
// @Description Returns the stored article for the URL, scraping and structuring it on first request
// @Tags articles
// @Accept json
// @Produce json
// @Param request body dto.ArticleRequest true "Article URL"
// @Success 200 {object} dto.ArticleResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with a url field")
	}
	url := strings.TrimSpace(req.URL)
	if errs := h.validator.ValidateArticleURL(url); len(errs) > 0 {
		return errs
	}

	article, err := h.service.GetOrCreateStructured(c.UserContext(), url)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewArticleResponse(article))
}

// GetArticle godoc
// @Summary Get an article
// @Description Returns the full structured content of a stored article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} dto.ArticleDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) GetArticle(c *fiber.Ctx) error {
	id := c.Locals(middleware.ValidatedIDKey).(string)
	article, err := h.service.GetArticleByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewArticleDetailResponse(article))
}

// GenerateQuiz godoc
// @Summary Generate or fetch a quiz
// @Description Returns the stored quiz when it matches the requested difficulty and sections, otherwise generates a new one
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.QuizRequest true "Quiz options"
// @Success 200 {object} domain.QuizOutput
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes [put]
func (h *ArticleHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with url and difficulty fields")
	}
	url := strings.TrimSpace(req.URL)
	if errs := h.validator.ValidateQuizRequest(url, req.Difficulty, req.Sections); len(errs) > 0 {
		return errs
	}
	mode, _ := domain.ParseDifficulty(req.Difficulty)

	quiz, err := h.service.GetOrCreateQuiz(c.UserContext(), domain.QuizRequest{
		URL:        url,
		Difficulty: mode,
		Sections:   req.Sections,
		Regenerate: req.Regenerate,
	})
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// GetQuiz godoc
// @Summary Get a stored quiz
// @Description Returns the article title and its stored quiz; quiz_data is {} before generation
// @Tags quizzes
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} dto.QuizRecordResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *ArticleHandler) GetQuiz(c *fiber.Ctx) error {
	id := c.Locals(middleware.ValidatedIDKey).(string)
	record, err := h.service.GetQuizByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizRecordResponse(record))
}

// ListHistory godoc
// @Summary List stored articles
// @Description Returns every stored article, newest first
// @Tags history
// @Produce json
// @Success 200 {array} dto.HistoryItemResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /history [get]
func (h *ArticleHandler) ListHistory(c *fiber.Ctx) error {
	items, err := h.service.ListHistory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewHistoryResponse(items))
}

// Summarize godoc
// @Summary Summarize an article
// @Description Returns key points extracted from the article
// @Tags articles
// @Accept json
// @Produce json
// @Param request body dto.ArticleRequest true "Article URL"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /summary [post]
func (h *ArticleHandler) Summarize(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with a url field")
	}
	url := strings.TrimSpace(req.URL)
	if errs := h.validator.ValidateArticleURL(url); len(errs) > 0 {
		return errs
	}

	result, err := h.service.GetSummary(c.UserContext(), url)
	if err != nil {
		logger.Get().Warn("Summary request failed", zap.String("url", url), zap.Error(err))
		return err
	}
	return c.JSON(dto.SummaryResponse{Title: result.Title, Points: result.Points})
}
