package handler

import (
	"wikiquiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the health check and the /api group on app.
func RegisterRoutes(app *fiber.App, articles *ArticleHandler, health *HealthHandler) {
	vm := middleware.NewValidationMiddleware()

	app.Get("/health", health.Check)

	api := app.Group("/api")
	api.Post("/articles", articles.CreateArticle)
	api.Get("/articles/:id", vm.ValidateArticleID(), articles.GetArticle)
	api.Put("/quizzes", articles.GenerateQuiz)
	api.Get("/quizzes/:id", vm.ValidateArticleID(), articles.GetQuiz)
	api.Get("/history", articles.ListHistory)
	api.Post("/summary", articles.Summarize)
}
