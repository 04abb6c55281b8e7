package api

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"taskpad/internal/auth"
)

// Logger prints one line per request.
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log.Println(c.Method(), c.Path())
		return c.Next()
	}
}

// SetupRoutes registers the whole HTTP surface. Every route is gated on a
// verified token; session-less calls fail with a conflict until POST
// /api/session ran.
func SetupRoutes(app *fiber.App, h *Handler, verifier *auth.Verifier) {
	app.Use(Logger())

	api := app.Group("/api", auth.Middleware(verifier))

	api.Post("/session", h.SignIn)
	api.Delete("/session", h.SignOut)
	api.Post("/rollover", h.CheckRollover)

	stats := api.Group("/stats")
	stats.Get("/daily", h.GetDailyStats)
	stats.Get("/categories", h.GetCategoryStats)

	api.Get("/history", h.GetHistory)

	tasks := api.Group("/tasks")
	tasks.Get("/", h.GetTasks)
	tasks.Post("/", h.CreateTask)
	tasks.Put("/reorder", h.ReorderTasks)
	tasks.Post("/:id/toggle", h.ToggleTask)
	tasks.Delete("/:id", h.DeleteTask)

	categories := api.Group("/categories")
	categories.Get("/", h.GetCategories)
	categories.Post("/", h.CreateCategory)
	categories.Put("/reorder", h.ReorderCategories)
	categories.Put("/:id", h.RenameCategory)
	categories.Delete("/:id", h.DeleteCategory)

	notes := api.Group("/notes")
	notes.Get("/", h.GetNotes)
	notes.Post("/", h.CreateNote)
	notes.Put("/:id", h.UpdateNote)
	notes.Delete("/:id", h.DeleteNote)
}
