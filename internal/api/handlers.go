package api

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskpad/internal/auth"
	"taskpad/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	tasks    *service.TaskService
	notes    *service.NoteService
	notifier *auth.Notifier
}

func NewHandler(tasks *service.TaskService, notes *service.NoteService, notifier *auth.Notifier) *Handler {
	return &Handler{tasks: tasks, notes: notes, notifier: notifier}
}

type signInRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
}

// SignIn opens a session for the verified user and announces the sign-in.
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}

	userID := auth.CurrentUser(c)
	sess, err := h.tasks.SignIn(c.Context(), userID, service.SignInInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Timezone:    req.Timezone,
	})
	if err != nil {
		return respondError(c, err)
	}

	h.notifier.Publish(auth.Event{Type: auth.SignedIn, UserID: userID})
	return c.JSON(fiber.Map{
		"user_id":  sess.UserID,
		"timezone": sess.Location.String(),
	})
}

// SignOut announces the sign-out; the composition root tears the session
// down through its notifier subscription.
func (h *Handler) SignOut(c *fiber.Ctx) error {
	h.notifier.Publish(auth.Event{Type: auth.SignedOut, UserID: auth.CurrentUser(c)})
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckRollover is the explicit foreground-activation trigger.
func (h *Handler) CheckRollover(c *fiber.Ctx) error {
	if err := h.tasks.CheckRollover(c.Context(), auth.CurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetDailyStats(c *fiber.Ctx) error {
	stats, err := h.tasks.DailyStats(c.Context(), auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *Handler) GetCategoryStats(c *fiber.Ctx) error {
	stats, err := h.tasks.CategoryStats(c.Context(), auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *Handler) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "30"))
	entries, err := h.tasks.History(c.Context(), auth.CurrentUser(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (h *Handler) GetTasks(c *fiber.Ctx) error {
	tasks, err := h.tasks.Tasks(c.Context(), auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

type addTaskRequest struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	IsDaily    bool   `json:"is_daily"`
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	var req addTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	task, err := h.tasks.AddTask(c.Context(), auth.CurrentUser(c), service.AddTaskInput{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		IsDaily:    req.IsDaily,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *Handler) ToggleTask(c *fiber.Ctx) error {
	task, err := h.tasks.ToggleTask(c.Context(), auth.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.DeleteTask(c.Context(), auth.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type reorderTasksRequest struct {
	CategoryID string   `json:"category_id"`
	TaskIDs    []string `json:"task_ids"`
}

func (h *Handler) ReorderTasks(c *fiber.Ctx) error {
	var req reorderTasksRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	if err := h.tasks.ReorderTasks(c.Context(), auth.CurrentUser(c), req.CategoryID, req.TaskIDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.tasks.Categories(c.Context(), auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

type categoryRequest struct {
	Title string `json:"title"`
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	category, err := h.tasks.AddCategory(c.Context(), auth.CurrentUser(c), service.AddCategoryInput{Title: req.Title})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *Handler) RenameCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	err := h.tasks.RenameCategory(c.Context(), auth.CurrentUser(c), c.Params("id"), service.AddCategoryInput{Title: req.Title})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type reorderCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}

func (h *Handler) ReorderCategories(c *fiber.Ctx) error {
	var req reorderCategoriesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	if err := h.tasks.ReorderCategories(c.Context(), auth.CurrentUser(c), req.CategoryIDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.tasks.DeleteCategory(c.Context(), auth.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) GetNotes(c *fiber.Ctx) error {
	notes, err := h.notes.List(c.Context(), auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notes)
}

func (h *Handler) CreateNote(c *fiber.Ctx) error {
	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	note, err := h.notes.Create(c.Context(), auth.CurrentUser(c), service.NoteInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (h *Handler) UpdateNote(c *fiber.Ctx) error {
	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	note, err := h.notes.Update(c.Context(), auth.CurrentUser(c), c.Params("id"), service.NoteInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(note)
}

func (h *Handler) DeleteNote(c *fiber.Ctx) error {
	if err := h.notes.Delete(c.Context(), auth.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is a backend failure: local state was left unchanged, the
// caller may retry.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrNoSession):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "no active session, sign in first"})
	case errors.Is(err, service.ErrSessionClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "session closed"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	default:
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "backend unavailable"})
	}
}
