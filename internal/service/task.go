package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"taskpad/internal/model"
	"taskpad/internal/repository"
)

// TaskService exposes the operations the UI layer calls: sign-in/out, task
// and category mutations, and the derived stats reads. Every mutation
// resolves only after the remote write confirmed and the session store was
// updated; within one session, rollover runs before stats, and stats before
// the history snapshot.
type TaskService struct {
	sessions   *SessionManager
	rollover   *RolloverEngine
	history    *HistoryService
	users      *repository.UserRepository
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
	validate   *validator.Validate

	now func() time.Time
}

func NewTaskService(
	sessions *SessionManager,
	rollover *RolloverEngine,
	history *HistoryService,
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	categories *repository.CategoryRepository,
) *TaskService {
	return &TaskService{
		sessions:   sessions,
		rollover:   rollover,
		history:    history,
		users:      users,
		tasks:      tasks,
		categories: categories,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// SignInInput carries the profile claims of a verified sign-in plus the
// device's IANA timezone, which anchors all calendar-day decisions for the
// session.
type SignInInput struct {
	Email       string `validate:"omitempty,email"`
	DisplayName string `validate:"max=100"`
	Timezone    string `validate:"max=64"`
}

type AddTaskInput struct {
	CategoryID string `validate:"required"`
	Title      string `validate:"required,max=200"`
	IsDaily    bool
}

type AddCategoryInput struct {
	Title string `validate:"required,max=100"`
}

type NoteInput struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"max=10000"`
}

// SignIn upserts the user row, opens a fresh session, loads the remote rows
// into the store and runs the first rollover check of the session.
func (s *TaskService) SignIn(ctx context.Context, userID string, in SignInInput) (*Session, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	loc := time.Local
	if in.Timezone != "" {
		parsed, err := time.LoadLocation(in.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrValidation, in.Timezone)
		}
		loc = parsed
	}

	if _, err := s.users.Upsert(ctx, userID, in.Email, in.DisplayName); err != nil {
		return nil, err
	}

	sess := s.sessions.Open(userID, loc)
	sess.lock()
	defer sess.unlock()

	if err := s.rollover.reload(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.rollover.Check(ctx, sess, s.now()); err != nil {
		// Deferred to the next check; sign-in itself still succeeds.
		log.Printf("rollover on sign-in for %s: %v", userID, err)
	}
	return sess, nil
}

// SignOut closes the user's session and clears its store.
func (s *TaskService) SignOut(userID string) {
	s.sessions.Close(userID)
}

// CheckRollover runs the daily reset for one signed-in user. Safe to call on
// any trigger (foreground, schedule); it is a no-op when the reset already
// ran for the current local date.
func (s *TaskService) CheckRollover(ctx context.Context, userID string) error {
	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	sess.lock()
	defer sess.unlock()
	return s.rollover.Check(ctx, sess, s.now())
}

// DailyStats returns whole-day completion figures, post-rollover.
func (s *TaskService) DailyStats(ctx context.Context, userID string) (model.DailyStats, error) {
	sess, err := s.session(userID)
	if err != nil {
		return model.DailyStats{}, err
	}
	sess.lock()
	defer sess.unlock()
	if err := s.rollover.Check(ctx, sess, s.now()); err != nil {
		return model.DailyStats{}, err
	}
	return ComputeDailyStats(sess.store.Tasks()), nil
}

// CategoryStats returns per-category figures in category order, post-rollover.
func (s *TaskService) CategoryStats(ctx context.Context, userID string) ([]model.CategoryStats, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()
	if err := s.rollover.Check(ctx, sess, s.now()); err != nil {
		return nil, err
	}
	return ComputeCategoryStats(sess.store.Categories(), sess.store.Tasks()), nil
}

// Tasks returns the session's current task list.
func (s *TaskService) Tasks(ctx context.Context, userID string) ([]model.Task, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()
	if err := s.rollover.Check(ctx, sess, s.now()); err != nil {
		return nil, err
	}
	return sess.store.Tasks(), nil
}

// Categories returns the session's categories in position order.
func (s *TaskService) Categories(ctx context.Context, userID string) ([]model.Category, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()
	return sess.store.Categories(), nil
}

// AddTask creates a task in an existing category owned by the user.
func (s *TaskService) AddTask(ctx context.Context, userID string, in AddTaskInput) (*model.Task, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	if err := s.rollover.Check(ctx, sess, s.now()); err != nil {
		return nil, err
	}

	if _, ok := sess.store.Category(in.CategoryID); !ok {
		return nil, fmt.Errorf("%w: no such category %q", ErrValidation, in.CategoryID)
	}

	task := model.Task{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		IsDaily:    in.IsDaily,
		Position:   len(sess.store.Tasks()),
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	if sess.Closed() {
		return nil, ErrSessionClosed
	}
	sess.store.UpsertTask(task)

	s.snapshot(ctx, sess)
	return &task, nil
}

// ToggleTask flips a task's completion flag and stamps the completion time.
func (s *TaskService) ToggleTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	if err := s.rollover.Check(ctx, sess, s.now()); err != nil {
		return nil, err
	}

	task, ok := sess.store.Task(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: no such task %q", ErrValidation, taskID)
	}

	if err := s.tasks.SetCompletion(ctx, &task, !task.IsCompleted, s.now()); err != nil {
		return nil, err
	}
	if sess.Closed() {
		return nil, ErrSessionClosed
	}
	sess.store.UpsertTask(task)

	s.snapshot(ctx, sess)
	return &task, nil
}

// DeleteTask removes a task remotely, then from the store.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	sess.lock()
	defer sess.unlock()

	if err := s.rollover.Check(ctx, sess, s.now()); err != nil {
		return err
	}
	if _, ok := sess.store.Task(taskID); !ok {
		return fmt.Errorf("%w: no such task %q", ErrValidation, taskID)
	}

	if err := s.tasks.Delete(ctx, userID, taskID); err != nil {
		return err
	}
	if sess.Closed() {
		return ErrSessionClosed
	}
	sess.store.RemoveTask(taskID)

	s.snapshot(ctx, sess)
	return nil
}

// ReorderTasks persists a new task order within one category. Order is
// written remotely, not kept as a local-only arrangement that a reload would
// silently drop.
func (s *TaskService) ReorderTasks(ctx context.Context, userID, categoryID string, orderedIDs []string) error {
	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	sess.lock()
	defer sess.unlock()

	if _, ok := sess.store.Category(categoryID); !ok {
		return fmt.Errorf("%w: no such category %q", ErrValidation, categoryID)
	}

	if err := s.tasks.Reorder(ctx, userID, categoryID, orderedIDs); err != nil {
		return err
	}
	if sess.Closed() {
		return ErrSessionClosed
	}
	for pos, id := range orderedIDs {
		if task, ok := sess.store.Task(id); ok && task.CategoryID == categoryID {
			task.Position = pos
			sess.store.UpsertTask(task)
		}
	}
	return nil
}

// AddCategory appends a category at the end of the user's list.
func (s *TaskService) AddCategory(ctx context.Context, userID string, in AddCategoryInput) (*model.Category, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	category := model.Category{
		UserID:   userID,
		Title:    in.Title,
		Position: len(sess.store.Categories()),
	}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, err
	}
	if sess.Closed() {
		return nil, ErrSessionClosed
	}
	sess.store.UpsertCategory(category)
	return &category, nil
}

// RenameCategory updates a category title.
func (s *TaskService) RenameCategory(ctx context.Context, userID, categoryID string, in AddCategoryInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	sess.lock()
	defer sess.unlock()

	category, ok := sess.store.Category(categoryID)
	if !ok {
		return fmt.Errorf("%w: no such category %q", ErrValidation, categoryID)
	}

	if err := s.categories.Rename(ctx, userID, categoryID, in.Title); err != nil {
		return err
	}
	if sess.Closed() {
		return ErrSessionClosed
	}
	category.Title = in.Title
	sess.store.UpsertCategory(category)
	return nil
}

// ReorderCategories persists a new category order; stored positions become
// 0..n-1 following the given sequence.
func (s *TaskService) ReorderCategories(ctx context.Context, userID string, orderedIDs []string) error {
	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	sess.lock()
	defer sess.unlock()

	for _, id := range orderedIDs {
		if _, ok := sess.store.Category(id); !ok {
			return fmt.Errorf("%w: no such category %q", ErrValidation, id)
		}
	}

	if err := s.categories.Reorder(ctx, userID, orderedIDs); err != nil {
		return err
	}
	if sess.Closed() {
		return ErrSessionClosed
	}
	for pos, id := range orderedIDs {
		if category, ok := sess.store.Category(id); ok {
			category.Position = pos
			sess.store.UpsertCategory(category)
		}
	}
	return nil
}

// DeleteCategory removes a category; its tasks cascade both remotely and in
// the store.
func (s *TaskService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	sess, err := s.session(userID)
	if err != nil {
		return err
	}
	sess.lock()
	defer sess.unlock()

	if _, ok := sess.store.Category(categoryID); !ok {
		return fmt.Errorf("%w: no such category %q", ErrValidation, categoryID)
	}

	if err := s.categories.Delete(ctx, userID, categoryID); err != nil {
		return err
	}
	if sess.Closed() {
		return ErrSessionClosed
	}
	sess.store.RemoveCategory(categoryID)

	s.snapshot(ctx, sess)
	return nil
}

// History returns the stored daily snapshots, newest-first.
func (s *TaskService) History(ctx context.Context, userID string, limit int) ([]model.AnalyticsHistory, error) {
	if _, err := s.session(userID); err != nil {
		return nil, err
	}
	return s.history.List(ctx, userID, limit)
}

func (s *TaskService) session(userID string) (*Session, error) {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// snapshot records today's figures after a mutation. Best-effort; the
// mutation that triggered it has already committed.
func (s *TaskService) snapshot(ctx context.Context, sess *Session) {
	tasks := sess.store.Tasks()
	daily := ComputeDailyStats(tasks)
	perCategory := ComputeCategoryStats(sess.store.Categories(), tasks)
	s.history.Record(ctx, sess.UserID, sess.today(s.now()), daily, perCategory)
}
