package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskpad/internal/model"
	"taskpad/internal/repository"
)

type fixture struct {
	svc     *TaskService
	tasks   *repository.TaskRepository
	cats    *repository.CategoryRepository
	history *repository.HistoryRepository
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	f := &fixture{
		tasks:   taskRepo,
		cats:    categoryRepo,
		history: historyRepo,
		now:     time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewTaskService(
		NewSessionManager(),
		NewRolloverEngine(taskRepo, categoryRepo),
		NewHistoryService(historyRepo),
		repository.NewUserRepository(db),
		taskRepo,
		categoryRepo,
	)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) signIn(t *testing.T, userID string) {
	t.Helper()
	_, err := f.svc.SignIn(context.Background(), userID, SignInInput{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("sign in %s: %v", userID, err)
	}
}

func TestSignInRunsRolloverBeforeStats(t *testing.T) {
	f := newFixture(t)
	yesterday := f.now.AddDate(0, 0, -1)

	const user = "u1"
	seedCategory(t, f.cats, user, "c1")
	seedTask(t, f.tasks, model.Task{ID: "daily-old", UserID: user, CategoryID: "c1", IsDaily: true, IsCompleted: true, LastCompletedAt: &yesterday})
	seedTask(t, f.tasks, model.Task{ID: "daily-new", UserID: user, CategoryID: "c1", IsDaily: true, IsCompleted: true, LastCompletedAt: &f.now})
	seedTask(t, f.tasks, model.Task{ID: "oneoff", UserID: user, CategoryID: "c1", IsDaily: false, IsCompleted: true, LastCompletedAt: &yesterday})

	// Before rollover the raw rows show everything done.
	raw, err := f.tasks.ListByUser(context.Background(), user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := ComputeDailyStats(raw); got.Percentage != 100 {
		t.Fatalf("pre-rollover percentage = %d, want 100", got.Percentage)
	}

	f.signIn(t, user)

	stats, err := f.svc.DailyStats(context.Background(), user)
	if err != nil {
		t.Fatalf("DailyStats: %v", err)
	}
	want := model.DailyStats{Total: 3, Completed: 2, Missed: 1, Percentage: 67}
	if stats != want {
		t.Errorf("post-rollover stats = %+v, want %+v", stats, want)
	}
}

func TestOperationsRequireSession(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.DailyStats(context.Background(), "nobody"); !errors.Is(err, ErrNoSession) {
		t.Errorf("DailyStats without session: err = %v, want ErrNoSession", err)
	}
	if _, err := f.svc.ToggleTask(context.Background(), "nobody", "t1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("ToggleTask without session: err = %v, want ErrNoSession", err)
	}
}

func TestAddTaskValidation(t *testing.T) {
	f := newFixture(t)
	const user = "u1"
	seedCategory(t, f.cats, user, "c1")
	f.signIn(t, user)

	tests := []struct {
		name  string
		input AddTaskInput
	}{
		{"missing title", AddTaskInput{CategoryID: "c1"}},
		{"missing category", AddTaskInput{Title: "read"}},
		{"unknown category", AddTaskInput{CategoryID: "ghost", Title: "read"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.AddTask(context.Background(), user, tt.input); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	// Nothing was written remotely on any rejected input.
	tasks, err := f.tasks.ListByUser(context.Background(), user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("rejected inputs created %d remote rows", len(tasks))
	}
}

func TestToggleTaskConfirmsRemotelyThenLocally(t *testing.T) {
	f := newFixture(t)
	const user = "u1"
	seedCategory(t, f.cats, user, "c1")
	f.signIn(t, user)

	created, err := f.svc.AddTask(context.Background(), user, AddTaskInput{CategoryID: "c1", Title: "run", IsDaily: true})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	toggled, err := f.svc.ToggleTask(context.Background(), user, created.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("toggle did not complete the task")
	}
	if toggled.LastCompletedAt == nil || !toggled.LastCompletedAt.Equal(f.now) {
		t.Errorf("LastCompletedAt = %v, want %v", toggled.LastCompletedAt, f.now)
	}

	remote, err := f.tasks.FindByID(context.Background(), user, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !remote.IsCompleted {
		t.Error("remote row not completed after toggle resolved")
	}

	// Un-toggling keeps the stamp as the last "was done" hint.
	untoggled, err := f.svc.ToggleTask(context.Background(), user, created.ID)
	if err != nil {
		t.Fatalf("second ToggleTask: %v", err)
	}
	if untoggled.IsCompleted {
		t.Error("second toggle did not un-complete the task")
	}
	if untoggled.LastCompletedAt == nil {
		t.Error("un-completing cleared LastCompletedAt")
	}
}

func TestMutationsRecordOneHistoryRowPerDay(t *testing.T) {
	f := newFixture(t)
	const user = "u1"
	seedCategory(t, f.cats, user, "c1")
	f.signIn(t, user)

	created, err := f.svc.AddTask(context.Background(), user, AddTaskInput{CategoryID: "c1", Title: "run", IsDaily: true})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := f.svc.ToggleTask(context.Background(), user, created.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if _, err := f.svc.ToggleTask(context.Background(), user, created.ID); err != nil {
		t.Fatalf("second ToggleTask: %v", err)
	}

	entries, err := f.history.ListByUser(context.Background(), user, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history rows for one day, want 1", len(entries))
	}
	// The single row reflects the LAST mutation (task un-completed again).
	if entries[0].CompletedTasks != 0 || entries[0].TotalTasks != 1 {
		t.Errorf("history row = %d/%d completed, want 0/1", entries[0].CompletedTasks, entries[0].TotalTasks)
	}
	if entries[0].Date != "2026-08-28" {
		t.Errorf("history date = %s, want 2026-08-28", entries[0].Date)
	}
}

func TestReorderCategoriesRewritesPositions(t *testing.T) {
	f := newFixture(t)
	const user = "u1"
	for _, id := range []string{"c1", "c2", "c3"} {
		seedCategory(t, f.cats, user, id)
	}
	f.signIn(t, user)

	if err := f.svc.ReorderCategories(context.Background(), user, []string{"c2", "c1", "c3"}); err != nil {
		t.Fatalf("ReorderCategories: %v", err)
	}

	categories, err := f.svc.Categories(context.Background(), user)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	wantOrder := []string{"c2", "c1", "c3"}
	for i, want := range wantOrder {
		if categories[i].ID != want || categories[i].Position != i {
			t.Errorf("categories[%d] = %s pos %d, want %s pos %d", i, categories[i].ID, categories[i].Position, want, i)
		}
	}

	// Positions are persisted, not a local-only arrangement.
	remote, err := f.cats.ListByUser(context.Background(), user)
	if err != nil {
		t.Fatalf("list remote: %v", err)
	}
	for i, want := range wantOrder {
		if remote[i].ID != want {
			t.Errorf("remote[%d] = %s, want %s", i, remote[i].ID, want)
		}
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	f := newFixture(t)
	const user = "u1"
	seedCategory(t, f.cats, user, "c1")
	seedCategory(t, f.cats, user, "c2")
	seedTask(t, f.tasks, model.Task{ID: "t1", UserID: user, CategoryID: "c1"})
	seedTask(t, f.tasks, model.Task{ID: "t2", UserID: user, CategoryID: "c2"})
	f.signIn(t, user)

	if err := f.svc.DeleteCategory(context.Background(), user, "c1"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	if _, err := f.tasks.FindByID(context.Background(), user, "t1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("task t1 still present remotely after cascade: %v", err)
	}
	tasks, err := f.svc.Tasks(context.Background(), user)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Errorf("store tasks after cascade = %+v, want just t2", tasks)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	f := newFixture(t)
	const user = "u1"
	seedCategory(t, f.cats, user, "c1")
	f.signIn(t, user)

	f.svc.SignOut(user)

	if _, err := f.svc.DailyStats(context.Background(), user); !errors.Is(err, ErrNoSession) {
		t.Errorf("DailyStats after sign-out: err = %v, want ErrNoSession", err)
	}
}

func TestHistoryUpsertKeepsLatestValues(t *testing.T) {
	f := newFixture(t)
	history := NewHistoryService(f.history)

	history.Record(context.Background(), "u1", "2026-08-28",
		model.DailyStats{Total: 3, Completed: 1, Missed: 2, Percentage: 33}, nil)
	history.Record(context.Background(), "u1", "2026-08-28",
		model.DailyStats{Total: 3, Completed: 2, Missed: 1, Percentage: 67}, nil)

	entries, err := f.history.ListByUser(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d rows, want 1", len(entries))
	}
	if entries[0].CompletedTasks != 2 || entries[0].Percentage != 67 {
		t.Errorf("row kept first write's values: %+v", entries[0])
	}
}
