package store

import (
	"testing"
	"time"

	"taskpad/internal/model"
)

func TestReplaceDropsOrphanedTasks(t *testing.T) {
	s := New()
	categories := []model.Category{{ID: "c1", Title: "Inbox"}}
	tasks := []model.Task{
		{ID: "t1", CategoryID: "c1"},
		{ID: "t2", CategoryID: "missing"},
	}

	dropped := s.Replace(categories, tasks)

	if len(dropped) != 1 || dropped[0].ID != "t2" {
		t.Fatalf("dropped = %+v, want just t2", dropped)
	}
	if _, ok := s.Task("t2"); ok {
		t.Error("orphaned task t2 still present in store")
	}
	if _, ok := s.Task("t1"); !ok {
		t.Error("valid task t1 missing from store")
	}
}

func TestRemoveCategoryCascades(t *testing.T) {
	s := New()
	s.Replace(
		[]model.Category{{ID: "c1"}, {ID: "c2"}},
		[]model.Task{
			{ID: "t1", CategoryID: "c1"},
			{ID: "t2", CategoryID: "c1"},
			{ID: "t3", CategoryID: "c2"},
		},
	)

	s.RemoveCategory("c1")

	if _, ok := s.Category("c1"); ok {
		t.Error("category c1 still present")
	}
	for _, id := range []string{"t1", "t2"} {
		if _, ok := s.Task(id); ok {
			t.Errorf("task %s survived its category's removal", id)
		}
	}
	if _, ok := s.Task("t3"); !ok {
		t.Error("task t3 in an unrelated category was removed")
	}
}

func TestOrdering(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.Replace(
		[]model.Category{
			{ID: "c2", Position: 1, CreatedAt: base},
			{ID: "c1", Position: 0, CreatedAt: base},
		},
		[]model.Task{
			{ID: "t2", CategoryID: "c1", Position: 0, CreatedAt: base.Add(time.Hour)},
			{ID: "t1", CategoryID: "c1", Position: 0, CreatedAt: base},
			{ID: "t3", CategoryID: "c1", Position: 1, CreatedAt: base},
		},
	)

	categories := s.Categories()
	if categories[0].ID != "c1" || categories[1].ID != "c2" {
		t.Errorf("categories out of position order: %s, %s", categories[0].ID, categories[1].ID)
	}

	tasks := s.Tasks()
	wantOrder := []string{"t1", "t2", "t3"} // position, then creation time
	for i, want := range wantOrder {
		if tasks[i].ID != want {
			t.Errorf("tasks[%d] = %s, want %s", i, tasks[i].ID, want)
		}
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Replace([]model.Category{{ID: "c1"}}, []model.Task{{ID: "t1", CategoryID: "c1"}})
	s.Clear()
	if len(s.Categories()) != 0 || len(s.Tasks()) != 0 {
		t.Error("store not empty after Clear")
	}
}
