// Package store keeps an in-memory mirror of one user's categories and
// tasks, loaded from the remote rows and mutated alongside confirmed remote
// writes. It does no I/O of its own.
package store

import (
	"sort"

	"taskpad/internal/model"
)

// Store is NOT safe for concurrent use; the owning session serializes all
// access.
type Store struct {
	categories map[string]model.Category
	tasks      map[string]model.Task
}

func New() *Store {
	return &Store{
		categories: make(map[string]model.Category),
		tasks:      make(map[string]model.Task),
	}
}

// Replace swaps in a freshly loaded row set. Tasks whose category is missing
// are dropped from the mirror and returned so the caller can log them; an
// orphan is a reconciliation warning, not an error.
func (s *Store) Replace(categories []model.Category, tasks []model.Task) (dropped []model.Task) {
	s.categories = make(map[string]model.Category, len(categories))
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	s.tasks = make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		if _, ok := s.categories[t.CategoryID]; !ok {
			dropped = append(dropped, t)
			continue
		}
		s.tasks[t.ID] = t
	}
	return dropped
}

func (s *Store) UpsertTask(task model.Task) {
	s.tasks[task.ID] = task
}

func (s *Store) RemoveTask(id string) {
	delete(s.tasks, id)
}

func (s *Store) Task(id string) (model.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

func (s *Store) UpsertCategory(category model.Category) {
	s.categories[category.ID] = category
}

// RemoveCategory drops the category and cascades to its tasks, mirroring the
// remote side's cascade-on-delete.
func (s *Store) RemoveCategory(id string) {
	delete(s.categories, id)
	for taskID, t := range s.tasks {
		if t.CategoryID == id {
			delete(s.tasks, taskID)
		}
	}
}

func (s *Store) Category(id string) (model.Category, bool) {
	c, ok := s.categories[id]
	return c, ok
}

// Categories returns the mirror's categories in position order.
func (s *Store) Categories() []model.Category {
	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Tasks returns the mirror's tasks ordered by position, then creation time.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) Clear() {
	s.categories = make(map[string]model.Category)
	s.tasks = make(map[string]model.Task)
}
