package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskpad/internal/model"
	"taskpad/internal/repository"
)

// RolloverEngine resets stale daily tasks once per calendar day boundary.
// The check is idempotent: running it any number of times within the same
// local day leaves the store in the same state.
type RolloverEngine struct {
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
}

func NewRolloverEngine(tasks *repository.TaskRepository, categories *repository.CategoryRepository) *RolloverEngine {
	return &RolloverEngine{tasks: tasks, categories: categories}
}

// Check must be called with the session lock held. It compares every daily
// task's last completion against now's calendar date in the session's
// timezone, issues one filtered remote reset for the stale ones, and reloads
// the store to reconcile with concurrent writers. On remote failure the
// store is left untouched and the next check retries.
func (e *RolloverEngine) Check(ctx context.Context, sess *Session, now time.Time) error {
	today := sess.today(now)
	if sess.lastRollover == today {
		return nil
	}

	stale := 0
	for _, t := range sess.store.Tasks() {
		if isStale(t, now, sess.Location) {
			stale++
		}
	}
	if stale == 0 {
		sess.lastRollover = today
		return nil
	}

	// The remote filter (daily, completed, last completion before local
	// midnight) makes the write idempotent: a second client issuing the
	// same reset matches zero rows.
	if _, err := e.tasks.ResetStaleDaily(ctx, sess.UserID, sess.localMidnight(now)); err != nil {
		return fmt.Errorf("rollover for %s: %w", today, err)
	}

	if err := e.reload(ctx, sess); err != nil {
		return err
	}

	sess.lastRollover = today
	return nil
}

// reload replaces the session store from the remote rows. Orphaned tasks are
// dropped with a warning, not an error.
func (e *RolloverEngine) reload(ctx context.Context, sess *Session) error {
	categories, err := e.categories.ListByUser(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("reload categories: %w", err)
	}
	tasks, err := e.tasks.ListByUser(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("reload tasks: %w", err)
	}

	if sess.Closed() {
		return ErrSessionClosed
	}

	for _, orphan := range sess.store.Replace(categories, tasks) {
		log.Printf("task %s references missing category %s, dropped from view", orphan.ID, orphan.CategoryID)
	}
	return nil
}

// isStale reports whether a task must be reset: daily, still marked
// completed, and last completed on a calendar day other than now's (in loc).
// A completed daily task with no completion stamp is treated as stale so the
// reset fails toward showing incomplete.
func isStale(t model.Task, now time.Time, loc *time.Location) bool {
	if !t.IsDaily || !t.IsCompleted {
		return false
	}
	if t.LastCompletedAt == nil {
		return true
	}
	return !sameCalendarDay(*t.LastCompletedAt, now, loc)
}

func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
