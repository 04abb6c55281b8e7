package service

import (
	"testing"
	"time"

	"taskpad/internal/model"
)

func TestComputeDailyStats(t *testing.T) {
	tests := []struct {
		name  string
		tasks []model.Task
		want  model.DailyStats
	}{
		{
			name:  "no tasks",
			tasks: nil,
			want:  model.DailyStats{Total: 0, Completed: 0, Missed: 0, Percentage: 0},
		},
		{
			name: "all completed",
			tasks: []model.Task{
				{IsCompleted: true},
				{IsCompleted: true},
			},
			want: model.DailyStats{Total: 2, Completed: 2, Missed: 0, Percentage: 100},
		},
		{
			name: "two of three rounds half up",
			tasks: []model.Task{
				{IsCompleted: true},
				{IsCompleted: true},
				{IsCompleted: false},
			},
			want: model.DailyStats{Total: 3, Completed: 2, Missed: 1, Percentage: 67},
		},
		{
			name: "one of three",
			tasks: []model.Task{
				{IsCompleted: true},
				{IsCompleted: false},
				{IsCompleted: false},
			},
			want: model.DailyStats{Total: 3, Completed: 1, Missed: 2, Percentage: 33},
		},
		{
			name: "exact half rounds up",
			tasks: []model.Task{
				{IsCompleted: true},
				{IsCompleted: false},
			},
			want: model.DailyStats{Total: 2, Completed: 1, Missed: 1, Percentage: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDailyStats(tt.tasks)
			if got != tt.want {
				t.Errorf("ComputeDailyStats() = %+v, want %+v", got, tt.want)
			}
			if got.Completed+got.Missed != got.Total {
				t.Errorf("completed %d + missed %d != total %d", got.Completed, got.Missed, got.Total)
			}
		})
	}
}

func TestComputeCategoryStats(t *testing.T) {
	now := time.Now()
	categories := []model.Category{
		{ID: "work", Title: "Work", Position: 0, CreatedAt: now},
		{ID: "health", Title: "Health", Position: 1, CreatedAt: now},
		{ID: "empty", Title: "Someday", Position: 2, CreatedAt: now},
	}
	tasks := []model.Task{
		{ID: "t1", CategoryID: "work", IsCompleted: true},
		{ID: "t2", CategoryID: "work", IsCompleted: false},
		{ID: "t3", CategoryID: "health", IsCompleted: true},
		{ID: "t4", CategoryID: "ghost", IsCompleted: true}, // unknown category, ignored
	}

	got := ComputeCategoryStats(categories, tasks)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}

	want := []model.CategoryStats{
		{CategoryID: "work", CategoryTitle: "Work", Total: 2, Completed: 1, Percentage: 50},
		{CategoryID: "health", CategoryTitle: "Health", Total: 1, Completed: 1, Percentage: 100},
		{CategoryID: "empty", CategoryTitle: "Someday", Total: 0, Completed: 0, Percentage: 0},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComputeCategoryStatsEmptyCategoryNeverFaults(t *testing.T) {
	got := ComputeCategoryStats([]model.Category{{ID: "c", Title: "C"}}, nil)
	if len(got) != 1 || got[0].Percentage != 0 {
		t.Fatalf("empty category stats = %+v, want one entry with percentage 0", got)
	}
}
