package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskflow/internal/core/domain"
)

func filterFixture() []domain.Task {
	return []domain.Task{
		{ID: 1, Title: "Write report", Description: "quarterly numbers", Priority: domain.PriorityLow, Deadline: domain.NewDate(2026, time.March, 3), Status: domain.TaskStatusPending, Category: "Work"},
		{ID: 2, Title: "Groceries", Description: "milk and REPORT paper", Priority: domain.PriorityHigh, Deadline: domain.NewDate(2026, time.March, 1), Status: domain.TaskStatusCompleted, Category: "Home"},
		{ID: 3, Title: "Deploy", Description: "", Priority: domain.PriorityMedium, Deadline: domain.NewDate(2026, time.March, 1), Status: domain.TaskStatusInProgress, Category: "Work"},
		{ID: 4, Title: "Plan trip", Description: "", Priority: domain.PriorityHigh, Deadline: domain.NewDate(2026, time.February, 20), Status: domain.TaskStatusPending, Category: "Home"},
	}
}

func TestApply_Filters(t *testing.T) {
	tasks := filterFixture()

	cases := []struct {
		name  string
		query domain.ViewQuery
		want  []int64
	}{
		{"no filters", domain.ViewQuery{}, []int64{1, 2, 3, 4}},
		{"status all", domain.ViewQuery{Status: domain.FilterAll}, []int64{1, 2, 3, 4}},
		{"status pending", domain.ViewQuery{Status: "Pending"}, []int64{1, 4}},
		{"status in progress", domain.ViewQuery{Status: "In Progress"}, []int64{3}},
		{"unknown status", domain.ViewQuery{Status: "Archived"}, []int64{}},
		{"priority", domain.ViewQuery{Priority: "High"}, []int64{2, 4}},
		{"category", domain.ViewQuery{Category: "Home", Status: "Pending"}, []int64{4}},
		{"search title or description", domain.ViewQuery{Search: "RePoRt"}, []int64{1, 2}},
		{"search and status", domain.ViewQuery{Search: "report", Status: "Completed"}, []int64{2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Apply(tasks, tc.query)))
		})
	}
}

func TestApply_AllAfterFilterKeepsResult(t *testing.T) {
	tasks := filterFixture()

	for _, status := range []string{"Pending", "In Progress", "Completed", "Archived"} {
		t.Run(status, func(t *testing.T) {
			once := Apply(tasks, domain.ViewQuery{Status: status})
			twice := Apply(once, domain.ViewQuery{Status: domain.FilterAll})

			assert.Equal(t, once, twice)
		})
	}

	t.Run("search then all", func(t *testing.T) {
		once := Apply(tasks, domain.ViewQuery{Search: "report", Sort: domain.SortByPriority})

		assert.Equal(t, once, Apply(once, domain.ViewQuery{Status: domain.FilterAll, Priority: domain.FilterAll}))
	})
}

func TestApply_Sort(t *testing.T) {
	tasks := filterFixture()

	t.Run("should order by deadline keeping ties in input order", func(t *testing.T) {
		assert.Equal(t, []int64{4, 2, 3, 1}, ids(Apply(tasks, domain.ViewQuery{Sort: domain.SortByDeadline})))
	})

	t.Run("should order by descending priority keeping ties in input order", func(t *testing.T) {
		assert.Equal(t, []int64{2, 4, 3, 1}, ids(Apply(tasks, domain.ViewQuery{Sort: domain.SortByPriority})))
	})

	t.Run("should keep order for unknown sort keys", func(t *testing.T) {
		assert.Equal(t, []int64{1, 2, 3, 4}, ids(Apply(tasks, domain.ViewQuery{Sort: "title"})))
	})

	t.Run("should not modify its input", func(t *testing.T) {
		Apply(tasks, domain.ViewQuery{Sort: domain.SortByDeadline, Status: "Pending"})
		assert.Equal(t, []int64{1, 2, 3, 4}, ids(tasks))
	})
}
