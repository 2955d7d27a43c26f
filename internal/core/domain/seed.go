package domain

import "time"

// DefaultTasks is the collection a dashboard starts with when the user has
// never saved one.
func DefaultTasks(now time.Time) []Task {
	return []Task{
		{
			ID:          1,
			Title:       "Review project document",
			Description: "Update API docs with new endpoints",
			Priority:    PriorityHigh,
			Deadline:    NewDate(2026, time.February, 15),
			Status:      TaskStatusInProgress,
			Progress:    0,
			Category:    "Work",
			CreatedAt:   now,
		},
		{
			ID:          2,
			Title:       "Prepare presentation slides",
			Description: "Create slides for team meeting",
			Priority:    PriorityMedium,
			Deadline:    NewDate(2026, time.February, 18),
			Status:      TaskStatusPending,
			Progress:    0,
			Category:    "Work",
			CreatedAt:   now,
		},
		{
			ID:          3,
			Title:       "Code review",
			Description: "Review pull requests from team members",
			Priority:    PriorityHigh,
			Deadline:    NewDate(2026, time.February, 14),
			Status:      TaskStatusCompleted,
			Progress:    MaxProgress,
			Category:    "Development",
			CreatedAt:   now,
		},
	}
}
