package service

import (
	"math"

	"taskflow/internal/core/domain"
)

// DaysUntil is the whole-day distance from today to deadline; negative once
// the deadline has passed.
func DaysUntil(deadline, today domain.Date) int {
	return deadline.DaysSince(today)
}

// Derive computes the dashboard statistics of tasks as seen on today.
func Derive(tasks []domain.Task, today domain.Date) domain.Stats {
	stats := domain.Stats{
		Total:             len(tasks),
		UpcomingDeadlines: make([]domain.Task, 0),
		Overdue:           make([]domain.Task, 0),
	}

	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusCompleted:
			stats.Completed++
			continue
		case domain.TaskStatusInProgress:
			stats.InProgress++
		case domain.TaskStatusPending:
			stats.Pending++
		}

		days := DaysUntil(t.Deadline, today)

		switch {
		case days < 0:
			stats.Overdue = append(stats.Overdue, t)
		case days <= domain.UpcomingWindowDays:
			stats.UpcomingDeadlines = append(stats.UpcomingDeadlines, t)
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return stats
}

// Annotate pairs every task with its deadline proximity.
func Annotate(tasks []domain.Task, today domain.Date) []domain.TaskView {
	views := make([]domain.TaskView, 0, len(tasks))

	for _, t := range tasks {
		days := DaysUntil(t.Deadline, today)
		open := !t.IsCompleted()

		views = append(views, domain.TaskView{
			Task:      t,
			DaysUntil: days,
			Overdue:   open && days < 0,
			DueSoon:   open && days >= 0 && days <= domain.UpcomingWindowDays,
		})
	}

	return views
}
