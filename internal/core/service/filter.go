package service

import (
	"slices"
	"strings"

	"taskflow/internal/core/domain"
)

func matchesFilter(filter, value string) bool {
	return filter == "" || filter == domain.FilterAll || filter == value
}

// Apply narrows tasks by status, priority, category and search text, then
// orders the result. The input slice is never modified.
func Apply(tasks []domain.Task, query domain.ViewQuery) []domain.Task {
	search := strings.ToLower(query.Search)
	result := make([]domain.Task, 0, len(tasks))

	for _, t := range tasks {
		if !matchesFilter(query.Status, t.Status.String()) {
			continue
		}

		if !matchesFilter(query.Priority, t.Priority.String()) {
			continue
		}

		if !matchesFilter(query.Category, t.Category) {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}

		result = append(result, t)
	}

	switch query.Sort {
	case domain.SortByDeadline:
		slices.SortStableFunc(result, func(a, b domain.Task) int {
			return a.Deadline.Time().Compare(b.Deadline.Time())
		})
	case domain.SortByPriority:
		slices.SortStableFunc(result, func(a, b domain.Task) int {
			return b.Priority.Weight() - a.Priority.Weight()
		})
	}

	return result
}
