package factory

import (
	fab "github.com/Goldziher/fabricator"

	"taskflow/internal/core/domain"
)

type taskText struct {
	Title       string
	Description string
}

func randomText(customData map[string]any) taskText {
	factory := fab.New(taskText{})

	var text taskText

	if customData == nil {
		text = factory.Build()
	} else {
		text = factory.Build(customData)
	}

	if text.Title == "" {
		text.Title = "Task"
	}

	return text
}

// NewTask builds a pending medium task with random title and description.
// Text fields can be pinned through customData; everything else through opts.
func NewTask(customData map[string]any, opts ...func(*domain.Task)) domain.Task {
	text := randomText(customData)

	task := domain.Task{
		Title:       text.Title,
		Description: text.Description,
		Priority:    domain.PriorityMedium,
		Deadline:    domain.NewDate(2026, 2, 15),
		Status:      domain.TaskStatusPending,
		Category:    domain.DefaultCategory,
	}

	for _, opt := range opts {
		opt(&task)
	}

	return task
}

func NewDraft(customData map[string]any, opts ...func(*domain.Draft)) domain.Draft {
	text := randomText(customData)

	draft := domain.Draft{
		Title:       text.Title,
		Description: text.Description,
		Priority:    domain.PriorityMedium,
		Deadline:    domain.NewDate(2026, 2, 15),
		Status:      domain.TaskStatusPending,
		Category:    domain.DefaultCategory,
	}

	for _, opt := range opts {
		opt(&draft)
	}

	return draft
}
