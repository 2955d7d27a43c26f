package request

import (
	"taskflow/internal/core/domain"
)

type SignUpRequest struct {
	FullName string `json:"fullName,omitempty" validate:"required,min=2,max=100"`
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,max=100"`
}

type TaskRequest struct {
	Title       string `json:"title,omitempty" validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Deadline    string `json:"deadline,omitempty" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=Pending 'In Progress' Completed"`
	Category    string `json:"category,omitempty" validate:"max=100"`
}

// ToDraft converts an already validated request; empty enums stay zero so
// the store applies its defaults.
func (r TaskRequest) ToDraft() (domain.Draft, error) {
	draft := domain.Draft{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
	}

	deadline, err := domain.ParseDate(r.Deadline)

	if err != nil {
		return domain.Draft{}, err
	}

	draft.Deadline = deadline

	if r.Priority != "" {
		if draft.Priority, err = domain.ParsePriority(r.Priority); err != nil {
			return domain.Draft{}, err
		}
	}

	if r.Status != "" {
		if draft.Status, err = domain.ParseTaskStatus(r.Status); err != nil {
			return domain.Draft{}, err
		}
	}

	return draft, nil
}

type TaskUpdateRequest struct {
	Title       string `json:"title,omitempty" validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Priority    string `json:"priority,omitempty" validate:"required,oneof=Low Medium High"`
	Deadline    string `json:"deadline,omitempty" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status,omitempty" validate:"required,oneof=Pending 'In Progress' Completed"`
	Progress    int    `json:"progress"`
	Category    string `json:"category,omitempty" validate:"max=100"`
}

func (r TaskUpdateRequest) ToPatch() (domain.Patch, error) {
	deadline, err := domain.ParseDate(r.Deadline)

	if err != nil {
		return domain.Patch{}, err
	}

	priority, err := domain.ParsePriority(r.Priority)

	if err != nil {
		return domain.Patch{}, err
	}

	status, err := domain.ParseTaskStatus(r.Status)

	if err != nil {
		return domain.Patch{}, err
	}

	return domain.Patch{
		Title:       r.Title,
		Description: r.Description,
		Priority:    priority,
		Deadline:    deadline,
		Status:      status,
		Progress:    r.Progress,
		Category:    r.Category,
	}, nil
}

type StatusRequest struct {
	Status string `json:"status,omitempty" validate:"required,oneof=Pending 'In Progress' Completed"`
}

type ProgressRequest struct {
	Progress *int `json:"progress" validate:"required"`
}

type ViewRequest struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
}

func (r ViewRequest) ToQuery() domain.ViewQuery {
	return domain.ViewQuery{
		Status:   r.Status,
		Priority: r.Priority,
		Category: r.Category,
		Search:   r.Search,
		Sort:     r.Sort,
	}
}
