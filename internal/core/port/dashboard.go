package port

import (
	"context"

	"taskflow/internal/core/domain"
)

// Dashboard is the per-session task workspace.
type Dashboard interface {
	Profile() domain.Profile
	View(query domain.ViewQuery) domain.DashboardView
	Stats() domain.Stats
	Get(id int64) (domain.Task, bool)

	Add(ctx context.Context, draft domain.Draft) (domain.Task, bool)
	Update(ctx context.Context, id int64, patch domain.Patch) (domain.Task, bool)
	Remove(ctx context.Context, id int64) bool
	SetStatus(ctx context.Context, id int64, status domain.TaskStatus) (domain.Task, bool)
	SetProgress(ctx context.Context, id int64, progress int) (domain.Task, bool)
	// ToggleStatus returns the zero Task when id is unknown, and the unchanged
	// task with false when it is In Progress.
	ToggleStatus(ctx context.Context, id int64) (domain.Task, bool)
}

// SessionGate admits users holding a session marker to their dashboard.
type SessionGate interface {
	Open(ctx context.Context, session domain.Session) error
	Enter(ctx context.Context, userID string) (Dashboard, error)
	Close(ctx context.Context, userID string) error
}
