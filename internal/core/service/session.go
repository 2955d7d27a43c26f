package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/core/codec"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
)

const sessionService = "session"

// SessionGate admits users whose session marker is present in the snapshot
// store and keeps one DashboardService per admitted user.
type SessionGate struct {
	mu         sync.Mutex
	dashboards map[string]*DashboardService
	opts       DashboardOptions
	seed       func(now time.Time) []domain.Task
}

func NewSessionGate(opts DashboardOptions) *SessionGate {
	return &SessionGate{
		dashboards: make(map[string]*DashboardService),
		opts:       opts.withDefaults(),
		seed:       domain.DefaultTasks,
	}
}

func (g *SessionGate) Open(ctx context.Context, session domain.Session) error {
	ctx, span := g.opts.Telemetry.StartServiceSpan(ctx, sessionService, "open", session.User.ID, nil)
	defer span.End()

	data, err := codec.EncodeSession(session)

	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := g.opts.Snapshots.Set(ctx, domain.SessionKey(session.User.ID), data); err != nil {
		span.RecordError(err)
		return fmt.Errorf("write session marker: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if dashboard, ok := g.dashboards[session.User.ID]; ok {
		dashboard.setProfile(session.User)
	}

	g.opts.Telemetry.RecordBusinessEvent(ctx, "session_opened", "session", session.User.ID, session.User.ID, nil)

	return nil
}

// Enter returns the dashboard of userID, or domain.ErrNoSession when no
// marker is stored for the user.
func (g *SessionGate) Enter(ctx context.Context, userID string) (port.Dashboard, error) {
	ctx, span := g.opts.Telemetry.StartServiceSpan(ctx, sessionService, "enter", userID, nil)
	defer span.End()

	session, err := g.marker(ctx, userID)

	if err != nil {
		return nil, err
	}

	g.mu.Lock()

	if session == nil {
		delete(g.dashboards, userID)
		g.mu.Unlock()
		return nil, domain.ErrNoSession
	}

	existing, ok := g.dashboards[userID]
	g.mu.Unlock()

	if ok {
		return existing, nil
	}

	// The snapshot is read without the registry lock; a concurrent Enter
	// for the same user may win the insert below.
	tasks, seeded, err := g.load(ctx, userID)

	if err != nil {
		return nil, err
	}

	dashboard := NewDashboardService(session.User, tasks, g.opts)

	g.mu.Lock()

	if existing, ok := g.dashboards[userID]; ok {
		g.mu.Unlock()
		return existing, nil
	}

	g.dashboards[userID] = dashboard
	g.mu.Unlock()

	if seeded {
		dashboard.mu.Lock()
		_ = dashboard.persist(ctx)
		dashboard.mu.Unlock()
	}

	return dashboard, nil
}

// Close removes the marker and the cached dashboard. The task snapshot stays
// so the next login resumes the same collection.
func (g *SessionGate) Close(ctx context.Context, userID string) error {
	ctx, span := g.opts.Telemetry.StartServiceSpan(ctx, sessionService, "close", userID, nil)
	defer span.End()

	g.mu.Lock()
	delete(g.dashboards, userID)
	g.mu.Unlock()

	if err := g.opts.Snapshots.Delete(ctx, domain.SessionKey(userID)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session marker: %w", err)
	}

	g.opts.Telemetry.RecordBusinessEvent(ctx, "session_closed", "session", userID, userID, nil)

	return nil
}

func (g *SessionGate) marker(ctx context.Context, userID string) (*domain.Session, error) {
	data, err := g.opts.Snapshots.Get(ctx, domain.SessionKey(userID))

	if err != nil {
		return nil, fmt.Errorf("read session marker: %w", err)
	}

	if data == nil {
		return nil, nil
	}

	session, err := codec.DecodeSession(data)

	if err != nil {
		g.opts.Logger.Warn("SessionGate#marker", zap.String("user_id", userID), zap.Error(err))
		return nil, nil
	}

	return &session, nil
}

// load restores the saved collection, falling back to the default tasks
// when nothing usable was saved.
func (g *SessionGate) load(ctx context.Context, userID string) ([]domain.Task, bool, error) {
	data, err := g.opts.Snapshots.Get(ctx, domain.TasksKey(userID))

	if err != nil {
		return nil, false, fmt.Errorf("read task snapshot: %w", err)
	}

	if data == nil {
		return g.seed(g.opts.Clock()), true, nil
	}

	tasks, err := codec.DecodeTasks(data)

	if err != nil {
		g.opts.Logger.Warn("SessionGate#load", zap.String("user_id", userID), zap.Error(err))
		return g.seed(g.opts.Clock()), true, nil
	}

	return tasks, false, nil
}
