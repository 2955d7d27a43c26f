package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/core/codec"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
	"taskflow/internal/core/telemetry"
)

const (
	dashboardService = "dashboard"

	// SnapshotWriteOperation names the full-collection write after a mutation.
	SnapshotWriteOperation = "snapshot_write"
)

// DashboardService binds one session's TaskStore to its snapshot key. Every
// call holds the mutex, so mutations of a session apply one at a time and
// the snapshot written afterwards is the collection they produced.
type DashboardService struct {
	mu        sync.Mutex
	profile   domain.Profile
	key       string
	store     *TaskStore
	snapshots port.SnapshotRepository
	telemetry port.Telemetry
	logger    *zap.Logger
	now       Clock
	location  *time.Location
}

type DashboardOptions struct {
	Snapshots port.SnapshotRepository
	Telemetry port.Telemetry
	Logger    *zap.Logger
	Clock     Clock
	Location  *time.Location
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if o.Clock == nil {
		o.Clock = time.Now
	}

	if o.Location == nil {
		o.Location = time.Local
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.Telemetry == nil {
		o.Telemetry = telemetry.NewNoOpProbe()
	}

	return o
}

func NewDashboardService(profile domain.Profile, tasks []domain.Task, opts DashboardOptions) *DashboardService {
	opts = opts.withDefaults()

	store := NewTaskStore(opts.Clock)
	store.ReplaceAll(tasks)

	return &DashboardService{
		profile:   profile,
		key:       domain.TasksKey(profile.ID),
		store:     store,
		snapshots: opts.Snapshots,
		telemetry: opts.Telemetry,
		logger:    opts.Logger.With(zap.String("user_id", profile.ID)),
		now:       opts.Clock,
		location:  opts.Location,
	}
}

func (d *DashboardService) today() domain.Date {
	return domain.DateOf(d.now().In(d.location))
}

func (d *DashboardService) Profile() domain.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.profile
}

func (d *DashboardService) setProfile(profile domain.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.profile = profile
}

func (d *DashboardService) View(query domain.ViewQuery) domain.DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	today := d.today()
	tasks := d.store.List()

	return domain.DashboardView{
		Tasks: Annotate(Apply(tasks, query), today),
		Stats: Derive(tasks, today),
	}
}

func (d *DashboardService) Stats() domain.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Derive(d.store.List(), d.today())
}

func (d *DashboardService) Get(id int64) (domain.Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.store.Get(id)
}

func (d *DashboardService) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.store.Len()
}

func (d *DashboardService) Add(ctx context.Context, draft domain.Draft) (domain.Task, bool) {
	return d.mutate(ctx, "add", func() (domain.Task, bool) {
		return d.store.Add(draft)
	})
}

func (d *DashboardService) Update(ctx context.Context, id int64, patch domain.Patch) (domain.Task, bool) {
	return d.mutate(ctx, "update", func() (domain.Task, bool) {
		return d.store.Update(id, patch)
	})
}

func (d *DashboardService) Remove(ctx context.Context, id int64) bool {
	_, ok := d.mutate(ctx, "remove", func() (domain.Task, bool) {
		return domain.Task{ID: id}, d.store.Remove(id)
	})

	return ok
}

func (d *DashboardService) SetStatus(ctx context.Context, id int64, status domain.TaskStatus) (domain.Task, bool) {
	return d.mutate(ctx, "set_status", func() (domain.Task, bool) {
		return d.store.SetStatus(id, status)
	})
}

func (d *DashboardService) SetProgress(ctx context.Context, id int64, progress int) (domain.Task, bool) {
	return d.mutate(ctx, "set_progress", func() (domain.Task, bool) {
		return d.store.SetProgress(id, progress)
	})
}

func (d *DashboardService) ToggleStatus(ctx context.Context, id int64) (domain.Task, bool) {
	return d.mutate(ctx, "toggle_status", func() (domain.Task, bool) {
		return d.store.ToggleStatus(id)
	})
}

func (d *DashboardService) mutate(ctx context.Context, operation string, apply func() (domain.Task, bool)) (domain.Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	ctx, span := d.telemetry.StartServiceSpan(ctx, dashboardService, operation, d.profile.ID, nil)
	defer span.End()

	task, ok := apply()

	span.SetAttributes(map[string]interface{}{
		"task.id": task.ID,
		"applied": ok,
	})

	d.telemetry.RecordBusinessEvent(ctx, "task_"+operation, "task", strconv.FormatInt(task.ID, 10), d.profile.ID, map[string]interface{}{
		"applied": ok,
	})

	if !ok {
		d.logger.Debug("Dashboard#"+operation+" ignored", zap.Int64("task_id", task.ID))
		return task, false
	}

	err := d.persist(ctx)

	d.telemetry.RecordServiceOperation(ctx, dashboardService, operation, d.profile.ID, time.Since(start), err)

	return task, true
}

// persist writes the whole collection. A failed write leaves the in-memory
// store authoritative; the next applied mutation writes again.
func (d *DashboardService) persist(ctx context.Context) error {
	if d.snapshots == nil {
		return nil
	}

	start := time.Now()
	data, err := codec.EncodeTasks(d.store.List())

	if err == nil {
		err = d.snapshots.Set(ctx, d.key, data)
	}

	d.telemetry.RecordRepositoryOperation(ctx, SnapshotWriteOperation, "tasks", time.Since(start), err)

	if err != nil {
		d.logger.Error("Dashboard#persist", zap.String("key", d.key), zap.Error(err))
		d.telemetry.RecordError(ctx, SnapshotWriteOperation, err, map[string]interface{}{"key": d.key})
	}

	return err
}
