package service

import (
	"slices"
	"time"

	"taskflow/internal/core/domain"
)

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

// TaskStore is the ordered, newest-first task collection of one session.
// It is not safe for concurrent use; the Dashboard serializes access.
type TaskStore struct {
	tasks  []domain.Task
	now    Clock
	lastID int64
}

func NewTaskStore(now Clock) *TaskStore {
	if now == nil {
		now = time.Now
	}

	return &TaskStore{now: now}
}

// nextID issues max(now in ms, last issued + 1).
func (s *TaskStore) nextID() int64 {
	id := max(s.now().UnixMilli(), s.lastID+1)
	s.lastID = id
	return id
}

func (s *TaskStore) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool {
		return t.ID == id
	})
}

// Add creates a task at the head of the collection. Drafts without a title
// or a deadline are ignored.
func (s *TaskStore) Add(draft domain.Draft) (domain.Task, bool) {
	if !draft.IsValid() {
		return domain.Task{}, false
	}

	draft = draft.WithDefaults()

	task := domain.Task{
		ID:          s.nextID(),
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Deadline:    draft.Deadline,
		Status:      draft.Status,
		Progress:    domain.MinProgress,
		Category:    draft.Category,
		CreatedAt:   s.now().UTC(),
	}

	s.tasks = slices.Insert(s.tasks, 0, task)

	return task, true
}

// Update replaces every editable field of the task, keeping its id and
// creation time. Patches without a title or a deadline are ignored.
func (s *TaskStore) Update(id int64, patch domain.Patch) (domain.Task, bool) {
	i := s.indexOf(id)

	if i < 0 || !patch.IsValid() {
		return domain.Task{}, false
	}

	current := &s.tasks[i]

	current.Title = patch.Title
	current.Description = patch.Description
	current.Deadline = patch.Deadline
	current.Progress = domain.ClampProgress(patch.Progress)
	current.Category = patch.Category

	if patch.Priority.IsValid() {
		current.Priority = patch.Priority
	}

	if patch.Status.IsValid() {
		current.Status = patch.Status
	}

	return *current, true
}

func (s *TaskStore) Remove(id int64) bool {
	i := s.indexOf(id)

	if i < 0 {
		return false
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)

	return true
}

// SetStatus moves a task to status; Completed forces full progress.
func (s *TaskStore) SetStatus(id int64, status domain.TaskStatus) (domain.Task, bool) {
	i := s.indexOf(id)

	if i < 0 || !status.IsValid() {
		return domain.Task{}, false
	}

	current := &s.tasks[i]
	current.Status = status

	if status == domain.TaskStatusCompleted {
		current.Progress = domain.MaxProgress
	}

	return *current, true
}

// SetProgress clamps progress to [0,100]. Full progress completes the task
// and any progress on a pending task starts it.
func (s *TaskStore) SetProgress(id int64, progress int) (domain.Task, bool) {
	i := s.indexOf(id)

	if i < 0 {
		return domain.Task{}, false
	}

	current := &s.tasks[i]
	current.Progress = domain.ClampProgress(progress)

	switch {
	case current.Progress == domain.MaxProgress:
		current.Status = domain.TaskStatusCompleted
	case current.Progress > domain.MinProgress && current.Status == domain.TaskStatusPending:
		current.Status = domain.TaskStatusInProgress
	}

	return *current, true
}

// ToggleStatus flips Pending and Completed. In Progress tasks are left alone
// and returned unchanged with false; a missing id returns the zero Task.
func (s *TaskStore) ToggleStatus(id int64) (domain.Task, bool) {
	i := s.indexOf(id)

	if i < 0 {
		return domain.Task{}, false
	}

	current := &s.tasks[i]

	switch current.Status {
	case domain.TaskStatusPending:
		current.Status = domain.TaskStatusCompleted
		current.Progress = domain.MaxProgress
	case domain.TaskStatusCompleted:
		current.Status = domain.TaskStatusPending
		current.Progress = domain.MinProgress
	default:
		return *current, false
	}

	return *current, true
}

func (s *TaskStore) List() []domain.Task {
	return slices.Clone(s.tasks)
}

func (s *TaskStore) Get(id int64) (domain.Task, bool) {
	i := s.indexOf(id)

	if i < 0 {
		return domain.Task{}, false
	}

	return s.tasks[i], true
}

func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// ReplaceAll restores a saved collection in its saved order. Later ids are
// issued above every restored one.
func (s *TaskStore) ReplaceAll(tasks []domain.Task) {
	s.tasks = slices.Clone(tasks)

	for _, t := range s.tasks {
		s.lastID = max(s.lastID, t.ID)
	}
}
