package domain

import (
	"fmt"
	"time"
)

type TaskStatus int

const (
	TaskStatusPending TaskStatus = iota
	TaskStatusInProgress
	TaskStatusCompleted
)

var taskStatusNames = []string{"Pending", "In Progress", "Completed"}

func (s TaskStatus) String() string {
	if !s.IsValid() {
		return ""
	}

	return taskStatusNames[s]
}

func (s TaskStatus) IsValid() bool {
	return s >= TaskStatusPending && s <= TaskStatusCompleted
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	for i, name := range taskStatusNames {
		if name == value {
			return TaskStatus(i), nil
		}
	}

	return -1, fmt.Errorf("invalid status: %s", value)
}

func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid status: %d", int(s))
	}

	return []byte(s.String()), nil
}

func (s *TaskStatus) UnmarshalText(text []byte) error {
	status, err := ParseTaskStatus(string(text))

	if err != nil {
		return err
	}

	*s = status
	return nil
}

// Priority values double as their sort weight.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

func (p Priority) String() string {
	return priorityNames[p]
}

func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) Weight() int {
	if !p.IsValid() {
		return 0
	}

	return int(p)
}

func ParsePriority(value string) (Priority, error) {
	for p, name := range priorityNames {
		if name == value {
			return p, nil
		}
	}

	return 0, fmt.Errorf("invalid priority: %s", value)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority: %d", int(p))
	}

	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	priority, err := ParsePriority(string(text))

	if err != nil {
		return err
	}

	*p = priority
	return nil
}

const (
	MinProgress = 0
	MaxProgress = 100

	DefaultCategory = "Work"
)

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Deadline    Date       `json:"deadline"`
	Status      TaskStatus `json:"status"`
	Progress    int        `json:"progress"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// Draft is the input of a task creation. Title and Deadline are required.
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	Deadline    Date
	Status      TaskStatus
	Category    string
}

func (d Draft) IsValid() bool {
	return d.Title != "" && !d.Deadline.IsZero()
}

// WithDefaults fills the values the new-task form preselects.
func (d Draft) WithDefaults() Draft {
	if !d.Priority.IsValid() {
		d.Priority = PriorityMedium
	}

	if !d.Status.IsValid() {
		d.Status = TaskStatusPending
	}

	if d.Category == "" {
		d.Category = DefaultCategory
	}

	return d
}

// Patch is a full replacement of the editable fields of a task.
type Patch struct {
	Title       string
	Description string
	Priority    Priority
	Deadline    Date
	Status      TaskStatus
	Progress    int
	Category    string
}

func (p Patch) IsValid() bool {
	return p.Title != "" && !p.Deadline.IsZero()
}

// PatchOf returns a Patch that reproduces t unchanged.
func PatchOf(t Task) Patch {
	return Patch{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Deadline:    t.Deadline,
		Status:      t.Status,
		Progress:    t.Progress,
		Category:    t.Category,
	}
}

func ClampProgress(progress int) int {
	return min(max(progress, MinProgress), MaxProgress)
}
