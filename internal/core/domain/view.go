package domain

const (
	FilterAll = "All"

	SortByDeadline = "deadline"
	SortByPriority = "priority"

	UpcomingWindowDays = 3
)

// ViewQuery selects and orders the display list. Empty and "All" filters
// keep every task.
type ViewQuery struct {
	Status   string
	Priority string
	Category string
	Search   string
	Sort     string
}

type Stats struct {
	Total             int    `json:"total"`
	Completed         int    `json:"completed"`
	InProgress        int    `json:"inProgress"`
	Pending           int    `json:"pending"`
	CompletionRate    int    `json:"completionRate"`
	UpcomingDeadlines []Task `json:"upcomingDeadlines"`
	Overdue           []Task `json:"overdue"`
}

// TaskView is a task annotated with its deadline proximity relative to today.
type TaskView struct {
	Task
	DaysUntil int  `json:"daysUntil"`
	Overdue   bool `json:"overdue"`
	DueSoon   bool `json:"dueSoon"`
}

type DashboardView struct {
	Tasks []TaskView `json:"tasks"`
	Stats Stats      `json:"stats"`
}
