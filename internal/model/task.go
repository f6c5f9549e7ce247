package model

import "time"

// Status literals are case-sensitive wire values.
const (
	StatusTodo       = "todo"
	StatusInProgress = "inprogress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   int64      `json:"project_id"`
	AssignedTo  *int64     `json:"assigned_to"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskPatch is a merge-if-present partial update. A nil pointer or an
// empty string is a no-op, never an explicit clear.
type TaskPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *int64     `json:"assigned_to"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
