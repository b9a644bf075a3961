package domain

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the known task priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is one scheduled step of a study plan. Its due date is computed at
// allocation time from the batch position and the owning goal's deadline.
type Task struct {
	ID               string       `json:"id"`
	GoalID           string       `json:"goal_id"`
	OwnerID          string       `json:"owner_id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Priority         TaskPriority `json:"priority"`
	EstimatedMinutes int          `json:"estimated_minutes"` // 0 means no estimate
	OrderIndex       int          `json:"order_index"`       // 1-based position within the allocated batch
	DueDate          time.Time    `json:"due_date"`
	Dependencies     []string     `json:"dependencies,omitempty"` // ids of prerequisite tasks, informational only
	Status           TaskStatus   `json:"status"`
	RemindedAt       *time.Time   `json:"reminded_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Overdue reports whether the task is past due and still open.
func (t *Task) Overdue(now time.Time) bool {
	return t.Status != TaskStatusCompleted && t.DueDate.Before(now)
}

// SubtaskSpec describes one subtask submitted for allocation. Due dates are
// not part of the input, they are assigned by the allocator.
type SubtaskSpec struct {
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Priority         TaskPriority `json:"priority,omitempty"`
	EstimatedMinutes int          `json:"estimated_minutes,omitempty"`
	OrderIndex       int          `json:"order_index,omitempty"`
	Dependencies     []string     `json:"dependencies,omitempty"`
}

// ReminderEvent is the queue payload published when a task enters its
// reminder window.
type ReminderEvent struct {
	TaskID   string       `json:"task_id"`
	GoalID   string       `json:"goal_id"`
	OwnerID  string       `json:"owner_id"`
	Title    string       `json:"title"`
	Priority TaskPriority `json:"priority"`
	DueDate  time.Time    `json:"due_date"`
}
