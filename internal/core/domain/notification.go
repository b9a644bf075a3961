package domain

import (
	"time"
)

// Notification is an in-app message produced from a consumed reminder event.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	DueDate   time.Time `json:"due_date"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
