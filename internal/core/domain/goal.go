package domain

import (
	"time"
)

// Goal is a study objective with a hard deadline. Tasks allocated for a goal
// are spread across the time remaining until its deadline.
type Goal struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Expired reports whether the goal's deadline has already passed.
func (g *Goal) Expired(now time.Time) bool {
	return g.Deadline.Before(now)
}

// GoalProgress summarizes task completion for a single goal.
type GoalProgress struct {
	GoalID     string `json:"goal_id"`
	Pending    int    `json:"pending"`
	InProgress int    `json:"in_progress"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
}
