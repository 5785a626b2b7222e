package model

import "time"

// Task priorities. Anything else is rejected by the service layer.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultProject is the project a task lands in when none is given.
const DefaultProject = "Inbox"

// Task represents a single to-do item belonging to exactly one user.
//
// UserID is the owner. Every repository query that reads or writes a task
// filters on it — a task is invisible to everyone but its owner, even when
// its ID is known.
//
// Deadline is a pointer because a task may have no deadline at all.
// A nil Deadline marshals as JSON null.
type Task struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Deadline    *Date     `json:"deadline"    db:"deadline"`
	Priority    string    `json:"priority"    db:"priority"`
	Project     string    `json:"project"     db:"project"`
	Completed   bool      `json:"completed"   db:"completed"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
