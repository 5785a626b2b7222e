// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage is the concrete implementation; tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/colesites/TaskMaster/internal/model"
)

// TaskPatch is a partial update: nil fields are left untouched, non-nil
// fields replace the stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    *model.Date
	Priority    *string
	Project     *string
	Completed   *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Deadline == nil &&
		p.Priority == nil && p.Project == nil && p.Completed == nil
}

// UserRepository persists account records.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// TaskRepository persists task records with ownership scoping.
//
// Every method that touches an existing task takes the owner's user ID and
// applies it INSIDE the store query (WHERE id = ? AND user_id = ?). There is
// no fetch-then-compare step anywhere, so no gap between the ownership check
// and the action.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	ListTasksByOwner(ctx context.Context, userID string) ([]model.Task, error)
	UpdateTaskOwned(ctx context.Context, id, userID string, patch TaskPatch) (*model.Task, error)
	DeleteTaskOwned(ctx context.Context, id, userID string) error
}
