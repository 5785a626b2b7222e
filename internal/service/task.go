package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/colesites/TaskMaster/internal/apperror"
	"github.com/colesites/TaskMaster/internal/auth"
	"github.com/colesites/TaskMaster/internal/model"
	"github.com/colesites/TaskMaster/internal/repository"
)

// MaxTitleLength bounds task titles. Descriptions are unbounded — they're
// free-form notes.
const MaxTitleLength = 200

// TaskService enforces per-owner isolation on every task operation.
//
// Every method takes the caller's verified auth.Identity and passes its
// UserID into the repository's compound predicates. The service itself never
// compares owners — that comparison is fused into the store queries, so
// there is no check/act gap to exploit.
type TaskService struct {
	repo   repository.TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(repo repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
	}
}

// CreateTaskInput carries the client-supplied fields for a new task.
// Owner and completion state are NOT here: the owner always comes from the
// verified identity, and new tasks always start incomplete.
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    *model.Date
	Priority    string
	Project     string
}

// Create validates the input and persists a new task owned by the caller.
func (s *TaskService) Create(ctx context.Context, identity auth.Identity, input CreateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("Title must be %d characters or less", MaxTitleLength))
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, apperror.ValidationFailed("priority", "Priority must be low, medium or high")
	}

	project := strings.TrimSpace(input.Project)
	if project == "" {
		project = model.DefaultProject
	}

	task := &model.Task{
		UserID:      identity.UserID,
		Title:       title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Priority:    priority,
		Project:     project,
		Completed:   false,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.String("userID", identity.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.String("id", task.ID),
		slog.String("userID", task.UserID),
	)

	return task, nil
}

// ListOwned returns every task belonging to the caller, in insertion order.
// The user_id filter is part of the store query, so tasks of other users
// can never appear in the result, whatever the population of the table.
func (s *TaskService) ListOwned(ctx context.Context, identity auth.Identity) ([]model.Task, error) {
	tasks, err := s.repo.ListTasksByOwner(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			slog.String("userID", identity.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial patch to one of the caller's tasks and returns
// the post-update record.
//
// A task that exists but belongs to someone else yields the same NotFound
// as a task that doesn't exist at all — callers cannot probe for foreign
// task IDs.
func (s *TaskService) Update(ctx context.Context, identity auth.Identity, id string, patch repository.TaskPatch) (*model.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "Task ID is required")
	}
	if patch.Empty() {
		return nil, apperror.ValidationFailed("", "No fields to update")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "Title is required")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("Title must be %d characters or less", MaxTitleLength))
		}
		patch.Title = &title
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return nil, apperror.ValidationFailed("priority", "Priority must be low, medium or high")
	}

	task, err := s.repo.UpdateTaskOwned(ctx, id, identity.UserID, patch)
	if err != nil {
		// NotFound flows through untouched; only real store faults get logged.
		return nil, err
	}

	s.logger.Info("task updated",
		slog.String("id", task.ID),
		slog.String("userID", identity.UserID),
	)

	return task, nil
}

// Delete removes one of the caller's tasks. Same NotFound semantics as
// Update for absent or foreign tasks.
func (s *TaskService) Delete(ctx context.Context, identity auth.Identity, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "Task ID is required")
	}

	if err := s.repo.DeleteTaskOwned(ctx, id, identity.UserID); err != nil {
		return err
	}

	s.logger.Info("task deleted",
		slog.String("id", id),
		slog.String("userID", identity.UserID),
	)

	return nil
}
