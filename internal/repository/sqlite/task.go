package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/colesites/TaskMaster/internal/apperror"
	"github.com/colesites/TaskMaster/internal/model"
	"github.com/colesites/TaskMaster/internal/repository"
)

// Compile-time check that *DB implements repository.TaskRepository.
var _ repository.TaskRepository = (*DB)(nil)

// taskColumns is the SELECT list shared by every task query, in the order
// scanTask expects.
const taskColumns = `id, user_id, title, description, deadline, priority, project, completed, created_at, updated_at`

// CreateTask inserts a new task. ID and timestamps are assigned here and
// written back into the caller's struct; UserID must already be set to the
// owner by the service.
func (db *DB) CreateTask(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, deadline, priority, project, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		deadlineValue(task.Deadline),
		task.Priority,
		task.Project,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}

	return nil
}

// ListTasksByOwner returns every task owned by userID, in insertion order.
// No pagination — the whole point of the app is one user's personal list,
// and that stays small.
func (db *DB) ListTasksByOwner(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTaskOwned applies a partial update to the task with the given id,
// but only if userID owns it.
//
// The ownership filter lives INSIDE the UPDATE statement:
//
//	UPDATE tasks SET ... WHERE id = ? AND user_id = ?
//
// so a task owned by someone else is indistinguishable from a missing one —
// both leave zero rows affected and come back as NotFound. There is no
// separate fetch-then-compare step, so there is no window in which the check
// and the write could disagree.
func (db *DB) UpdateTaskOwned(ctx context.Context, id, userID string, patch repository.TaskPatch) (*model.Task, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now()}

	if patch.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Deadline != nil {
		set = append(set, "deadline = ?")
		args = append(args, patch.Deadline.Time)
	}
	if patch.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, *patch.Priority)
	}
	if patch.Project != nil {
		set = append(set, "project = ?")
		args = append(args, *patch.Project)
	}
	if patch.Completed != nil {
		set = append(set, "completed = ?")
		args = append(args, *patch.Completed)
	}

	args = append(args, id, userID)

	// The SET clause is assembled from fixed column names only — every
	// user-supplied value goes through a ? placeholder.
	result, err := db.conn.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(set, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating task %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("Task not found")
	}

	return db.getTaskOwned(ctx, id, userID)
}

// DeleteTaskOwned removes the task with the given id if userID owns it.
// Same compound predicate as UpdateTaskOwned: not-owned and absent both
// report NotFound.
func (db *DB) DeleteTaskOwned(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Task not found")
	}

	return nil
}

// getTaskOwned fetches a single task under the compound (id, owner)
// predicate. Used to return the post-update record.
func (db *DB) getTaskOwned(ctx context.Context, id, userID string) (*model.Task, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Task not found")
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}

	return task, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, so scanTask serves
// single-row and multi-row queries alike.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one row's columns (in taskColumns order) into a Task,
// converting the nullable deadline column.
func scanTask(s scanner) (*model.Task, error) {
	var (
		task     model.Task
		deadline sql.NullTime
	)

	err := s.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&deadline,
		&task.Priority,
		&task.Project,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		task.Deadline = &model.Date{Time: deadline.Time}
	}

	return &task, nil
}

// deadlineValue converts an optional Date into a driver-friendly value:
// nil stays NULL, everything else becomes a plain time.Time.
func deadlineValue(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}
