package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/colesites/TaskMaster/internal/auth"
	"github.com/colesites/TaskMaster/internal/model"
	"github.com/colesites/TaskMaster/internal/repository"
	"github.com/colesites/TaskMaster/internal/service"
)

// TaskHandler serves the ownership-scoped task CRUD routes. Every route is
// behind RequireAuth; the identity in the context is the only owner these
// handlers ever act for.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// createTaskRequest is the POST body. Owner and completion state are not
// accepted from the client — owner comes from the token, completion starts
// false.
type createTaskRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Deadline    *model.Date `json:"deadline"`
	Priority    string      `json:"priority"`
	Project     string      `json:"project"`
}

// updateTaskRequest is the PATCH body. Pointer fields distinguish "absent"
// from "set to the zero value" — {"completed": false} must clear the flag,
// not be ignored.
type updateTaskRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Deadline    *model.Date `json:"deadline"`
	Priority    *string     `json:"priority"`
	Project     *string     `json:"project"`
	Completed   *bool       `json:"completed"`
}

// HandleCreate persists a new task owned by the caller.
//
// HTTP: POST /api/tasks
// Success: 201 Task
// Failures: 400 (bad body / missing title / bad priority), 401
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "No token provided"})
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	task, err := h.tasks.Create(r.Context(), identity, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		Project:     req.Project,
	})
	if err != nil {
		writeError(w, err, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleList returns every task owned by the caller.
//
// HTTP: GET /api/tasks
// Success: 200 [Task] — owned tasks only, insertion order, no pagination
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "No token provided"})
		return
	}

	tasks, err := h.tasks.ListOwned(r.Context(), identity)
	if err != nil {
		writeError(w, err, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleUpdate applies a partial patch to one of the caller's tasks.
//
// HTTP: PATCH /api/tasks/{id}
// Success: 200 updated Task
// Failures: 400, 401, 404 — a task owned by someone else answers 404, the
// same as one that doesn't exist.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "No token provided"})
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	task, err := h.tasks.Update(r.Context(), identity, r.PathValue("id"), repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		Project:     req.Project,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(w, err, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleDelete removes one of the caller's tasks.
//
// HTTP: DELETE /api/tasks/{id}
// Success: 200 {"message": "Task deleted"}
// Failures: 401, 404 (absent or not owned), 500
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "No token provided"})
		return
	}

	if err := h.tasks.Delete(r.Context(), identity, r.PathValue("id")); err != nil {
		writeError(w, err, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
