package handler

// Response helpers shared by every handler in this package.
//
// ERROR SHAPE:
// Every failure, whatever the status code, is the same single-field body:
//
//	{"error": "User already exists"}
//
// The message is shown to end users verbatim, so the service layer owns the
// wording and this layer only chooses the status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/colesites/TaskMaster/internal/apperror"
)

// ErrorResponse is the standard error body for all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body — once Encode starts
// writing, the response line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into a status code plus the standard
// error body.
//
// STATUS MAPPING:
//
//	ErrValidation   → 400
//	ErrConflict     → 400 (duplicate registration is a client error here,
//	                       not a 409 — the API contract predates this code)
//	ErrUnauthorized → 401
//	ErrNotFound     → 404 (also covers "exists but not yours")
//	anything else   → 500 with internalMessage
//
// internalMessage is what the client sees for unexpected faults; the real
// error never leaves the server (it may carry SQL text or file paths) and is
// logged by the service layer instead.
func writeError(w http.ResponseWriter, err error, internalMessage string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalMessage})
}
