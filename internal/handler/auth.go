// Package handler contains the HTTP boundary: request parsing, response
// writing, and nothing else. Business rules live in internal/service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/colesites/TaskMaster/internal/auth"
	"github.com/colesites/TaskMaster/internal/service"
)

// AuthHandler serves sign-up, sign-in, and the authenticated profile route.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// signUpRequest mirrors the sign-up form: the password is typed twice and
// both copies travel to the server for the match check.
type signUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the success body for both sign-up and sign-in: the token
// the client stores, where to navigate, and a message to flash.
type authResponse struct {
	Token    string `json:"token"`
	Redirect string `json:"redirect"`
	Message  string `json:"message"`
}

// HandleSignUp registers a new account.
//
// HTTP: POST /sign-up
// Success: 201 {token, redirect, message}
// Failures: 400 (missing field, password mismatch, duplicate email), 500
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	res, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.logger.Warn("sign-up failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err, "Server error during signup")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token:    res.Token,
		Redirect: res.Redirect,
		Message:  res.Message,
	})
}

// HandleSignIn authenticates an existing account.
//
// HTTP: POST /sign-in
// Success: 200 {token, redirect, message}
// Failures: 400 (unknown user, wrong password), 500
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	res, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign-in failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err, "Server error during signin")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:    res.Token,
		Redirect: res.Redirect,
		Message:  res.Message,
	})
}

// HandleUserData returns the caller's profile.
//
// HTTP: GET /api/user-data
// Auth: required (RequireAuth has put the Identity in the context)
// Success: 200 {username, email}
// Failures: 401 (middleware), 500 — any lookup failure on this route is a
// plain "Server error", never a 404: the identity came from a valid token,
// so a missing record is a server-side inconsistency.
func (h *AuthHandler) HandleUserData(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't serve without identity.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "No token provided"})
		return
	}

	user, err := h.auth.UserData(r.Context(), identity)
	if err != nil {
		h.logger.Error("user data lookup failed",
			slog.String("userID", identity.UserID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}
