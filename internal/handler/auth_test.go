package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/colesites/TaskMaster/internal/auth"
	"github.com/colesites/TaskMaster/internal/handler"
	"github.com/colesites/TaskMaster/internal/repository/sqlite"
	"github.com/colesites/TaskMaster/internal/service"
)

// testEnv bundles the real stack behind the handlers: an in-memory store,
// real token and password services, and both handler sets. Handlers are
// invoked directly; routing and RequireAuth are covered in internal/server.
type testEnv struct {
	authHandler *handler.AuthHandler
	taskHandler *handler.TaskHandler
	authService *service.AuthService
	tokens      *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	authService := service.NewAuthService(db, tokens, passwords, logger)
	taskService := service.NewTaskService(db, logger)

	return &testEnv{
		authHandler: handler.NewAuthHandler(authService, logger),
		taskHandler: handler.NewTaskHandler(taskService, logger),
		authService: authService,
		tokens:      tokens,
	}
}

// signUp registers an account through the service and returns the caller's
// identity, for tests that need an existing user without going through HTTP.
func (e *testEnv) signUp(t *testing.T, username, email, password string) auth.Identity {
	t.Helper()

	res, err := e.authService.Register(t.Context(), username, email, password, password)
	if err != nil {
		t.Fatalf("Register(%q): %v", email, err)
	}
	id, err := e.tokens.Validate(res.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return id
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// errorBody decodes the single-field error envelope every failure uses.
func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error
}

// =========================================================================
// SIGN-UP TESTS
// =========================================================================

func TestHandleSignUp(t *testing.T) {
	t.Run("valid registration", func(t *testing.T) {
		env := newTestEnv(t)

		req := postJSON("/sign-up", `{"username":"casey","email":"casey@example.com","password":"hunter22","confirmPassword":"hunter22"}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var res struct {
			Token    string `json:"token"`
			Redirect string `json:"redirect"`
			Message  string `json:"message"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "/", res.Redirect)
		assert.Equal(t, "Registration successful", res.Message)

		// The token must be immediately usable.
		id, err := env.tokens.Validate(res.Token)
		assert.NoError(t, err)
		assert.Equal(t, "casey@example.com", id.Email)
	})

	t.Run("missing field", func(t *testing.T) {
		env := newTestEnv(t)

		req := postJSON("/sign-up", `{"username":"casey","email":"casey@example.com","password":"hunter22"}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "All fields are required", errorBody(t, rr))
	})

	t.Run("password mismatch", func(t *testing.T) {
		env := newTestEnv(t)

		req := postJSON("/sign-up", `{"username":"casey","email":"casey@example.com","password":"hunter22","confirmPassword":"hunter23"}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Passwords do not match", errorBody(t, rr))
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t, "casey", "casey@example.com", "hunter22")

		req := postJSON("/sign-up", `{"username":"other","email":"casey@example.com","password":"hunter22","confirmPassword":"hunter22"}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "User already exists", errorBody(t, rr))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		env := newTestEnv(t)

		req := postJSON("/sign-up", `{"username":`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignUp(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// =========================================================================
// SIGN-IN TESTS
// =========================================================================

func TestHandleSignIn(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t, "casey", "casey@example.com", "hunter22")

		req := postJSON("/sign-in", `{"email":"casey@example.com","password":"hunter22"}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignIn(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Token   string `json:"token"`
			Message string `json:"message"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "Login successful", res.Message)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)

		req := postJSON("/sign-in", `{"email":"nobody@example.com","password":"hunter22"}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignIn(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "User does not exist", errorBody(t, rr))
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		env.signUp(t, "casey", "casey@example.com", "hunter22")

		req := postJSON("/sign-in", `{"email":"casey@example.com","password":"wrong"}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignIn(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Incorrect password", errorBody(t, rr))
	})

	t.Run("missing credentials", func(t *testing.T) {
		env := newTestEnv(t)

		req := postJSON("/sign-in", `{"email":"","password":""}`)
		rr := httptest.NewRecorder()

		env.authHandler.HandleSignIn(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Email and password are required", errorBody(t, rr))
	})
}

// =========================================================================
// USER DATA TESTS
// =========================================================================

func TestHandleUserData(t *testing.T) {
	t.Run("returns profile for authenticated caller", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.signUp(t, "casey", "casey@example.com", "hunter22")

		req := httptest.NewRequest(http.MethodGet, "/api/user-data", nil)
		req = req.WithContext(auth.NewContext(req.Context(), id))
		rr := httptest.NewRecorder()

		env.authHandler.HandleUserData(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res map[string]string
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "casey", res["username"])
		assert.Equal(t, "casey@example.com", res["email"])
		// Never leak the password hash.
		assert.NotContains(t, res, "passwordHash")
	})

	t.Run("missing identity is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/api/user-data", nil)
		rr := httptest.NewRecorder()

		env.authHandler.HandleUserData(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("identity without backing record is a server error", func(t *testing.T) {
		env := newTestEnv(t)

		ghost := auth.Identity{UserID: "gone", Email: "gone@example.com"}
		req := httptest.NewRequest(http.MethodGet, "/api/user-data", nil)
		req = req.WithContext(auth.NewContext(req.Context(), ghost))
		rr := httptest.NewRecorder()

		env.authHandler.HandleUserData(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Server error", errorBody(t, rr))
	})
}
