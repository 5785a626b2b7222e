package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// okHandler records the identity it sees and answers 200.
type okHandler struct {
	sawIdentity Identity
	sawOK       bool
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.sawIdentity, h.sawOK = IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_NoToken(t *testing.T) {
	ts := newTestTokenService(t)
	next := &okHandler{}
	mw := RequireAuth(ts)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if next.sawOK {
		t.Error("handler must not run without a token")
	}
	if body := rr.Body.String(); body != `{"error":"No token provided"}` {
		t.Errorf("body = %s", body)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)
	mw := RequireAuth(ts)(&okHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if body := rr.Body.String(); body != `{"error":"Invalid token"}` {
		t.Errorf("body = %s", body)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	mw := RequireAuth(ts)(&okHandler{})

	token, _ := ts.GenerateWithDuration(Identity{UserID: "u1", Email: "a@x.com"}, -time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	ts := newTestTokenService(t)
	next := &okHandler{}
	mw := RequireAuth(ts)(next)

	want := Identity{UserID: "u1", Email: "a@x.com"}
	token, _ := ts.Generate(want)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !next.sawOK {
		t.Fatal("handler should see an identity in the context")
	}
	if next.sawIdentity != want {
		t.Errorf("identity = %+v, want %+v", next.sawIdentity, want)
	}
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	ts := newTestTokenService(t)
	next := &okHandler{}
	mw := RequireAuth(ts)(next)

	token, _ := ts.Generate(Identity{UserID: "u2", Email: "b@x.com"})

	// No Authorization header — just the cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if next.sawIdentity.UserID != "u2" {
		t.Errorf("identity.UserID = %q, want %q", next.sawIdentity.UserID, "u2")
	}
}

func TestRequireAuth_HeaderWinsOverCookie(t *testing.T) {
	ts := newTestTokenService(t)
	next := &okHandler{}
	mw := RequireAuth(ts)(next)

	headerToken, _ := ts.Generate(Identity{UserID: "header-user", Email: "h@x.com"})
	cookieToken, _ := ts.Generate(Identity{UserID: "cookie-user", Email: "c@x.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+headerToken)
	req.AddCookie(&http.Cookie{Name: "token", Value: cookieToken})
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if next.sawIdentity.UserID != "header-user" {
		t.Errorf("identity.UserID = %q, want header token to win", next.sawIdentity.UserID)
	}
}

func TestIdentityFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Error("IdentityFromContext() should report false on a bare context")
	}
}
