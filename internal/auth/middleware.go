package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE?
// context.WithValue keys are compared by type AND value. With a plain string
// key, any package could read or shadow the identity. A package-private type
// means only this package can produce the key, so only this package controls
// what lives under it.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth enforces authentication on protected routes.
//
// It reads the token from the "Authorization: Bearer <token>" header, falling
// back to a "token" cookie, validates it, and stores the embedded Identity in
// the request context. If the token is missing or invalid the chain stops
// with a 401 and the handler is never invoked.
//
// Per-request state machine:
//
//	Unauthenticated → token present? → TokenPresented
//	TokenPresented  → signature+expiry valid? → Authenticated | Rejected(401)
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				unauthorized(w, "No token provided")
				return
			}

			id, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}

// NewContext returns a context carrying the given identity. RequireAuth uses
// it on every authenticated request; tests use it to call handlers directly.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated caller's identity.
//
// Returns (Identity{}, false) on an unauthenticated request. On any route
// behind RequireAuth the second return is always true.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// extractToken pulls the raw token string out of the request.
// Header first, cookie fallback; a request carrying both uses the header.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}

	return ""
}

// unauthorized writes the single-field error body used across the API.
// Kept inline here (instead of importing the handler package) to avoid an
// import cycle: handler depends on auth for IdentityFromContext.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
