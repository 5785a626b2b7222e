// Package auth provides session-token issuance, password hashing, and the
// authentication middleware.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. POST /sign-up or /sign-in → AuthService verifies credentials
// 2. Server mints a JWT carrying {userId, email}, valid for 24 hours
// 3. Client presents it as "Authorization: Bearer <token>" (or a "token"
//    cookie) on every /api request
// 4. RequireAuth validates the signature and expiry — no database lookup —
//    and puts the embedded Identity in the request context
//
// Tokens are never stored or revoked server-side. Logout is a client-side
// credential discard; a token stays technically valid until it expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed session lifetime. After 24 hours the client must
// sign in again.
const TokenTTL = 24 * time.Hour

const issuer = "taskmaster"

// Identity is the {userId, email} pair embedded in a token at minting time.
// After validation it is trusted for the remainder of the request without
// re-querying the user store — so a change to the underlying user record
// would not invalidate already-issued tokens.
type Identity struct {
	UserID string
	Email  string
}

// TokenService signs and verifies session tokens with an HMAC secret.
// The same secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The user ID rides in the registered "sub"
// claim; the email is a private claim so /api/user-data can resolve the
// account without a second token round trip.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate mints a signed session token for the given identity, expiring
// TokenTTL from now.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment like this one.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.GenerateWithDuration(id, TokenTTL)
}

// GenerateWithDuration mints a token with a custom expiry. Exported so tests
// can produce already-expired tokens without sleeping.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	if id.UserID == "" {
		return "", errors.New("auth: identity must have a user ID")
	}

	now := time.Now()
	c := claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the Identity it
// encodes. Verification is pure computation: signature check plus clock
// comparison, no store access.
//
// jwt.WithValidMethods pins the algorithm to HS256 — without it, an
// attacker-supplied "alg" header could bypass signature verification
// (the classic algorithm-confusion attack).
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: token has no subject")
	}

	return Identity{UserID: c.Subject, Email: c.Email}, nil
}
