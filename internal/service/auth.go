// Package service contains the business logic layer: validation, the
// credential rules, and ownership scoping. Handlers parse HTTP and delegate
// here; this package knows nothing about status codes or JSON.
//
// THE DEPENDENCY CHAIN:
//
//	handler (HTTP) → service (rules) → repository (SQL)
//	              ↘ auth.TokenService / auth.PasswordService
//
// Services receive repository INTERFACES, not the sqlite types, so tests can
// inject in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/colesites/TaskMaster/internal/apperror"
	"github.com/colesites/TaskMaster/internal/auth"
	"github.com/colesites/TaskMaster/internal/model"
	"github.com/colesites/TaskMaster/internal/repository"
)

// AuthService implements registration, sign-in, and identity lookup.
//
// Token verification does NOT live here — it's stateless and handled
// entirely by auth.TokenService inside the middleware. This service touches
// the credential store only at issuance time.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles a freshly minted token with the navigation hint and
// message the client displays.
type AuthResult struct {
	Token    string
	Redirect string
	Message  string
}

// Register creates a new account and signs the user in.
//
// Order of checks (each maps to a distinct client-visible message):
//  1. all four fields present
//  2. password equals confirmPassword
//  3. no existing account under the email
//
// The duplicate check is a read followed by an insert, NOT an atomic
// operation. Two concurrent registrations for the same email can both pass
// the check and both insert. That race is inherited from the design this
// implements; the store tolerates the duplicate rows (see the sqlite
// migration comment).
func (s *AuthService) Register(ctx context.Context, username, email, password, confirmPassword string) (*AuthResult, error) {
	if username == "" || email == "" || password == "" || confirmPassword == "" {
		return nil, apperror.ValidationFailed("", "All fields are required")
	}
	if password != confirmPassword {
		return nil, apperror.ValidationFailed("confirmPassword", "Passwords do not match")
	}

	// Existence pre-check. Only "no such user" lets registration continue;
	// a store failure here must not be mistaken for a free email.
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("User already exists")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking existing user: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issueToken(user, "Registration successful")
}

// Authenticate verifies an email/password pair and signs the user in.
//
// "User does not exist" and "Incorrect password" are deliberately distinct
// responses. That leaks account existence, and it is kept that way: it is
// the observable behavior clients of this API already depend on.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("email", "User does not exist")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.ValidationFailed("password", "Incorrect password")
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))

	return s.issueToken(user, "Login successful")
}

// UserData returns the profile of the authenticated caller, resolved from
// the email embedded in the token — the same lookup key the token was minted
// under.
func (s *AuthService) UserData(ctx context.Context, identity auth.Identity) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user data: %w", err)
	}
	return user, nil
}

// issueToken mints the 24h session token for a user. Shared tail of
// Register and Authenticate — the token shape is identical in both.
func (s *AuthService) issueToken(user *model.User, message string) (*AuthResult, error) {
	token, err := s.tokens.Generate(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{
		Token:    token,
		Redirect: "/",
		Message:  message,
	}, nil
}
