// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the external login key. Its uniqueness is enforced by a pre-insert
// check in the service layer, NOT by a database constraint — see the comment
// in the sqlite migration for the trade-off.
//
// WHY json:"-" ON PasswordHash?
// The hash must never leave the server. The "-" tag tells encoding/json to
// skip the field entirely, so even if a handler serializes the whole User
// struct, the hash can't leak into a response body.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
