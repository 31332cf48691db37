// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a single account.
// TokenVersion is the global revocation counter: it is bumped on every
// successful login and on password change, and any token carrying an older
// version is rejected on its next use.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Username     string    // Unique handle chosen at signup.
	Email        string    // Unique contact email, also accepted as a login identifier.
	PasswordHash string    // bcrypt hash of the password; never leaves the backend.
	TokenVersion int       // Monotonically increasing token revocation counter, starts at 1.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}
