// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core entity in the system, representing a single registered account.
type User struct {
	ID           uint      // Surrogate primary key, assigned by the store on creation.
	Name         string    // The user's display name. No format restriction.
	Username     string    // The unique login identifier. Immutable after creation.
	PasswordHash string    // The bcrypt digest of the user's password. Never the plaintext.
	CreatedAt    time.Time // Timestamp of when this account was created. Set once.
}
