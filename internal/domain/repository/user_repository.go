// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authd/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// Create persists a new user entity to the storage. The uniqueness check
	// and the insert are a single atomic operation: two concurrent creates
	// for the same username can never both succeed. A conflict surfaces as
	// domain/errors.ErrUsernameTaken, other storage failures as a generic
	// database error.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername retrieves a single user by their unique username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// List retrieves all users. The password hash is never loaded into the
	// returned entities.
	List(ctx context.Context) ([]*entity.User, error)

	// Exists reports whether a username is already taken. This is an
	// advisory probe for availability checks only: another request may claim
	// the username between this call and a later Create. Create's atomic
	// constraint is the sole correctness backstop.
	Exists(ctx context.Context, username string) (bool, error)
}
