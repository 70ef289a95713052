// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authd/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string
	Username string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the authenticated user after a successful login.
// The entity's PasswordHash is always cleared before it crosses this boundary.
type LoginOutput struct {
	User *entity.User
}

// ListUsersOutput returns all registered users without credential material.
type ListUsersOutput struct {
	Count int
	Users []*entity.User
}

// AuthUsecase defines the interface for authentication-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register validates the input, hashes the password, and creates the
	// user. Exactly one new user row exists on success, none on any failure.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies the credentials and returns the matching user.
	// "Username not found" and "wrong password" are distinct outcomes.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// CheckUsername reports whether a username is still available. The
	// answer is a point-in-time hint, not a reservation.
	CheckUsername(ctx context.Context, username string) (bool, error)

	// ListUsers returns all registered users, excluding password hashes.
	ListUsers(ctx context.Context) (*ListUsersOutput, error)
}
