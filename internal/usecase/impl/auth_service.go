// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "authd/internal/delivery/context"
	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
	"authd/internal/domain/service"
	"authd/internal/domain/validation"
	"authd/internal/usecase"

	"github.com/pkg/errors"
)

// violationSeparator joins individual violation messages for the client.
const violationSeparator = " | "

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	logger   *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete user registration process.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	if violations := validation.Registration(input.Name, input.Username, input.Password); len(violations) > 0 {
		srv.log(ctx).Warn("Registration input rejected",
			slog.String("username", input.Username),
			slog.Int("violations", len(violations)),
		)

		return nil, domainerrors.ErrValidationFailed.WithDetails(strings.Join(violations, violationSeparator))
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	// No availability pre-check here. The store's unique constraint decides
	// the winner between concurrent registrations for the same username.
	newUser := &entity.User{
		Name:         input.Name,
		Username:     input.Username,
		PasswordHash: hashedPassword,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, domainerrors.ErrUsernameTaken) {
			srv.log(ctx).Warn("Username already taken", slog.String("username", input.Username))

			return nil, err
		}
		srv.log(ctx).Error("Failed to create user", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed",
		slog.String("username", newUser.Username),
		slog.Uint64("userID", uint64(newUser.ID)),
	)

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login verifies a username/password pair against the stored credential.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if violations := validation.Login(input.Username, input.Password); len(violations) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails(strings.Join(violations, violationSeparator))
	}

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login attempt for unknown username", slog.String("username", input.Username))

			return nil, domainerrors.ErrUsernameNotFound.WrapMessage("login failed")
		}
		srv.log(ctx).Error("Failed to load user during login", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.String("username", input.Username))

		return nil, domainerrors.ErrWrongPassword.WrapMessage("login failed")
	}

	srv.log(ctx).Info("Login successful",
		slog.String("username", user.Username),
		slog.Uint64("userID", uint64(user.ID)),
	)

	// The credential material never leaves the usecase boundary.
	user.PasswordHash = ""

	return &usecase.LoginOutput{User: user}, nil
}

// CheckUsername reports whether a username is still available.
// Between this check and a later Register call another request may claim the
// same username; Create's atomic uniqueness guarantee is the backstop.
func (srv *authService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := srv.userRepo.Exists(ctx, username)
	if err != nil {
		srv.log(ctx).Error("Failed to check username availability", slog.String("username", username), slog.Any("error", err))

		return false, err
	}

	return !exists, nil
}

// ListUsers returns all registered users without password hashes.
func (srv *authService) ListUsers(ctx context.Context) (*usecase.ListUsersOutput, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list users", slog.Any("error", err))

		return nil, err
	}

	return &usecase.ListUsersOutput{
		Count: len(users),
		Users: users,
	}, nil
}
