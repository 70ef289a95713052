package impl

import (
	"context"
	"testing"
	"time"

	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
	mockRepo "authd/internal/mocks/repository"
	mockSvc "authd/internal/mocks/service"
	"authd/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service  usecase.AuthUsecase
	userRepo *mockRepo.MockUserRepository
	hasher   *mockSvc.MockPasswordHasher
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	service := NewAuthService(userRepo, hasher, newDiscardLogger())

	return authServiceFixtures{
		service:  service,
		userRepo: userRepo,
		hasher:   hasher,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Ana",
		Username: "ana_01",
		Password: "secret1",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, user *entity.User) {
			user.ID = 1
			user.CreatedAt = time.Now()
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, uint(1), output.User.ID)
	assert.Equal(t, input.Username, output.User.Username)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
}

func TestAuthService_Register_ValidationFailed(t *testing.T) {
	fx := createTestAuthService(t)

	// Name, username and password all break a rule, so three violations are
	// reported together. Neither the hasher nor the store is touched.
	output, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "A",
		Username: "ab",
		Password: "123",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details(), "Name must be at least 2 characters")
	assert.Contains(t, appErr.Details(), "Username must be at least 3 characters")
	assert.Contains(t, appErr.Details(), "Password must be at least 6 characters")
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Ana",
		Username: "ana_01",
		Password: "secret1",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUsernameTaken.WrapMessage("username already exists"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameTaken))
}

func TestAuthService_Register_StoreUnavailable(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Ana",
		Username: "ana_01",
		Password: "secret1",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "failed to create user"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.Equal(t, 500, appErr.HTTPCode())
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Ana",
		Username: "ana_01",
		Password: "secret1",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.New("entropy exhausted"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	stored := &entity.User{
		ID:           7,
		Name:         "Ana",
		Username:     "ana_01",
		PasswordHash: "hashed_password",
		CreatedAt:    time.Now(),
	}

	fx.userRepo.EXPECT().FindByUsername(ctx, "ana_01").Return(stored, nil)
	fx.hasher.EXPECT().Check("secret1", "hashed_password").Return(true)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ana_01", Password: "secret1"})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, uint(7), output.User.ID)
	assert.Equal(t, "ana_01", output.User.Username)
	// The credential material never crosses the usecase boundary.
	assert.Empty(t, output.User.PasswordHash)
}

func TestAuthService_Login_UsernameNotFound(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	fx.userRepo.EXPECT().FindByUsername(ctx, "missing").Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "missing", Password: "x"})

	require.Error(t, err)
	assert.Nil(t, output)
	// Unknown username is a distinct outcome from a wrong password.
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameNotFound))
	assert.False(t, errors.Is(err, domainerrors.ErrWrongPassword))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	stored := &entity.User{
		ID:           7,
		Username:     "ana_01",
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().FindByUsername(ctx, "ana_01").Return(stored, nil)
	fx.hasher.EXPECT().Check("wrong", "hashed_password").Return(false)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ana_01", Password: "wrong"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrWrongPassword))
}

func TestAuthService_Login_ValidationFailed(t *testing.T) {
	fx := createTestAuthService(t)

	// Empty fields never reach the store.
	output, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "", Password: ""})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAuthService_CheckUsername(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().Exists(ctx, "taken").Return(true, nil)
	fx.userRepo.EXPECT().Exists(ctx, "free").Return(false, nil)

	available, err := fx.service.CheckUsername(ctx, "taken")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = fx.service.CheckUsername(ctx, "free")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestAuthService_CheckUsername_StoreError(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	storeErr := domainerrors.NewDatabaseExecuteError(errors.New("timeout"), "failed to check username existence")
	fx.userRepo.EXPECT().Exists(ctx, "any").Return(false, storeErr)

	available, err := fx.service.CheckUsername(ctx, "any")
	require.Error(t, err)
	assert.False(t, available)
}

func TestAuthService_ListUsers(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().List(ctx).Return([]*entity.User{
		{ID: 1, Name: "Ana", Username: "ana_01"},
		{ID: 2, Name: "Bob", Username: "bob_02"},
	}, nil)

	output, err := fx.service.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Users, 2)
	for _, user := range output.Users {
		assert.Empty(t, user.PasswordHash)
	}
}
