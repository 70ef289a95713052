package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpmiddleware "authd/internal/delivery/http/middleware"
	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	mockUsecase "authd/internal/mocks/usecase"
	"authd/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerFixtures struct {
	handler *AuthHandler
	uc      *mockUsecase.MockAuthUsecase
	echo    *echo.Echo
}

func createTestAuthHandler(t *testing.T) handlerFixtures {
	uc := mockUsecase.NewMockAuthUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(logger).HandleHTTPError

	return handlerFixtures{
		handler: NewAuthHandler(uc, logger),
		uc:      uc,
		echo:    e,
	}
}

// perform runs a handler the way Echo would, routing any returned error
// through the server's error handler.
func (fx handlerFixtures) perform(t *testing.T, method, target, body string, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)

	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}

	if err := h(c); err != nil {
		fx.echo.HTTPErrorHandler(err, c)
	}

	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

func TestAuthHandler_Register_Success(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(&usecase.RegisterOutput{User: &entity.User{
			ID:           1,
			Name:         "Ana",
			Username:     "ana_01",
			PasswordHash: "never_leaves",
			CreatedAt:    time.Now(),
		}}, nil)

	rec := fx.perform(t, http.MethodPost, "/api/register",
		`{"name":"Ana","username":"ana_01","password":"secret1"}`, fx.handler.Register)

	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "ana_01", user["username"])

	// The response never carries credential material in any shape.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "never_leaves")
}

func TestAuthHandler_Register_TrimsNameAndUsername(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Run(func(_ context.Context, input *usecase.RegisterInput) {
			assert.Equal(t, "Ana", input.Name)
			assert.Equal(t, "ana_01", input.Username)
			// The password is forwarded untouched.
			assert.Equal(t, "  secret1  ", input.Password)
		}).
		Return(&usecase.RegisterOutput{User: &entity.User{ID: 1, Name: "Ana", Username: "ana_01"}}, nil)

	rec := fx.perform(t, http.MethodPost, "/api/register",
		`{"name":"  Ana  ","username":" ana_01 ","password":"  secret1  "}`, fx.handler.Register)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Register_ValidationFailed(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrValidationFailed.WithDetails(
			"Username must be at least 3 characters | Password must be at least 6 characters"))

	rec := fx.perform(t, http.MethodPost, "/api/register",
		`{"name":"Ana","username":"ab","password":"123"}`, fx.handler.Register)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, " | ")
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrUsernameTaken.WrapMessage("username already exists"))

	rec := fx.perform(t, http.MethodPost, "/api/register",
		`{"name":"Ana","username":"ana_01","password":"secret1"}`, fx.handler.Register)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "USERNAME_TAKEN", env.Error.Code)
}

func TestAuthHandler_Register_StoreFailureIsOpaque(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.NewDatabaseExecuteError(
			errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			"failed to create user"))

	rec := fx.perform(t, http.MethodPost, "/api/register",
		`{"name":"Ana","username":"ana_01","password":"secret1"}`, fx.handler.Register)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Infrastructure detail stays server-side.
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Empty(t, env.Error.Details)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Username: "ana_01", Password: "secret1"}).
		Return(&usecase.LoginOutput{User: &entity.User{ID: 7, Name: "Ana", Username: "ana_01"}}, nil)

	rec := fx.perform(t, http.MethodPost, "/api/login",
		`{"username":"ana_01","password":"secret1"}`, fx.handler.Login)

	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, float64(7), user["id"])
	assert.Equal(t, "ana_01", user["username"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_Login_FailureOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "unknown username", err: domainerrors.ErrUsernameNotFound.WrapMessage("login failed"), wantCode: "USERNAME_NOT_FOUND"},
		{name: "wrong password", err: domainerrors.ErrWrongPassword.WrapMessage("login failed"), wantCode: "WRONG_PASSWORD"},
		{name: "empty input", err: domainerrors.ErrValidationFailed.WithDetails("Username is required"), wantCode: "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthHandler(t)

			fx.uc.EXPECT().
				Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
				Return(nil, tt.err)

			rec := fx.perform(t, http.MethodPost, "/api/login",
				`{"username":"ana_01","password":"x"}`, fx.handler.Login)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestAuthHandler_CheckUsername(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().CheckUsername(mock.Anything, "ana_01").Return(true, nil)

	rec := fx.perform(t, http.MethodGet, "/api/check-username/ana_01", "",
		fx.handler.CheckUsername, "username", "ana_01")

	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var data map[string]bool
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data["available"])
}

func TestAuthHandler_ListUsers(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.uc.EXPECT().ListUsers(mock.Anything).Return(&usecase.ListUsersOutput{
		Count: 2,
		Users: []*entity.User{
			{ID: 1, Name: "Ana", Username: "ana_01", CreatedAt: time.Now()},
			{ID: 2, Name: "Bob", Username: "bob_02", CreatedAt: time.Now()},
		},
	}, nil)

	rec := fx.perform(t, http.MethodGet, "/api/users", "", fx.handler.ListUsers)

	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var data struct {
		Count int               `json:"count"`
		Users []json.RawMessage `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2, data.Count)
	assert.Len(t, data.Users, 2)
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
}
