package service_test

import (
	"context"
	"testing"

	"github.com/amine/notehub/internal/domain"
	"github.com/amine/notehub/internal/repository/postgres"
	"github.com/amine/notehub/internal/service"
	"github.com/amine/notehub/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Signup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.SignupInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful signup",
			input: service.SignupInput{
				FirstName: "Nadia",
				LastName:  "Benali",
				Email:     "nadia@example.com",
				Password:  "secret123",
			},
		},
		{
			name: "duplicate email",
			input: service.SignupInput{
				FirstName: "Other",
				LastName:  "Person",
				Email:     "taken@example.com",
				Password:  "secret123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("taken@example.com").
					Build(t, testDB.DB)
			},
			wantErr: domain.ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := authService.Signup(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash, "password must be stored hashed")

			// Stored row never carries the plaintext either
			stored, err := repos.User.GetByEmail(ctx, tt.input.Email)
			require.NoError(t, err)
			assert.NotEqual(t, tt.input.Password, stored.PasswordHash)
			assert.Nil(t, stored.RefreshTokenHash, "signup must not log the user in")
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "successful login",
			email:    user.Email,
			password: rawPassword,
		},
		{
			name:     "wrong password",
			email:    user.Email,
			password: "wrongpassword",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "anypassword",
			wantErr:  domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)

			// Login persists a hash of the refresh token, never the raw value
			stored, err := repos.User.GetByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, stored.RefreshTokenHash)
			assert.NotEqual(t, result.RefreshToken, *stored.RefreshTokenHash)
		})
	}
}

func TestAuthService_LoginErrorsAreIndistinguishable(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithEmail("probe@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	_, errUnknown := authService.Login(ctx, "ghost@example.com", "whatever")
	_, errWrongPw := authService.Login(ctx, user.Email, "whatever")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error(),
		"unknown email and wrong password must produce the same error")
}

func TestAuthService_RefreshTokens(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)

	t.Run("valid refresh rotates tokens", func(t *testing.T) {
		result, err := authService.RefreshTokens(ctx, user.ID, login.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		// Rotation: the first token is now dead
		_, err = authService.RefreshTokens(ctx, user.ID, login.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrRefreshTokenInvalid)

		// The new one still works
		_, err = authService.RefreshTokens(ctx, user.ID, result.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := authService.RefreshTokens(ctx, uuid.New(), login.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("logged-out user has no hash on file", func(t *testing.T) {
		result, err := authService.Login(ctx, user.Email, rawPassword)
		require.NoError(t, err)

		require.NoError(t, authService.Logout(ctx, user.ID))

		_, err = authService.RefreshTokens(ctx, user.ID, result.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})
}

func TestAuthService_ParseAccessToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid access token", token: login.AccessToken},
		{name: "refresh token signed under the wrong secret", token: login.RefreshToken, wantErr: true},
		{name: "malformed token", token: "notavalidjwt", wantErr: true},
		{name: "empty token", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := authService.ParseAccessToken(tt.token)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, subject)
		})
	}
}

func TestAuthService_Validate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	got, err := authService.Validate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = authService.Validate(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
