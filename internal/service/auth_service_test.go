package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"komunitas-be/internal/config"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
	"komunitas-be/pkg/redis"
)

func newTestAuth(t *testing.T, client *redis.Client) *AuthService {
	t.Helper()
	log, err := logger.New("error", "test")
	require.NoError(t, err)
	cfg := &config.Config{
		JWTSecret:     "test-secret-test-secret-test-secret",
		SessionTTL:    time.Hour,
		AdminUsername: "admin",
		AdminPassword: "rahasia-sekali",
	}
	return NewAuthService(cfg, client, log)
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	auth := newTestAuth(t, nil)
	ctx := context.Background()

	token, session, err := auth.Login(ctx, "admin", "rahasia-sekali")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, "admin", session.Role)
	assert.True(t, session.Active(time.Now()))

	validated, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", validated.Username)
	assert.Equal(t, "admin", validated.Role)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	auth := newTestAuth(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "salah"},
		{"wrong username", "bukan-admin", "rahasia-sekali"},
		{"both wrong", "bukan-admin", "salah"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.Login(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
		})
	}
}

func TestAuthService_LoginDisabledWithoutPassword(t *testing.T) {
	auth := newTestAuth(t, nil)
	auth.cfg.AdminPassword = ""

	_, _, err := auth.Login(context.Background(), "admin", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
}

func TestAuthService_ValidateRejectsGarbageAndForeignTokens(t *testing.T) {
	auth := newTestAuth(t, nil)
	ctx := context.Background()

	_, err := auth.ValidateToken(ctx, "not-a-token")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))

	// A token signed with a different secret is rejected.
	other := newTestAuth(t, nil)
	other.cfg.JWTSecret = "secret-lain-secret-lain-secret-lain"
	foreign, _, err := other.Login(ctx, "admin", "rahasia-sekali")
	require.NoError(t, err)

	_, err = auth.ValidateToken(ctx, foreign)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
}

func TestAuthService_RejectsTokenWithoutExpiry(t *testing.T) {
	auth := newTestAuth(t, nil)
	ctx := context.Background()

	// A validly signed token minted by another service sharing the secret,
	// carrying neither iat nor exp.
	bare, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
	}).SignedString([]byte(auth.cfg.JWTSecret))
	require.NoError(t, err)

	_, err = auth.ValidateToken(ctx, bare)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))

	err = auth.Logout(ctx, bare)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
}

func TestAuthService_ValidateRejectsExpiredToken(t *testing.T) {
	auth := newTestAuth(t, nil)
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	ctx := context.Background()

	token, _, err := auth.Login(ctx, "admin", "rahasia-sekali")
	require.NoError(t, err)

	_, err = auth.ValidateToken(ctx, token)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	client, _ := newTestRedis(t)
	auth := newTestAuth(t, client)
	ctx := context.Background()

	token, _, err := auth.Login(ctx, "admin", "rahasia-sekali")
	require.NoError(t, err)

	_, err = auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, token))

	_, err = auth.ValidateToken(ctx, token)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
}

func TestAuthService_LogoutWithoutRedisIsNoop(t *testing.T) {
	auth := newTestAuth(t, nil)
	ctx := context.Background()

	token, _, err := auth.Login(ctx, "admin", "rahasia-sekali")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, token))

	// Without a revocation store the token stays valid until expiry.
	_, err = auth.ValidateToken(ctx, token)
	require.NoError(t, err)
}
