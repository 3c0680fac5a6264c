package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"komunitas-be/internal/config"
	"komunitas-be/internal/domain"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
	"komunitas-be/pkg/redis"
)

// AuthService mints and validates admin sessions. The session object replaces
// the old ambient "logged in" flag: login and logout are explicit
// transitions, and the middleware passes the session to the handlers that
// need it.
type AuthService struct {
	cfg   *config.Config
	redis *redis.Client
	log   *logger.Logger
	now   func() time.Time
}

// NewAuthService creates an auth service.
func NewAuthService(cfg *config.Config, redisClient *redis.Client, log *logger.Logger) *AuthService {
	return &AuthService{cfg: cfg, redis: redisClient, log: log, now: time.Now}
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the admin credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	if s.cfg.AdminPassword == "" {
		return "", nil, errors.NewAuthenticationError("login admin belum dikonfigurasi")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		s.log.WithField("username", username).Warn("Failed login attempt")
		return "", nil, errors.NewAuthenticationError("nama pengguna atau kata sandi salah")
	}

	now := s.now()
	expires := now.Add(s.cfg.SessionTTL)
	claims := sessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", nil, errors.NewInternalError("gagal membuat token sesi", err)
	}

	session := &domain.Session{
		Username:  username,
		Role:      "admin",
		IssuedAt:  now,
		ExpiresAt: expires,
	}
	return token, session, nil
}

// ValidateToken parses and verifies a session token, rejecting revoked ones.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAuthenticationError("metode tanda tangan token tidak dikenal")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, errors.NewAuthenticationError("sesi tidak valid atau sudah berakhir")
	}
	// Tokens minted elsewhere with the shared secret may omit iat or exp.
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, errors.NewAuthenticationError("token sesi tidak lengkap")
	}

	if s.redis != nil && claims.ID != "" {
		revoked, err := s.redis.Exists(ctx, s.redis.KeyBuilder.KeyTokenRevoked(claims.ID))
		if err == nil && revoked > 0 {
			return nil, errors.NewAuthenticationError("sesi sudah diakhiri")
		}
	}

	session := &domain.Session{
		Username:  claims.Subject,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if !session.Active(s.now()) {
		return nil, errors.NewAuthenticationError("sesi sudah berakhir")
	}
	return session, nil
}

// Logout revokes a token for its remaining lifetime. Without redis the token
// simply ages out at its expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return errors.NewAuthenticationError("sesi tidak valid")
	}

	if s.redis == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	// SetNX: logging out twice with the same token keeps the first
	// revocation's TTL instead of extending it.
	_, err = s.redis.SetNX(ctx, s.redis.KeyBuilder.KeyTokenRevoked(claims.ID), "1", remaining)
	return err
}
