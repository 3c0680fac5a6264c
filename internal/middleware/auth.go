package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"komunitas-be/internal/domain"
	"komunitas-be/internal/service"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
)

// ContextKey represents keys used in request context.
type ContextKey string

const (
	// SessionContextKey is the key for the admin session in context.
	SessionContextKey ContextKey = "session"
	// RequestIDContextKey is the key for the request ID in context.
	RequestIDContextKey ContextKey = "request_id"
)

// Auth validates the bearer session token and injects the resulting Session
// into the request context. Handlers read it back with SessionFromContext;
// nothing consults ambient state.
func Auth(authService *service.AuthService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeErrorResponse(w, r, err, log)
				return
			}

			ctx := r.Context()
			session, valErr := authService.ValidateToken(ctx, token)
			if valErr != nil {
				log.WithError(valErr).Debug("Session validation failed")
				writeErrorResponse(w, r, errors.AsAppError(valErr), log)
				return
			}

			if session.Role != "admin" {
				writeErrorResponse(w, r, errors.NewAuthorizationError("akses admin diperlukan"), log)
				return
			}

			ctx = context.WithValue(ctx, SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated session, or nil outside the
// Auth middleware.
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(SessionContextKey).(*domain.Session)
	return session
}

// BearerToken extracts the raw bearer token from a request.
func BearerToken(r *http.Request) (string, error) {
	token, err := bearerToken(r)
	if err != nil {
		return "", err
	}
	return token, nil
}

func bearerToken(r *http.Request) (string, *errors.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.NewAuthenticationError("header Authorization wajib diisi")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.NewAuthenticationError("format header Authorization tidak valid")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", errors.NewAuthenticationError("token wajib diisi")
	}
	return token, nil
}

// RequestID attaches a unique id to each request, echoed in the X-Request-ID
// header and available to error responses.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request id, or "" when the middleware did
// not run.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// writeErrorResponse writes a structured error response.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, appErr *errors.AppError, log *logger.Logger) {
	log.WithError(appErr).Debug("Request rejected")

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = RequestIDFromContext(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}
