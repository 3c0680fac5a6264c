package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"komunitas-be/internal/middleware"
	"komunitas-be/internal/service"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
)

// AuthHandler exposes the explicit login/logout session transitions.
type AuthHandler struct {
	authService *service.AuthService
	validate    *validator.Validate
	log         *logger.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(authService *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		log:         log,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token   string      `json:"token"`
	Session interface{} `json:"session"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.NewValidationError("badan permintaan tidak valid", nil), h.log)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, errors.NewValidationError("nama pengguna dan kata sandi wajib diisi", nil), h.log)
		return
	}

	token, session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	h.log.WithField("username", session.Username).Info("Admin logged in")
	writeData(w, http.StatusOK, loginResponse{Token: token, Session: session}, h.log)
}

// Logout handles POST /api/auth/logout; it revokes the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.BearerToken(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "sesi diakhiri"}, h.log)
}

// Session handles GET /api/auth/session, returning the session the Auth
// middleware resolved.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, r, errors.NewAuthenticationError("tidak ada sesi aktif"), h.log)
		return
	}
	writeData(w, http.StatusOK, session, h.log)
}
