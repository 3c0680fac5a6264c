package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"komunitas-be/internal/middleware"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
)

// Response is the success envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}, log *logger.Logger) {
	writeJSON(w, status, Response{Success: true, Data: data}, log)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	appErr := errors.AsAppError(err)

	if appErr.StatusCode >= 500 || errors.IsType(appErr, errors.ErrorTypeUnreachable) {
		log.WithError(appErr).Error("Request failed")
	} else {
		log.WithError(appErr).Debug("Request rejected")
	}

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = middleware.RequestIDFromContext(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	writeJSON(w, appErr.StatusCode, response, log)
}
