package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"komunitas-be/internal/domain"
	"komunitas-be/internal/service"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
)

// ActivityHandler serves the public activity listing and the admin delete.
type ActivityHandler struct {
	activities *service.ActivityService
	log        *logger.Logger
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(activities *service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{activities: activities, log: log}
}

// List handles GET /api/kegiatan with search/status/page/page_size query
// parameters and returns one page of the derived view.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := domain.ViewQuery{
		Text:   r.URL.Query().Get("search"),
		Status: domain.StatusAll,
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.StatusCategory(raw)
		if !status.ValidFilter() {
			writeError(w, r, errors.NewValidationError("filter status tidak dikenal", map[string]interface{}{
				"status": raw,
			}), h.log)
			return
		}
		q.Status = status
	}

	q.Page = intQuery(r, "page", 1)
	q.PageSize = intQuery(r, "page_size", domain.DefaultPageSize)

	result, err := h.activities.ViewPage(r.Context(), q)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	writeData(w, http.StatusOK, result, h.log)
}

// Get handles GET /api/kegiatan/{id}, always fetching fresh from upstream so
// re-opened detail views never show a stale projection.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseActivityID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	display, err := h.activities.GetDisplay(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	writeData(w, http.StatusOK, display, h.log)
}

// Delete handles DELETE /api/admin/kegiatan/{id}. The destructive call is
// gated on an explicit confirmation header so a stray request can never
// delete a record.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseActivityID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if r.Header.Get("X-Confirm-Delete") != "yes" {
		writeError(w, r, errors.NewValidationError(
			"penghapusan harus dikonfirmasi dengan header X-Confirm-Delete: yes", nil), h.log)
		return
	}

	if err := h.activities.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	h.log.WithField("activity_id", id).Info("Activity deleted")
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "kegiatan dihapus"}, h.log)
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	if value, err := strconv.Atoi(raw); err == nil && value > 0 {
		return value
	}
	return fallback
}
