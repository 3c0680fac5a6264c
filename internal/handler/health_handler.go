package handler

import (
	"context"
	"net/http"
	"time"

	"komunitas-be/internal/container"
)

// HealthHandler reports service liveness plus the state of its two
// collaborators, the upstream kegiatan API and redis.
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(c *container.Container) *HealthHandler {
	return &HealthHandler{container: c}
}

type healthStatus struct {
	Status      string            `json:"status"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks"`
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	log := h.container.Logger

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := healthStatus{
		Status:      "ok",
		Environment: h.container.Config.Environment,
		Checks:      map[string]string{},
	}

	if err := h.container.API.Health(ctx); err != nil {
		status.Status = "degraded"
		status.Checks["kegiatan_api"] = err.Error()
	} else {
		status.Checks["kegiatan_api"] = "ok"
	}

	if h.container.HasRedis() {
		if err := h.container.Redis.Health(ctx); err != nil {
			status.Status = "degraded"
			status.Checks["redis"] = err.Error()
		} else {
			status.Checks["redis"] = "ok"
		}
	} else {
		status.Checks["redis"] = "disabled"
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeData(w, code, status, log)
}
