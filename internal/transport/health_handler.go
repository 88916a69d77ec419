package transport

import (
	"context"
	"net/http"

	"milka-pos/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// HealthChecker reports the state of a dependency
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// HealthHandler serves the liveness and readiness endpoints
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers the root and health routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
}

// Root confirms the API is running
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Milka POS API running",
	})
}

// Health reports 503 when the database cannot be reached
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.db.Health(r.Context())
	if stats["status"] != "up" {
		middleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "down",
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "up",
	})
}
