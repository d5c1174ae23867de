package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger is implemented by *sql.DB and adapters over the Redis client
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

// PingContext calls f(ctx)
func (f PingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler reports whether the service and its stores are reachable
type HealthHandler struct {
	BaseHandler
	components map[string]Pinger
}

// NewHealthHandler creates a new health handler checking the named components
func NewHealthHandler(components map[string]Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		components:  components,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
}

// Health handles GET /health
// @Summary Health check
// @Description Check that the database and Redis are reachable
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any "All components up"
// @Failure 503 {object} map[string]any "At least one component down"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.components))
	for name, p := range h.components {
		if err := p.PingContext(ctx); err != nil {
			h.Logger.Warn("health check failed", zap.String("component", name), zap.Error(err))
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	h.RespondJSON(w, status, map[string]any{
		"status":     overall,
		"components": components,
	})
}
