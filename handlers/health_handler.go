package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessCheck is one named dependency probe
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthChecker is implemented by the database pool
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DatabaseCheck probes the database pool
func DatabaseCheck(db HealthChecker) ReadinessCheck {
	return ReadinessCheck{Name: "database", Check: db.HealthCheck}
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks []ReadinessCheck
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(logger *zap.Logger, checks ...ReadinessCheck) *HealthHandler {
	sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, h.logger)
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	allHealthy := true
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("check", c.Name), zap.Error(err))
			checks[c.Name] = "unhealthy"
			allHealthy = false
			continue
		}
		checks[c.Name] = "healthy"
	}

	status, httpStatus := "healthy", http.StatusOK
	if !allHealthy {
		status, httpStatus = "unhealthy", http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
