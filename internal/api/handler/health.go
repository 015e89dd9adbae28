package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// DependencyCheck probes one backing service. A nil Check marks the
// dependency as disabled; it is reported but never fails readiness.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves the status, liveness and readiness endpoints.
type HealthHandler struct {
	checks []DependencyCheck
	log    zerolog.Logger
}

func NewHealthHandler(log zerolog.Logger, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{checks: checks, log: log}
}

// Root handles GET / with a short banner.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Employee Directory API is running",
	})
}

// Liveness handles GET /health. Returns 200 whenever the process is serving.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready. Any failing dependency turns the
// response into 503 degraded.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for _, dc := range h.checks {
		if dc.Check == nil {
			deps[dc.Name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := dc.Check(ctx); err != nil {
			// Driver errors stay in the log; the probe is public.
			h.log.Warn().Err(err).Str("dependency", dc.Name).Msg("readiness check failed")
			deps[dc.Name] = dependencyStatus{Status: "unhealthy"}
			healthy = false
			continue
		}
		deps[dc.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
