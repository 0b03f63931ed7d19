package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is the readiness view of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness handles GET /health.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Checks that the record store answers with the configured credentials.
type HealthDependenciesHandler struct {
	name  string
	store Pinger
}

func NewHealthDependenciesHandler(name string, store Pinger) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{name: name, store: store}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: map[string]dependencyStatus{}}
	httpStatus := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		resp.Dependencies[h.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		resp.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	} else {
		resp.Dependencies[h.name] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, resp)
}
