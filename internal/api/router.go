package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/delivery-map/docs"
	"github.com/99minutos/delivery-map/internal/api/handler"
	"github.com/99minutos/delivery-map/internal/api/middleware"
	"github.com/99minutos/delivery-map/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Service ports.TrackingService
	// Store backs the readiness probe; StoreName labels it.
	Store     handler.Pinger
	StoreName string
	// PublicDir is served at the root when non-empty.
	PublicDir string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.Metrics())

	// --- Geometry and listing ---
	tracking := handler.NewTrackingHandler(deps.Service, deps.Logger)
	e.GET("/data/:recId", tracking.RecordGeometry)
	e.GET("/data", tracking.ViewGeometry)
	e.GET("/records", tracking.ListRecords)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.StoreName, deps.Store)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: does the record store answer?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Map front-end ---
	if deps.PublicDir != "" {
		e.Static("/", deps.PublicDir)
	}

	return e
}
