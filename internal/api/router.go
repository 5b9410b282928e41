package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hbnb-clone/hbnb-api/docs"
	"github.com/hbnb-clone/hbnb-api/internal/api/handler"
	"github.com/hbnb-clone/hbnb-api/internal/api/middleware"
	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

// Prefix is the mount point of the JSON API.
const Prefix = "/api/v1"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Resources ports.ResourceService
	Auth      ports.AuthService
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Pinger
	Logger zerolog.Logger
	// JWTSecret signs login tokens; AuthRequired puts mutating routes behind it.
	JWTSecret    string
	AuthRequired bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// HTTP metrics use a per-router registry; custom metrics stay in the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "hbnb",
		Registerer: reg,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group(Prefix)

	var guard []echo.MiddlewareFunc
	if d.AuthRequired {
		guard = append(guard, middleware.Auth(d.JWTSecret))
	}

	index := handler.NewIndexHandler(d.Resources)
	v1.GET("/status", index.Status)
	v1.GET("/stats", index.Stats)

	if d.Auth != nil {
		v1.POST("/auth/login", handler.NewAuthHandler(d.Auth).Login)
	}

	// --- Resources: one explicit route set per kind ---
	for _, kind := range domain.Kinds() {
		h := handler.NewResourceHandler(d.Resources, kind)
		path := "/" + domain.MustSchema(kind).Resource
		v1.GET(path, h.List)
		v1.GET(path+"/:id", h.Get)
		v1.POST(path, h.Create, guard...)
		v1.PUT(path+"/:id", h.Update, guard...)
		v1.DELETE(path+"/:id", h.Delete, guard...)
	}

	cities := handler.NewCityHandler(d.Resources)
	v1.GET("/states/:state_id/cities", cities.ListByState)
	v1.POST("/states/:state_id/cities", cities.CreateInState, guard...)

	return e
}
