// Package handler provides the HTTP surface of the Stockroom inventory
// server: the chi router, its middleware, and the endpoint handlers the
// remote store client talks to.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/metrics"
)

// Router assembles the middleware chain and routes for the API server.
type Router struct {
	inventoryHandler *InventoryHandler
	userHandler      *UserHandler
	authMiddleware   func(http.Handler) http.Handler
	metrics          *metrics.Metrics
	metricsPath      string
	logger           zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	InventoryHandler *InventoryHandler
	UserHandler      *UserHandler
	AuthMiddleware   func(http.Handler) http.Handler

	// Metrics enables the instrumentation middleware and the exposition
	// endpoint at MetricsPath. Nil disables both.
	Metrics     *metrics.Metrics
	MetricsPath string

	Logger zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		inventoryHandler: config.InventoryHandler,
		userHandler:      config.UserHandler,
		authMiddleware:   config.AuthMiddleware,
		metrics:          config.Metrics,
		metricsPath:      config.MetricsPath,
		logger:           config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
//
// StripSlashes runs before routing, so the trailing-slash collection
// paths the client uses ("/api/Inventory/") land on the same routes as
// their bare forms.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(rt.logger))
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
	}
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Recoverer)

	// Health check and exposition stay outside the auth boundary.
	r.Get("/health", rt.handleHealth)
	if rt.metrics != nil {
		r.Get(rt.metricsPath, rt.metrics.Handler().ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(rt.authMiddleware)
		api.Route("/Inventory", rt.inventoryHandler.RegisterRoutes)
		api.Route("/Users", rt.userHandler.RegisterRoutes)
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
