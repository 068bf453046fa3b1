// Package http assembles the API router from the per-module handlers and
// the shared middleware chain.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthhandler "carelink/internal/health/handler"
	"carelink/internal/platform/metrics"
	"carelink/internal/platform/middleware"
	profilehandler "carelink/internal/profile/handler"
	provisionhandler "carelink/internal/provision/handler"
	relationhandler "carelink/internal/relation/handler"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.JWTValidator

	Provision *provisionhandler.Handler
	Profile   *profilehandler.Handler
	Relation  *relationhandler.Handler
	Health    *healthhandler.Handler
}

// NewRouter builds the full router: operational endpoints unauthenticated,
// the API surface behind JWT auth under /api/v1.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.LatencyMiddleware(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)

		deps.Provision.RegisterPublic(api)

		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
			deps.Provision.Register(authed)
			deps.Profile.Register(authed)
			deps.Relation.Register(authed)
			deps.Health.Register(authed)
		})
	})

	return r
}
