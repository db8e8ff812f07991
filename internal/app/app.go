// Package app assembles the single-binary HTTP surface: middleware,
// metrics, health endpoints and the two collection mounts.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"RecordStore/internal/products"
	"RecordStore/internal/users"
	"RecordStore/pkg/kit"
)

const readyTimeout = 1 * time.Second

type Deps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

func NewHandler(us *users.Server, ps *products.Server, deps Deps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(us.Store, ps.Store, deps.Log))

	r.Mount("/users", us.Routes())
	r.Mount("/products", ps.Routes())

	return r
}

func setupMiddleware(r *chi.Mux, deps Deps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps Deps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(us users.Store, ps products.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := us.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: users", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "users store not ready", nil)
			return
		}

		if err := ps.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: products", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "products store not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
