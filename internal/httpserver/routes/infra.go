package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/totoro/internal/httpserver/deps"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/handlers"
)

func init() {
	Register("probes", Public, registerProbes)
	Register("manifest", Admin, registerManifest)
	Register("reload", Admin, registerReload)
	Register("metrics", Admin, registerMetrics)
}

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
}

func registerManifest(r chi.Router, d deps.Deps) {
	r.Get("/_routes", handlers.Routes(d))
	r.Get("/_routes/{version}", handlers.RouteVersion(d))
}

func registerReload(r chi.Router, d deps.Deps) {
	if d.ReloadTrigger == nil {
		return
	}
	r.Post("/_reload", handlers.Reload(d))
}

func registerMetrics(r chi.Router, d deps.Deps) {
	if d.Metrics == nil {
		return
	}
	r.Method("GET", "/metrics", d.Metrics.Handler())
}
