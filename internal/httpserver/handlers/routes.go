package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/totoro/internal/httpserver/deps"
)

// Routes serves the manifest of the current route generation.
func Routes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		g, ok := d.RouteIndex.Current()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "routes not loaded"})
			return
		}
		_ = json.NewEncoder(w).Encode(g.Manifest())
	}
}

// RouteVersion serves the resolved endpoints of the {version} URL param.
func RouteVersion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		g, ok := d.RouteIndex.Current()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "routes not loaded"})
			return
		}

		name := chi.URLParam(r, "version")
		v, ok := g.VersionManifest(name)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown API version", "version": name})
			return
		}
		_ = json.NewEncoder(w).Encode(v)
	}
}
