package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/totoro/internal/httpserver/deps"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Generation    string  `json:"generation,omitempty"`
	Routes        int     `json:"routes"`
	Reloads       int     `json:"reloads"`
	Version       string  `json:"version,omitempty"`
	Commit        string  `json:"commit,omitempty"`
	GoVersion     string  `json:"go_version,omitempty"`
}

// Healthz answers 200 as long as the process serves HTTP, even before the
// first generation is loaded; readiness is /readyz.
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			UptimeSeconds: time.Since(d.StartTime).Seconds(),
			Routes:        d.RouteIndex.Count(),
			Reloads:       d.RouteIndex.Swaps(),
			Version:       d.Version,
			Commit:        d.Commit,
			GoVersion:     d.GoVersion,
		}
		if g, ok := d.RouteIndex.Current(); ok {
			resp.Generation = g.ID.String()
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
