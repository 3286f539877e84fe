package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/totoro/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready      bool   `json:"ready"`
	Routes     int    `json:"routes"`
	Generation string `json:"generation,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
}

// Readyz reports ready once a route generation is being served.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		g, ok := d.RouteIndex.Current()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(readyzResponse{Ready: false})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:      true,
			Routes:     len(g.Registration.Routes),
			Generation: g.ID.String(),
			LastReload: d.RouteIndex.GetLastReload().Format(time.RFC3339),
		})
	}
}
