package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/totoro/internal/httpserver/deps"
	"github.com/MrSnakeDoc/totoro/internal/logger"
)

type reloadResponse struct {
	APIFile    string `json:"api_file"`
	Queued     bool   `json:"queued"`
	Generation string `json:"generation,omitempty"`
}

// Reload queues a rebuild of the API routes. Only one request can be
// pending; while it is, further calls answer 429. The generation in the
// response is the one served at the time of the call.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := reloadResponse{APIFile: d.APIFile}
		if g, ok := d.RouteIndex.Current(); ok {
			resp.Generation = g.ID.String()
		}

		status := http.StatusAccepted
		select {
		case d.ReloadTrigger <- struct{}{}:
			resp.Queued = true
			d.Logger.Info("API reload queued",
				logger.String("file", d.APIFile),
				logger.String("remote_ip", r.RemoteAddr))
		default:
			status = http.StatusTooManyRequests
			d.Logger.Warn("API reload already pending",
				logger.String("file", d.APIFile),
				logger.String("remote_ip", r.RemoteAddr))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
