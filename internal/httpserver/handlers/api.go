package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/totoro/internal/domain"
)

type echoResponse struct {
	Version   string `json:"version"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	RequestID string `json:"request_id,omitempty"`
}

// Implementations returns the endpoint implementations an API file can name.
func Implementations() map[string]domain.Implementation {
	return map[string]domain.Implementation{
		"echo":       Echo,
		"no_content": NoContent,
		"gone":       Gone,
		"not_found":  NotFound,
	}
}

// Echo describes the request it received, including the API version it was routed through.
func Echo(version string, w http.ResponseWriter, r *http.Request, _ http.Handler) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(echoResponse{
		Version:   version,
		Method:    r.Method,
		Path:      r.URL.Path,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func NoContent(_ string, w http.ResponseWriter, _ *http.Request, _ http.Handler) {
	w.WriteHeader(http.StatusNoContent)
}

// Gone answers 410 for endpoints retired in a version.
func Gone(version string, w http.ResponseWriter, r *http.Request, _ http.Handler) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusGone)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   http.StatusText(http.StatusGone),
		"version": version,
		"path":    r.URL.Path,
	})
}

// NotFound hands the request back to the router.
func NotFound(_ string, w http.ResponseWriter, r *http.Request, next http.Handler) {
	next.ServeHTTP(w, r)
}
