package mw

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/totoro/internal/domain"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(route domain.Route, status int)
}

// Count reports every request served by route to obs.
func Count(route domain.Route, obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			obs.ObserveRequest(route, status)
		})
	}
}
