package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/totoro/internal/domain"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/mw"
)

// ChiSink registers resolved API routes on a chi router.
type ChiSink struct {
	router   chi.Router
	observer mw.RequestObserver
}

// NewChiSink returns a sink over r. obs may be nil to skip request counting.
func NewChiSink(r chi.Router, obs mw.RequestObserver) *ChiSink {
	return &ChiSink{router: r, observer: obs}
}

// Handle mounts h at route.Path for route.Method behind the endpoint
// middleware. Deprecated routes also advertise their deprecation. Patterns
// chi refuses are returned as errors and leave the router untouched.
func (s *ChiSink) Handle(route domain.Route, middleware []domain.Middleware, h http.Handler) error {
	if err := checkPattern(route); err != nil {
		return err
	}

	chain := make([]Middleware, 0, len(middleware)+2)
	if s.observer != nil {
		chain = append(chain, mw.Count(route, s.observer))
	}
	if route.Deprecated {
		chain = append(chain, mw.Deprecated(route.Version, route.Path))
	}
	chain = append(chain, middleware...)

	s.router.With(chain...).Method(string(route.Method), route.Path, h)
	return nil
}

// checkPattern mounts the route on a scratch router, turning chi's
// registration panics (unclosed "{", mid-path "*", repeated param keys)
// into an error.
func checkPattern(route domain.Route) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("invalid route pattern %q: %v", route.Path, rec)
		}
	}()

	chi.NewRouter().Method(string(route.Method), route.Path, http.NotFoundHandler())
	return nil
}

var _ domain.Sink = (*ChiSink)(nil)
