package domain

import (
	"net/http"

	"github.com/MrSnakeDoc/totoro/internal/logger"
)

// Route describes one registration handed to a Sink.
type Route struct {
	Version    string `json:"version"`
	Method     Method `json:"method"`
	Path       string `json:"path"`
	Pattern    string `json:"route"`
	Deprecated bool   `json:"deprecated"`
}

// Sink receives resolved routes, typically a router. A non-nil error means
// the route was not mounted.
type Sink interface {
	Handle(route Route, middleware []Middleware, h http.Handler) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(route Route, middleware []Middleware, h http.Handler) error

func (f SinkFunc) Handle(route Route, middleware []Middleware, h http.Handler) error {
	return f(route, middleware, h)
}

// Registration is the outcome of a Register pass.
type Registration struct {
	Routes   []Route `json:"routes"`
	Rejected []Route `json:"rejected,omitempty"`
}

// Registrar hands a resolved Table to a Sink.
type Registrar struct {
	logger   logger.Logger
	notFound http.Handler
}

// NewRegistrar returns a Registrar logging to log, or to a console logger if log is nil.
func NewRegistrar(log logger.Logger) *Registrar {
	if log == nil {
		log = logger.Console()
	}
	return &Registrar{
		logger:   log,
		notFound: http.NotFoundHandler(),
	}
}

// Register registers every active endpoint of table with sink, version by
// version. Endpoints with an unknown method, no implementation, or that the
// sink refuses are logged and skipped.
func (reg *Registrar) Register(table Table, sink Sink) Registration {
	var out Registration

	for _, v := range table {
		reg.logger.Debugf("start of API version %s", v.Name)

		for _, e := range v.Endpoints {
			if !e.Active {
				continue
			}

			route := Route{
				Version:    e.APIVersion,
				Method:     e.Method,
				Path:       e.Path(),
				Pattern:    e.Route,
				Deprecated: e.Deprecated,
			}

			if !e.Method.Valid() {
				reg.logger.Error("HTTP method not recognised",
					logger.String("method", string(e.Method)),
					logger.String("path", route.Path))
				out.Rejected = append(out.Rejected, route)
				continue
			}
			if e.Implementation == nil {
				reg.logger.Error("endpoint has no implementation",
					logger.String("method", string(e.Method)),
					logger.String("path", route.Path))
				out.Rejected = append(out.Rejected, route)
				continue
			}

			if err := sink.Handle(route, e.Middleware, reg.adapt(e)); err != nil {
				reg.logger.Error("endpoint could not be registered",
					logger.String("method", string(e.Method)),
					logger.String("path", route.Path),
					logger.Error(err))
				out.Rejected = append(out.Rejected, route)
				continue
			}
			reg.logger.Debugf("[Endpoint]    :    '%s %s'", e.Method, route.Path)
			out.Routes = append(out.Routes, route)
		}

		reg.logger.Debugf("end of API version %s", v.Name)
	}

	return out
}

func (reg *Registrar) adapt(e ResolvedEndpoint) http.Handler {
	version, impl, next := e.APIVersion, e.Implementation, reg.notFound
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		impl(version, w, r, next)
	})
}
