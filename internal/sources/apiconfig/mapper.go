package apiconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/MrSnakeDoc/totoro/internal/domain"
)

// Mapper converts a parsed File into a domain.APIConfig, binding handler and
// middleware names to their implementations.
type Mapper struct {
	handlers   map[string]domain.Implementation
	middleware map[string]func() domain.Middleware
}

// NewMapper creates a mapper over the given catalogs.
func NewMapper(handlers map[string]domain.Implementation, middleware map[string]func() domain.Middleware) *Mapper {
	return &Mapper{
		handlers:   handlers,
		middleware: middleware,
	}
}

// Map builds the version chain. Unknown names, duplicate or empty version
// names and an empty file are errors; all problems are reported together.
// Method strings are passed through as written; the registrar rejects the
// ones it does not recognise (matching is case-sensitive).
func (m *Mapper) Map(file File) (domain.APIConfig, error) {
	if len(file.Versions) == 0 {
		return nil, errors.New("no API versions found in config")
	}

	var errs []error
	seen := make(map[string]bool, len(file.Versions))
	cfg := make(domain.APIConfig, 0, len(file.Versions))

	for _, v := range file.Versions {
		name := strings.TrimSpace(v.Name)
		switch {
		case name == "":
			errs = append(errs, errors.New("API version without a name"))
			continue
		case seen[name]:
			errs = append(errs, fmt.Errorf("duplicate API version %q", name))
			continue
		}
		seen[name] = true

		spec := domain.VersionSpec{
			Name:       name,
			Active:     v.Active,
			Deprecated: v.Deprecated,
			Endpoints:  make([]domain.EndpointSpec, 0, len(v.Endpoints)),
		}

		for i, e := range v.Endpoints {
			impl, ok := m.handlers[e.Handler]
			if !ok {
				errs = append(errs, fmt.Errorf("%s endpoint #%d (%s %s): unknown handler %q", name, i, e.Method, e.Route, e.Handler))
				continue
			}

			unknown := lo.Filter(e.Middleware, func(n string, _ int) bool {
				_, ok := m.middleware[n]
				return !ok
			})
			if len(unknown) > 0 {
				errs = append(errs, fmt.Errorf("%s endpoint #%d (%s %s): unknown middleware %s", name, i, e.Method, e.Route, strings.Join(unknown, ", ")))
				continue
			}

			spec.Endpoints = append(spec.Endpoints, domain.EndpointSpec{
				Route:          e.Route,
				Method:         domain.Method(e.Method),
				Active:         e.Active,
				Deprecated:     e.Deprecated,
				Middleware:     lo.Map(e.Middleware, func(n string, _ int) domain.Middleware { return m.middleware[n]() }),
				Implementation: impl,
			})
		}

		cfg = append(cfg, spec)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}
