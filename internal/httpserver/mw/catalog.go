package mw

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/totoro/internal/logger"
)

// Catalog maps the middleware names usable in an API file to constructors.
// Each call builds a fresh instance, so stateful middleware (rate limits) is
// per endpoint.
type Catalog map[string]func() func(http.Handler) http.Handler

// CatalogOptions carries the settings the named middleware depend on.
type CatalogOptions struct {
	AllowedCIDRS []string
	AllowedHosts []string
	TrustProxy   bool
	RateLimit    int // requests per minute
	Logger       logger.Logger
}

// NewCatalog returns the built-in named middleware.
func NewCatalog(opts CatalogOptions) Catalog {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return Catalog{
		"allow_cidrs": func() func(http.Handler) http.Handler {
			return AllowCIDRs(opts.AllowedCIDRS, opts.TrustProxy, log)
		},
		"enforce_host": func() func(http.Handler) http.Handler {
			return EnforceHost(opts.AllowedHosts, log)
		},
		"rate_limit": func() func(http.Handler) http.Handler {
			return RateLimit(opts.RateLimit, time.Minute, opts.TrustProxy)
		},
		"no_store": func() func(http.Handler) http.Handler {
			return NoStore
		},
	}
}

// NoStore disables client and proxy caching of the response.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
