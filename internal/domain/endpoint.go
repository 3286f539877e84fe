package domain

import (
	"net/http"
)

// Middleware intercepts a request before the endpoint implementation runs.
type Middleware = func(http.Handler) http.Handler

// Implementation serves one endpoint. version is the API version the route
// was registered under; calling next hands the request back to the router.
type Implementation func(version string, w http.ResponseWriter, r *http.Request, next http.Handler)

// Passthrough is the default middleware prepended to every endpoint.
func Passthrough(next http.Handler) http.Handler { return next }

// EndpointSpec is a raw endpoint declaration. Nil flags mean "unspecified".
type EndpointSpec struct {
	Route          string
	Method         Method
	Active         *bool
	Deprecated     *bool
	Middleware     []Middleware
	Implementation Implementation
}

// VersionSpec is one entry of the version chain.
type VersionSpec struct {
	Name       string
	Active     *bool
	Deprecated *bool
	Endpoints  []EndpointSpec
}

// APIConfig is the version chain in declaration order.
type APIConfig []VersionSpec

// Key identifies an endpoint within a single version.
type Key struct {
	Route  string
	Method Method
}

// Definition is a normalized endpoint declaration with defaults applied.
type Definition struct {
	Route          string
	Method         Method
	Active         bool
	Deprecated     bool
	Middleware     []Middleware
	Implementation Implementation
}

// NewDefinition applies defaults (active=true, deprecated=false) and prepends
// Passthrough to the declared middleware. It never fails; route and method
// are checked at registration time.
func NewDefinition(spec EndpointSpec) Definition {
	mws := make([]Middleware, 0, len(spec.Middleware)+1)
	mws = append(mws, Passthrough)
	mws = append(mws, spec.Middleware...)

	return Definition{
		Route:          spec.Route,
		Method:         spec.Method,
		Active:         boolOr(spec.Active, true),
		Deprecated:     boolOr(spec.Deprecated, false),
		Middleware:     mws,
		Implementation: spec.Implementation,
	}
}

func (d Definition) Key() Key {
	return Key{Route: d.Route, Method: d.Method}
}

// ResolvedEndpoint is a Definition bound to the version it is served under.
// Middleware and Implementation are shared with the version it was
// inherited from; only the scalar flags belong to this value.
type ResolvedEndpoint struct {
	APIVersion string
	Definition
}

// Path is the registration path: "/" + version + route, without encoding.
func (e ResolvedEndpoint) Path() string {
	return "/" + e.APIVersion + e.Route
}

// Bool returns a pointer to b, for building specs in code.
func Bool(b bool) *bool { return &b }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
