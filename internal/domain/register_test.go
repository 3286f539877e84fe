package domain

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/totoro/internal/logger"
)

type recordingSink struct {
	routes   []Route
	handlers map[string]http.Handler
	mws      map[string][]Middleware
}

func newRecordingSink() *recordingSink {
	return &recordingSink{handlers: map[string]http.Handler{}, mws: map[string][]Middleware{}}
}

func (s *recordingSink) Handle(route Route, mws []Middleware, h http.Handler) error {
	s.routes = append(s.routes, route)
	s.handlers[string(route.Method)+" "+route.Path] = h
	s.mws[string(route.Method)+" "+route.Path] = mws
	return nil
}

func TestRegisterPathsAndOrder(t *testing.T) {
	table := Resolve(APIConfig{
		{Name: "v1", Endpoints: []EndpointSpec{
			{Route: "/users", Method: MethodGet, Implementation: named("list")},
			{Route: "/users", Method: MethodPost, Implementation: named("create")},
			{Route: "/hidden", Method: MethodGet, Active: Bool(false), Implementation: named("x")},
		}},
		{Name: "v2", Endpoints: []EndpointSpec{
			{Route: "/users", Method: MethodGet, Deprecated: Bool(true), Implementation: named("list2")},
		}},
	})

	sink := newRecordingSink()
	reg := NewRegistrar(logger.Nop()).Register(table, sink)

	assert.Equal(t, []Route{
		{Version: "v1", Method: MethodGet, Path: "/v1/users", Pattern: "/users"},
		{Version: "v1", Method: MethodPost, Path: "/v1/users", Pattern: "/users"},
		{Version: "v2", Method: MethodGet, Path: "/v2/users", Pattern: "/users", Deprecated: true},
		{Version: "v2", Method: MethodPost, Path: "/v2/users", Pattern: "/users"},
		{Version: "v2", Method: MethodGet, Path: "/v2/hidden", Pattern: "/hidden"},
	}, sink.routes)
	assert.Equal(t, sink.routes, reg.Routes)
	assert.Empty(t, reg.Rejected)
	assert.Len(t, sink.mws["GET /v1/users"], 1)
}

func TestRegisterUnknownMethodIsSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	table := Resolve(APIConfig{
		{Name: "v1", Endpoints: []EndpointSpec{
			{Route: "/trace", Method: "TRACE", Implementation: named("t")},
			{Route: "/ok", Method: MethodGet, Implementation: named("ok")},
			{Route: "/nil", Method: MethodGet},
		}},
	})

	sink := newRecordingSink()
	reg := NewRegistrar(logger.FromZap(zap.New(core))).Register(table, sink)

	require.Len(t, sink.routes, 1)
	assert.Equal(t, "/v1/ok", sink.routes[0].Path)
	require.Len(t, reg.Rejected, 2)
	assert.Equal(t, "/v1/trace", reg.Rejected[0].Path)
	assert.Equal(t, "/v1/nil", reg.Rejected[1].Path)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 2)
	assert.Equal(t, "HTTP method not recognised", errs[0].Message)
	assert.Equal(t, "TRACE", errs[0].ContextMap()["method"])

	assert.Equal(t, 1, logs.FilterMessage("start of API version v1").Len())
	assert.Equal(t, 1, logs.FilterMessage("end of API version v1").Len())
	assert.Equal(t, 1, logs.FilterMessage("[Endpoint]    :    'GET /v1/ok'").Len())
}

func TestRegisterHandlerAdapter(t *testing.T) {
	var gotVersion string
	impl := func(version string, w http.ResponseWriter, r *http.Request, next http.Handler) {
		gotVersion = version
		next.ServeHTTP(w, r)
	}
	table := Resolve(APIConfig{
		{Name: "v1", Endpoints: []EndpointSpec{{Route: "/a", Method: MethodGet, Implementation: impl}}},
		{Name: "v2"},
	})

	sink := newRecordingSink()
	NewRegistrar(logger.Nop()).Register(table, sink)

	rec := httptest.NewRecorder()
	sink.handlers["GET /v2/a"].ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/a", nil))

	assert.Equal(t, "v2", gotVersion)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterSinkFunc(t *testing.T) {
	var n int
	sink := SinkFunc(func(Route, []Middleware, http.Handler) error {
		n++
		return nil
	})
	table := Resolve(APIConfig{{Name: "v1", Endpoints: []EndpointSpec{
		{Route: "/a", Method: MethodGet, Implementation: named("a")},
	}}})

	NewRegistrar(nil).Register(table, sink)
	assert.Equal(t, 1, n)
}

func TestRegisterSinkRefusalIsSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	table := Resolve(APIConfig{
		{Name: "v1", Endpoints: []EndpointSpec{
			{Route: "/users/{id", Method: MethodGet, Implementation: named("bad")},
			{Route: "/users", Method: MethodGet, Implementation: named("ok")},
		}},
	})

	var mounted []string
	sink := SinkFunc(func(route Route, _ []Middleware, _ http.Handler) error {
		if route.Pattern == "/users/{id" {
			return errors.New("unclosed param")
		}
		mounted = append(mounted, route.Path)
		return nil
	})

	reg := NewRegistrar(logger.FromZap(zap.New(core))).Register(table, sink)

	assert.Equal(t, []string{"/v1/users"}, mounted)
	require.Len(t, reg.Routes, 1)
	require.Len(t, reg.Rejected, 1)
	assert.Equal(t, "/v1/users/{id", reg.Rejected[0].Path)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Equal(t, "endpoint could not be registered", errs[0].Message)
	assert.Equal(t, "unclosed param", errs[0].ContextMap()["error"])
	assert.Equal(t, 0, logs.FilterMessage("[Endpoint]    :    'GET /v1/users/{id'").Len())
}
