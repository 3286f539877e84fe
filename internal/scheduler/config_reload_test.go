package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/totoro/internal/domain"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/mw"
	"github.com/MrSnakeDoc/totoro/internal/index"
	"github.com/MrSnakeDoc/totoro/internal/logger"
	"github.com/MrSnakeDoc/totoro/internal/metrics"
	"github.com/MrSnakeDoc/totoro/internal/sources/apiconfig"
)

const apiV1 = `
versions:
  v1:
    endpoints:
      - {route: /users, method: GET, handler: echo}
      - {route: /trace, method: TRACE, handler: echo}
  v2:
    endpoints:
      - {route: /users, method: GET, handler: gone, deprecated: true}
`

const apiV2 = `
versions:
  v1:
    endpoints:
      - {route: /users, method: GET, handler: echo}
      - {route: /orders, method: POST, handler: no_content}
`

func writeAPI(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestBuilder(path string, obs mw.RequestObserver) *Builder {
	mapper := apiconfig.NewMapper(handlers.Implementations(), mw.NewCatalog(mw.CatalogOptions{RateLimit: 10}))
	return NewBuilder(path, mapper, obs, logger.Nop())
}

func serve(t *testing.T, idx *index.RouteIndex, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	idx.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestBuilderBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	writeAPI(t, path, apiV1)

	g, err := newTestBuilder(path, nil).Build()
	require.NoError(t, err)

	assert.Equal(t, path, g.Source)
	require.Len(t, g.Table, 2)
	assert.Equal(t, []domain.Route{
		{Version: "v1", Method: domain.MethodGet, Path: "/v1/users", Pattern: "/users"},
		{Version: "v2", Method: domain.MethodGet, Path: "/v2/users", Pattern: "/users", Deprecated: true},
	}, g.Registration.Routes)
	require.Len(t, g.Registration.Rejected, 2)
	assert.Equal(t, "/v1/trace", g.Registration.Rejected[0].Path)
	assert.Equal(t, "/v2/trace", g.Registration.Rejected[1].Path)

	rec := httptest.NewRecorder()
	g.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/users", nil))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("Deprecation"))
}

func TestBuilderBuildErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := newTestBuilder(filepath.Join(dir, "missing.yaml"), nil).Build()
	assert.ErrorContains(t, err, "failed to load API file")

	bad := filepath.Join(dir, "bad.yaml")
	writeAPI(t, bad, "versions:\n  v1:\n    endpoints:\n      - {route: /a, method: GET, handler: nope}\n")
	_, err = newTestBuilder(bad, nil).Build()
	assert.ErrorContains(t, err, "failed to map API file")
}

func TestConfigReloaderStartAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	writeAPI(t, path, apiV1)

	idx := index.NewRouteIndex()
	m := metrics.New()
	trigger := make(chan struct{}, 1)
	cr := NewConfigReloader(newTestBuilder(path, m), idx, m, logger.Nop(), 0, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cr.Start(ctx))
	defer cr.Stop()

	first, ok := idx.Current()
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, serve(t, idx, http.MethodGet, "/v1/users").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, idx, http.MethodPost, "/v1/orders").Code)

	writeAPI(t, path, apiV2)
	trigger <- struct{}{}

	assert.Eventually(t, func() bool {
		cur, _ := idx.Current()
		return cur.ID != first.ID
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusNoContent, serve(t, idx, http.MethodPost, "/v1/orders").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, idx, http.MethodGet, "/v2/users").Code)
}

func TestConfigReloaderFailedReloadKeepsGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	writeAPI(t, path, apiV1)

	idx := index.NewRouteIndex()
	cr := NewConfigReloader(newTestBuilder(path, nil), idx, nil, logger.Nop(), 0, nil)
	require.NoError(t, cr.Reload(context.Background()))
	before, _ := idx.Current()

	writeAPI(t, path, "versions: [")
	assert.Error(t, cr.Reload(context.Background()))

	after, _ := idx.Current()
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, 1, idx.Swaps())
}

func TestConfigReloaderStartFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")

	cr := NewConfigReloader(newTestBuilder(path, nil), index.NewRouteIndex(), nil, logger.Nop(), time.Hour, nil)
	err := cr.Start(context.Background())

	assert.ErrorContains(t, err, "initial reload failed")
	cr.Stop()
	cr.Stop()
}

func TestConfigReloaderCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	writeAPI(t, path, apiV1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx := index.NewRouteIndex()
	cr := NewConfigReloader(newTestBuilder(path, nil), idx, nil, logger.Nop(), 0, nil)
	assert.ErrorIs(t, cr.Reload(ctx), context.Canceled)
	_, ok := idx.Current()
	assert.False(t, ok)
}

func TestConfigReloaderSkipsInvalidPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	writeAPI(t, path, apiV1)

	idx := index.NewRouteIndex()
	cr := NewConfigReloader(newTestBuilder(path, nil), idx, nil, logger.Nop(), 0, nil)
	require.NoError(t, cr.Reload(context.Background()))

	writeAPI(t, path, `
versions:
  v1:
    endpoints:
      - {route: /users, method: GET, handler: echo}
      - {route: "/users/{id", method: GET, handler: echo}
      - {route: /a/*/b, method: GET, handler: echo}
      - {route: "/x/{id}/{id}", method: GET, handler: echo}
`)
	require.NotPanics(t, func() {
		require.NoError(t, cr.Reload(context.Background()))
	})

	g, ok := idx.Current()
	require.True(t, ok)
	assert.Equal(t, 2, idx.Swaps())
	assert.Len(t, g.Registration.Routes, 1)
	assert.Len(t, g.Registration.Rejected, 3)
	assert.Equal(t, http.StatusOK, serve(t, idx, http.MethodGet, "/v1/users").Code)
}
