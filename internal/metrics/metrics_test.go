package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/totoro/internal/domain"
)

func TestObserveRegistration(t *testing.T) {
	m := New()

	m.ObserveRegistration(domain.Registration{
		Routes: []domain.Route{
			{Version: "v1", Method: domain.MethodGet, Path: "/v1/a"},
			{Version: "v1", Method: domain.MethodPost, Path: "/v1/a"},
			{Version: "v2", Method: domain.MethodGet, Path: "/v2/a", Deprecated: true},
		},
		Rejected: []domain.Route{{Version: "v2", Method: "TRACE", Path: "/v2/t"}},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.routes.WithLabelValues("v1", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.routes.WithLabelValues("v2", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("v2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations))

	// a second generation replaces rather than accumulates
	m.ObserveRegistration(domain.Registration{
		Routes: []domain.Route{{Version: "v3", Method: domain.MethodGet, Path: "/v3/a"}},
	})
	assert.Equal(t, 1, testutil.CollectAndCount(m.routes))
	assert.Equal(t, 0, testutil.CollectAndCount(m.rejected))
}

func TestObserveReloadAndRequest(t *testing.T) {
	m := New()
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("boom"))
	m.ObserveRequest(domain.Route{Version: "v1", Method: domain.MethodGet, Pattern: "/a"}, http.StatusOK)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("v1", "GET", "/a", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveReload(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "totoro_config_reloads_total"))
}
