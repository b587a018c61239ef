package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/baticonnect/portal/internal/core/domain"
)

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMiddleware_RecordsWrittenStatus(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			_ = c.String(http.StatusBadGateway, "backend unavailable")
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	e.Use(Middleware())
	e.GET("/metrics-test/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics-test/backend", func(echo.Context) error {
		return &domain.APIError{Kind: domain.KindUnreachable}
	})
	e.GET("/metrics-test/missing", func(echo.Context) error { return echo.ErrNotFound })

	tests := []struct {
		path string
		code string
		want int
	}{
		{"/metrics-test/ok", "200", http.StatusOK},
		{"/metrics-test/backend", "502", http.StatusBadGateway},
		{"/metrics-test/missing", "404", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := serve(e, tt.path)
		assert.Equal(t, tt.want, rec.Code)
		assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(tt.path, http.MethodGet, tt.code)), tt.path)
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/metrics-test/backend", http.MethodGet, "200")))
}

func TestObserveBackend(t *testing.T) {
	before := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("metrics.test", "ok"))
	ObserveBackend("metrics.test", "ok", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("metrics.test", "ok")))
}
