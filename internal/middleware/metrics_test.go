package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/things/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/broken", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot) })

	okBefore := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/:id", "204"))
	errBefore := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/broken", "418"))

	for _, path := range []string{"/things/1", "/things/2", "/broken"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/:id", "204")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/broken", "418")))
}
