package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/blogs/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/blogs/:id", "200"))
	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/blogs/:id", "200"))
	assert.Equal(t, 2.0, after-before)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "blog_backend_http_requests_total"))
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(wishlistDuplicates)
	RecordWishlistDuplicate()
	assert.Equal(t, before+1, testutil.ToFloat64(wishlistDuplicates))

	before = testutil.ToFloat64(tokensIssued)
	RecordTokenIssued()
	assert.Equal(t, before+1, testutil.ToFloat64(tokensIssued))
}

func TestMiddlewareCountsFailuresAs500(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.Use(middleware.Recover())
	e.GET("/failing", func(c echo.Context) error {
		return errors.New("store exploded")
	})
	e.GET("/panicking", func(c echo.Context) error {
		panic("nil map")
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	for _, tc := range []struct {
		path   string
		status string
	}{
		{"/failing", "500"},
		{"/panicking", "500"},
		{"/teapot", "418"},
	} {
		counter := httpRequests.WithLabelValues("GET", tc.path, tc.status)
		before := testutil.ToFloat64(counter)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.status, strconv.Itoa(rec.Code), tc.path)
		assert.Equal(t, before+1, testutil.ToFloat64(counter), tc.path)
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/failing", "200")))
}
