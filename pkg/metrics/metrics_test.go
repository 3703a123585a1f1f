package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/products/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusConflict, "x") })

	okBefore := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/products/:id", "200"))
	errBefore := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/boom", "409"))

	for _, p := range []string{"/products/1", "/products/2", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/products/:id", "200")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/boom", "409")))
}

func TestDomainCounters(t *testing.T) {
	placed := testutil.ToFloat64(ordersPlaced)
	cancelled := testutil.ToFloat64(ordersCancelled)
	published := testutil.ToFloat64(eventsPublished.WithLabelValues("order_events", "true"))
	search := testutil.ToFloat64(searchQueries.WithLabelValues("store"))

	RecordOrderPlaced()
	RecordOrderCancelled()
	RecordEventPublished("order_events", true)
	RecordSearch("store")

	assert.Equal(t, placed+1, testutil.ToFloat64(ordersPlaced))
	assert.Equal(t, cancelled+1, testutil.ToFloat64(ordersCancelled))
	assert.Equal(t, published+1, testutil.ToFloat64(eventsPublished.WithLabelValues("order_events", "true")))
	assert.Equal(t, search+1, testutil.ToFloat64(searchQueries.WithLabelValues("store")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordOrderPlaced()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_orders_placed_total")
}
