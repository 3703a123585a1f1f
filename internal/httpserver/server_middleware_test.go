package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

func TestNew_LogsHandlerError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := New(logging.NewWithWriter(&buf, "info"))
	e.GET("/boom", func(c echo.Context) error { return errors.New("db exploded") })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "gone") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.EqualValues(t, 500, line["status"])
	assert.Equal(t, "db exploded", line["error"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "gone"))
}
