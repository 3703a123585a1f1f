package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *tokens.Issuer {
	return &tokens.Issuer{Secret: []byte("test-jwt-secret"), Issuer: "storefront", TTL: time.Hour}
}

func issue(t *testing.T, iss *tokens.Issuer, id uint, role string) string {
	t.Helper()
	tok, _, err := iss.Issue(tokens.Subject{AccountID: id, FirstName: "Jane", LastName: "Doe", Role: role}, time.Now())
	require.NoError(t, err)
	return tok
}

func run(mw echo.MiddlewareFunc, header string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestBearerAuth_RequireAuth(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	m := NewBearerAuth(iss)
	user := issue(t, iss, 7, "User")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + user, status: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := run(m.RequireAuth, tt.header)
			if tt.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, "7", c.Get(ContextUserID))
				assert.Equal(t, "User", c.Get(ContextRole))
				assert.Equal(t, "Jane", c.Get(ContextGivenName))
				return
			}
			assert.Equal(t, tt.status, statusOf(t, err))
		})
	}
}

func TestBearerAuth_RequireAdmin(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	m := NewBearerAuth(iss)

	_, err := run(m.RequireAdmin, "Bearer "+issue(t, iss, 1, "User"))
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = run(m.RequireAdmin, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	c, err := run(m.RequireAdmin, "Bearer "+issue(t, iss, 1, RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, c.Get(ContextRole))
}

func TestBearerAuth_Optional(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	m := NewBearerAuth(iss)

	c, err := run(m.Optional, "")
	require.NoError(t, err)
	assert.Nil(t, c.Get(ContextUserID))

	c, err = run(m.Optional, "Bearer "+issue(t, iss, 3, "User"))
	require.NoError(t, err)
	assert.Equal(t, "3", c.Get(ContextUserID))

	_, err = run(m.Optional, "Bearer broken")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}
