package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/repo/repotest"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/hash"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type testServer struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	tokens *tokens.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	r := repotest.NewRepo(t)
	iss := &tokens.Issuer{Secret: []byte("handler-test-secret"), Issuer: "storefront", Audience: "storefront-api", TTL: time.Hour}

	reviews := &service.ReviewService{Repo: r}
	d := &Deps{
		Auth:      &AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: iss}},
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r, MaxPageSize: 20}},
		Reviews:   &ReviewHTTP{Svc: reviews},
		Customers: &CustomerHTTP{Svc: &service.CustomerService{Repo: r}},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r, MaxPageSize: 20}},
		Admin:     &AdminHTTP{Svc: &service.AdminService{Repo: r}, Reviews: reviews},
		Bearer:    middleware.NewBearerAuth(iss),
		DB:        r.DB,
	}

	e := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	Register(e, d)

	return &testServer{e: e, repo: r, tokens: iss}
}

// account stores an account directly and returns a bearer token for it.
func (s *testServer) account(t *testing.T, username, role string) (*models.Account, string) {
	t.Helper()

	pw, err := hash.HashPassword("password1")
	require.NoError(t, err)
	acc := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: pw,
		FirstName:    "F" + username,
		LastName:     "L" + username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, s.repo.CreateAccount(t.Context(), acc))

	tok, _, err := s.tokens.Issue(tokens.Subject{AccountID: acc.ID, FirstName: acc.FirstName, LastName: acc.LastName, Role: role}, time.Now())
	require.NoError(t, err)
	return acc, tok
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["message"]
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

