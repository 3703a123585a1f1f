package middleware

import (
	"net/http"
	"strings"

	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/labstack/echo/v4"
)

const (
	ContextUserID     = "user_id"
	ContextRole       = "role"
	ContextGivenName  = "given_name"
	ContextFamilyName = "family_name"

	RoleAdmin = "Admin"
)

type TokenParser interface {
	Parse(tokenStr string) (*tokens.AccessClaims, error)
}

type BearerAuth struct {
	Tokens TokenParser
}

func NewBearerAuth(p TokenParser) *BearerAuth {
	return &BearerAuth{Tokens: p}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

// Optional attaches the caller identity when a valid bearer token is sent
// and lets anonymous requests through. A malformed or expired token is
// still rejected.
func (m *BearerAuth) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, present := bearerToken(c)
		if !present {
			return next(c)
		}
		claims, err := m.Tokens.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *BearerAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *BearerAuth) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, present := bearerToken(c)
		if !present || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := m.Tokens.Parse(raw)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if _, err := claims.AccountID(); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		if validator != nil {
			if err := validator(claims); err != nil {
				return err
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextGivenName, claims.GivenName)
	c.Set(ContextFamilyName, claims.FamilyName)
}
