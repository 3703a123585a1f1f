package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/pkg/metrics"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

// New builds the echo instance with the storefront middleware stack. The
// metrics middleware wraps the request logger so the logger is the one
// that sees and handles the handler error.
func New(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(metrics.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  []string{"*"},
		ExposeHeaders: []string{paginationHeader},
	}))
	return e
}
