package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail logs err under event and turns it into the HTTP error for its kind.
// Internal failures get an opaque message.
func fail(l *slog.Logger, event string, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, "An internal error occurred. Please try again later.")
	}

	l.Warn(event, "status", status, "reason", err.Error(), "error", err)
	return echo.NewHTTPError(status, err.Error())
}
