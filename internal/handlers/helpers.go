package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/anonto42/pulsefeed/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user ID set by the
// JWT middleware. Returns 0 when no session is present.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// httpError maps a domain error to its HTTP status, with fallthrough
// to 500 for anything outside the taxonomy.
func httpError(err error, message string) *echo.HTTPError {
	switch {
	case errors.Is(err, social.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, message)
	case errors.Is(err, social.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, message)
	case errors.Is(err, social.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, message)
	case errors.Is(err, social.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, message)
	}
}
