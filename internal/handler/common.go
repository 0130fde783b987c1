// Package handler exposes the HTTP surface over Echo. Handlers bind
// request bodies, pull the acting identity from the userId query
// parameter, delegate to the service layer and map its sentinel errors
// onto HTTP statuses.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/listhub/lists-api/internal/repository"
)

// requestTimeout bounds every store round trip made on behalf of one
// request; paginated scans inherit the deadline through the context.
const requestTimeout = 10 * time.Second

func opContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// actingUser extracts the mandatory acting-identity parameter.
func actingUser(c echo.Context) (string, error) {
	id := c.QueryParam("userId")
	if id == "" {
		return "", errors.New("userId parameter is required")
	}
	return id, nil
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
