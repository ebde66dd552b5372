package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/inventory-system/internal/api/middleware"
	"github.com/restauranthub/inventory-system/internal/core/domain"
)

// actor extracts the identity injected by the Auth middleware and fails fast
// when the route was mounted without it.
func actor(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
