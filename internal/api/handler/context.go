package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invenflow/workforce-api/internal/api/middleware"
	"github.com/invenflow/workforce-api/internal/core/domain"
)

// ctxIdentity extracts the verified identity injected by the Auth middleware.
// Its presence proves the middleware ran; a missing identity on a protected
// route is a wiring bug and is rejected with 401 rather than trusted.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || identity.ID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
