package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invenflow/workforce-api/internal/api/metrics"
	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/service"
)

// Permit gates a route on a (module, action) permission for routes that have
// no self-access path. Handlers needing the self override call the guard
// directly with service.WithSelf.
func Permit(guard *service.Guard, module, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(IdentityKey).(domain.Identity)
			if !ok {
				metrics.AuthzDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if err := guard.Check(identity, module, action); err != nil {
				metrics.AuthzDeniedTotal.WithLabelValues("forbidden").Inc()
				return err
			}
			return next(c)
		}
	}
}
