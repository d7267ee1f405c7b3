package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through when the principal carries any of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			granted, ok := c.Get(ContextKeyUserRoles).([]string)
			if !ok || len(granted) == 0 {
				return deny(c, http.StatusForbidden, "missing role")
			}
			for _, want := range roles {
				for _, have := range granted {
					if have == want {
						return next(c)
					}
				}
			}
			return deny(c, http.StatusForbidden, "insufficient permissions")
		}
	}
}
