package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/fitness-studio/api/internal/auth"
)

// JWT validates bearer tokens and stores the principal in both the echo and
// the request context.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return deny(c, http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return deny(c, http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseToken(parts[1])
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token")
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token subject")
			}

			c.Set(ContextKeyUserID, claims.Subject)
			c.Set(ContextKeyUsername, claims.Username)
			c.Set(ContextKeyUserRoles, claims.Roles)

			principal := authpkg.Principal{UserID: userID, Username: claims.Username, Roles: claims.Roles}
			c.SetRequest(c.Request().WithContext(authpkg.WithPrincipal(c.Request().Context(), principal)))

			return next(c)
		}
	}
}
