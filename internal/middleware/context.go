package middleware

import (
	"github.com/labstack/echo/v4"
)

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyUserRoles = "user_roles"
	ContextKeyRequestID = "request_id"
)

// deny writes the shared error envelope.
func deny(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"status": "error", "message": message})
}
