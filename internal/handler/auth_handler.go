package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/v1/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return ServiceError(c, err, "unable to authenticate")
	}

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.authService.TokenTTLSeconds(),
	})
}
