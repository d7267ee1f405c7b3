package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/service"
)

// UserHandler exposes registration and account management endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs a handler instance.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a USER account.
func (h *UserHandler) Register(c echo.Context) error {
	var req dto.RegisterUserRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err, "failed to register user")
	}
	return Success(c, http.StatusCreated, "Registered new user", map[string]any{
		"is_registered": true,
		"user":          dto.NewUserResponse(*user),
	})
}

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	records, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return ServiceError(c, err, "failed to list users")
	}
	out := make([]dto.UserResponse, 0, len(records))
	for _, u := range records {
		out = append(out, dto.NewUserResponse(u))
	}
	return Success(c, http.StatusOK, "Retrieved list of users", map[string]any{"users": out})
}

// Get returns one user to an administrator or to the user itself.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return ServiceError(c, err, "failed to get user")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Retrieved user by id: %s", id), map[string]any{
		"user": dto.NewUserResponse(*user),
	})
}

// Update replaces the caller's own profile.
func (h *UserHandler) Update(c echo.Context) error {
	var req dto.UpdateUserRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.users.UpdateUser(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err, "failed to update user")
	}
	return Success(c, http.StatusOK, "Updated user", map[string]any{
		"is_updated": true,
		"user":       dto.NewUserResponse(*user),
	})
}

// Delete removes a user.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return ServiceError(c, err, "failed to delete user")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Deleted user with id: %s", id), map[string]any{"is_deleted": true})
}

// Me returns the authenticated caller.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.users.CurrentUser(c.Request().Context())
	if err != nil {
		return ServiceError(c, err, "failed to load current user")
	}
	return Success(c, http.StatusOK, "Retrieved current user", map[string]any{"user": dto.NewUserResponse(*user)})
}
