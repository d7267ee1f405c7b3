package dto

import (
	"time"

	"github.com/octobees/fitness-studio/api/internal/entity"
)

// DateLayout is the wire format of calendar dates such as a date of birth.
const DateLayout = "2006-01-02"

// RegisterUserRequest captures self-service registration payloads.
type RegisterUserRequest struct {
	Username         string `json:"username" validate:"required,min=2"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	MatchingPassword string `json:"matching_password" validate:"required,eqfield=Password"`
	FirstName        string `json:"first_name" validate:"required,min=2"`
	LastName         string `json:"last_name" validate:"required,min=2"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// UpdateUserRequest replaces the profile of the authenticated user.
// Username, roles and the enabled flag cannot be changed through it.
type UpdateUserRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	MatchingPassword string `json:"matching_password" validate:"required,eqfield=Password"`
	FirstName        string `json:"first_name" validate:"required,min=2"`
	LastName         string `json:"last_name" validate:"required,min=2"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// UserResponse represents user data returned to clients.
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	Enabled     bool      `json:"enabled"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse hides the password hash of u.
func NewUserResponse(u entity.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DateOfBirth: u.DateOfBirth.Format(DateLayout),
		Enabled:     u.Enabled,
		Roles:       roles,
		CreatedAt:   u.CreatedAt,
	}
}
