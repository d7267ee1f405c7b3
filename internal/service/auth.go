package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/fitness-studio/api/internal/auth"
	"github.com/octobees/fitness-studio/api/internal/repository"
)

// AuthService coordinates credential validation and token issuance.
type AuthService struct {
	users repository.UsersRepository
	jwt   *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwtManager}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.Enabled {
		return "", ErrAccountDisabled
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Username, user.Roles)
	if err != nil {
		return "", err
	}

	return token, nil
}

// TokenTTLSeconds reports the lifetime of issued tokens.
func (s *AuthService) TokenTTLSeconds() int64 {
	return int64(s.jwt.TTL().Seconds())
}
