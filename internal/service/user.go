package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/fitness-studio/api/internal/auth"
	"github.com/octobees/fitness-studio/api/internal/cache"
	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/repository"
)

// UserService manages studio accounts and resolves the caller of a request.
type UserService struct {
	repo     repository.UsersRepository
	contacts *ContactNormalizer
	events   cache.EventListCache
	log      *zap.Logger
}

// NewUserService builds a new UserService instance.
func NewUserService(repo repository.UsersRepository, contacts *ContactNormalizer, log *zap.Logger) *UserService {
	if contacts == nil {
		contacts = NewContactNormalizer("")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{repo: repo, contacts: contacts, events: cache.Noop{}, log: log}
}

// SetEventCache registers the event list cache cleared when a deleted
// account releases its seats.
func (s *UserService) SetEventCache(c cache.EventListCache) {
	if c != nil {
		s.events = c
	}
}

// Register creates an enabled account with the USER role.
func (s *UserService) Register(ctx context.Context, req dto.RegisterUserRequest) (*entity.User, error) {
	s.log.Info("registering user", zap.String("username", req.Username))

	if req.Password != req.MatchingPassword {
		return nil, ErrPasswordMismatch
	}
	email, err := s.contacts.Email(req.Email)
	if err != nil {
		return nil, err
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &entity.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DateOfBirth:  dob,
		Enabled:      true,
		Roles:        []string{entity.RoleUser},
	})
}

// ListUsers returns all accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

// GetUser returns the account with id to an administrator or to its owner.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := s.authorizeSelfOrAdmin(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateUser replaces the profile of the authenticated user.
func (s *UserService) UpdateUser(ctx context.Context, req dto.UpdateUserRequest) (*entity.User, error) {
	current, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("updating user", zap.String("user_id", current.ID.String()))

	if req.Password != req.MatchingPassword {
		return nil, ErrPasswordMismatch
	}
	email, err := s.contacts.Email(req.Email)
	if err != nil {
		return nil, err
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	pwd := string(hashed)
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)

	return s.repo.Update(ctx, current.ID, repository.UserUpdate{
		Email:        &email,
		PasswordHash: &pwd,
		FirstName:    &first,
		LastName:     &last,
		DateOfBirth:  &dob,
	})
}

// DeleteUser removes an account. Administrators may remove anyone, users only themselves.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.authorizeSelfOrAdmin(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleting user", zap.String("user_id", id.String()))
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Invalidate(ctx)
	return nil
}

// CurrentUser loads the account of the authenticated caller.
func (s *UserService) CurrentUser(ctx context.Context) (*entity.User, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok || principal.Username == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.FindByUsername(ctx, principal.Username)
}

func (s *UserService) authorizeSelfOrAdmin(ctx context.Context, id uuid.UUID) error {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if principal.HasRole(entity.RoleAdmin) || principal.UserID == id {
		return nil
	}
	return ErrPermissionDenied
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(dto.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}
