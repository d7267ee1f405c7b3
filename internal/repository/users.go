package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/fitness-studio/api/internal/entity"
)

var (
	ErrEmailDuplicate = errors.New("email already exists")
	ErrUsernameTaken  = errors.New("username already exists")
)

// UserUpdate lists the mutable profile fields. Nil pointers are left untouched.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	DateOfBirth  *time.Time
}

// UsersRepository declares persistence operations for studio accounts.
type UsersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, id uuid.UUID, patch UserUpdate) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGXUsersRepository implements UsersRepository with pgx.
type PGXUsersRepository struct {
	pool pgxPool
}

// NewPGXUsersRepository instantiates a users repository.
func NewPGXUsersRepository(pool *pgxpool.Pool) *PGXUsersRepository {
	return &PGXUsersRepository{pool: pool}
}

const userColumns = `
    u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
    u.date_of_birth, u.enabled, u.created_at, u.updated_at,
    COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')`

const userSelect = `SELECT` + userColumns + `
    FROM users u
    LEFT JOIN user_roles r ON r.user_id = u.id`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.DateOfBirth,
		&user.Enabled,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Roles,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PGXUsersRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, userSelect+` WHERE `+where+` GROUP BY u.id`, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindByID retrieves a user by identifier.
func (r *PGXUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := r.findOne(ctx, "u.id = $1", id)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, err
}

// FindByUsername fetches the account used for login and identity resolution.
func (r *PGXUsersRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := r.findOne(ctx, "u.username = $1", username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return user, err
}

// FindByEmail fetches a user by email if present.
func (r *PGXUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := r.findOne(ctx, "u.email = $1", email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, err
}

// Create inserts the user together with its roles.
func (r *PGXUsersRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if user == nil {
		return nil, fmt.Errorf("user payload is nil")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("start create user tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created := *user
	row := tx.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash, first_name, last_name, date_of_birth, enabled)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.DateOfBirth, user.Enabled)
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		if mapped := mapUserConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	for _, role := range user.Roles {
		if _, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, created.ID, role); err != nil {
			return nil, fmt.Errorf("insert user role %s: %w", role, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create user tx: %w", err)
	}
	return &created, nil
}

// List returns all users ordered by username.
func (r *PGXUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` GROUP BY u.id ORDER BY u.username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Update patches profile attributes.
func (r *PGXUsersRepository) Update(ctx context.Context, id uuid.UUID, patch UserUpdate) (*entity.User, error) {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING id`, strings.Join(setClauses, ", "), idx)

	var updatedID uuid.UUID
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if mapped := mapUserConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return r.FindByID(ctx, updatedID)
}

// Delete removes a user and releases the seats it held.
func (r *PGXUsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start delete user tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
        UPDATE gym_events
        SET current_participants_number = current_participants_number - 1
        WHERE id IN (SELECT gym_event_id FROM gym_event_participants WHERE user_id = $1)
    `, id); err != nil {
		return fmt.Errorf("release user seats: %w", err)
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete user tx: %w", err)
	}
	return nil
}

func mapUserConflict(err error) error {
	switch {
	case isViolation(err, pgUniqueViolation, "users_email_key"):
		return fmt.Errorf("%w: %v", ErrEmailDuplicate, err)
	case isViolation(err, pgUniqueViolation, "users_username_key"):
		return fmt.Errorf("%w: %v", ErrUsernameTaken, err)
	default:
		return nil
	}
}
