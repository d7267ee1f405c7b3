package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/fitness-studio/api/internal/entity"
)

// TrainersRepository describes persistence operations for trainers.
type TrainersRepository interface {
	List(ctx context.Context) ([]entity.Trainer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trainer, error)
	Create(ctx context.Context, trainer *entity.Trainer) (*entity.Trainer, error)
	Update(ctx context.Context, trainer *entity.Trainer) (*entity.Trainer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGXTrainersRepository implements TrainersRepository using pgx.
type PGXTrainersRepository struct {
	pool pgxPool
}

// NewPGXTrainersRepository wires a pgx backed repository.
func NewPGXTrainersRepository(pool *pgxpool.Pool) *PGXTrainersRepository {
	return &PGXTrainersRepository{pool: pool}
}

const trainerColumns = `id, first_name, last_name, email, phone, description, created_at, updated_at`

func scanTrainer(row pgx.Row) (*entity.Trainer, error) {
	var t entity.Trainer
	if err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns trainers ordered by last then first name.
func (r *PGXTrainersRepository) List(ctx context.Context) ([]entity.Trainer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+trainerColumns+` FROM trainers ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	defer rows.Close()

	trainers := make([]entity.Trainer, 0)
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trainer row: %w", err)
		}
		trainers = append(trainers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trainers: %w", err)
	}
	return trainers, nil
}

// FindByID retrieves a trainer by identifier.
func (r *PGXTrainersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trainer, error) {
	t, err := scanTrainer(r.pool.QueryRow(ctx, `SELECT `+trainerColumns+` FROM trainers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("query trainer by id: %w", err)
	}
	return t, nil
}

// Create inserts a trainer row.
func (r *PGXTrainersRepository) Create(ctx context.Context, trainer *entity.Trainer) (*entity.Trainer, error) {
	if trainer == nil {
		return nil, fmt.Errorf("trainer payload is nil")
	}
	t, err := scanTrainer(r.pool.QueryRow(ctx, `
        INSERT INTO trainers (first_name, last_name, email, phone, description)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+trainerColumns,
		trainer.FirstName, trainer.LastName, trainer.Email, trainer.Phone, trainer.Description))
	if err != nil {
		return nil, fmt.Errorf("insert trainer: %w", err)
	}
	return t, nil
}

// Update overwrites the trainer identified by trainer.ID.
func (r *PGXTrainersRepository) Update(ctx context.Context, trainer *entity.Trainer) (*entity.Trainer, error) {
	if trainer == nil {
		return nil, fmt.Errorf("trainer payload is nil")
	}
	t, err := scanTrainer(r.pool.QueryRow(ctx, `
        UPDATE trainers
        SET first_name = $1, last_name = $2, email = $3, phone = $4, description = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING `+trainerColumns,
		trainer.FirstName, trainer.LastName, trainer.Email, trainer.Phone, trainer.Description, trainer.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("update trainer: %w", err)
	}
	return t, nil
}

// Delete removes a trainer; class assignments cascade.
func (r *PGXTrainersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM trainers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trainer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrTrainerNotFound
	}
	return nil
}
