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

var (
	ErrTrainerAlreadyAssigned = errors.New("trainer is already assigned to the fitness class")
	ErrTrainerNotAssigned     = errors.New("trainer is not assigned to the fitness class")
	ErrFitnessClassInUse      = errors.New("fitness class has scheduled gym events")
)

// FitnessClassesRepository describes persistence operations for fitness classes.
type FitnessClassesRepository interface {
	List(ctx context.Context) ([]entity.FitnessClass, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FitnessClass, error)
	Create(ctx context.Context, class *entity.FitnessClass) (*entity.FitnessClass, error)
	Update(ctx context.Context, class *entity.FitnessClass) (*entity.FitnessClass, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error
	UnassignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error
}

// PGXFitnessClassesRepository implements FitnessClassesRepository using pgx.
type PGXFitnessClassesRepository struct {
	pool pgxPool
}

// NewPGXFitnessClassesRepository wires a pgx backed repository.
func NewPGXFitnessClassesRepository(pool *pgxpool.Pool) *PGXFitnessClassesRepository {
	return &PGXFitnessClassesRepository{pool: pool}
}

const fitnessClassColumns = `id, name, difficulty_level, description, created_at, updated_at`

func scanFitnessClass(row pgx.Row) (*entity.FitnessClass, error) {
	var (
		fc    entity.FitnessClass
		level string
	)
	if err := row.Scan(&fc.ID, &fc.Name, &level, &fc.Description, &fc.CreatedAt, &fc.UpdatedAt); err != nil {
		return nil, err
	}
	fc.DifficultyLevel = entity.DifficultyLevel(level)
	fc.Trainers = []entity.Trainer{}
	return &fc, nil
}

// loadClassTrainers fills Trainers for every class in one round trip.
func loadClassTrainers(ctx context.Context, q querier, classes []*entity.FitnessClass) error {
	if len(classes) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*entity.FitnessClass, len(classes))
	ids := make([]uuid.UUID, 0, len(classes))
	for _, fc := range classes {
		byID[fc.ID] = fc
		ids = append(ids, fc.ID)
	}

	rows, err := q.Query(ctx, `
        SELECT fct.fitness_class_id, t.id, t.first_name, t.last_name, t.email, t.phone, t.description, t.created_at, t.updated_at
        FROM fitness_class_trainers fct
        JOIN trainers t ON t.id = fct.trainer_id
        WHERE fct.fitness_class_id = ANY($1)
        ORDER BY fct.assigned_at, t.id
    `, ids)
	if err != nil {
		return fmt.Errorf("query class trainers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			classID uuid.UUID
			t       entity.Trainer
		)
		if err := rows.Scan(&classID, &t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("scan class trainer row: %w", err)
		}
		if fc, ok := byID[classID]; ok {
			fc.Trainers = append(fc.Trainers, t)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate class trainers: %w", err)
	}
	return nil
}

// List returns every class with its trainers, ordered by name.
func (r *PGXFitnessClassesRepository) List(ctx context.Context) ([]entity.FitnessClass, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fitnessClassColumns+` FROM fitness_classes ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list fitness classes: %w", err)
	}

	refs := make([]*entity.FitnessClass, 0)
	for rows.Next() {
		fc, err := scanFitnessClass(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan fitness class row: %w", err)
		}
		refs = append(refs, fc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fitness classes: %w", err)
	}

	if err := loadClassTrainers(ctx, r.pool, refs); err != nil {
		return nil, err
	}

	classes := make([]entity.FitnessClass, 0, len(refs))
	for _, fc := range refs {
		classes = append(classes, *fc)
	}
	return classes, nil
}

// FindByID retrieves a class and its trainers.
func (r *PGXFitnessClassesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FitnessClass, error) {
	fc, err := scanFitnessClass(r.pool.QueryRow(ctx, `SELECT `+fitnessClassColumns+` FROM fitness_classes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFitnessClassNotFound
		}
		return nil, fmt.Errorf("query fitness class by id: %w", err)
	}
	if err := loadClassTrainers(ctx, r.pool, []*entity.FitnessClass{fc}); err != nil {
		return nil, err
	}
	return fc, nil
}

// Create inserts a class without trainers.
func (r *PGXFitnessClassesRepository) Create(ctx context.Context, class *entity.FitnessClass) (*entity.FitnessClass, error) {
	if class == nil {
		return nil, fmt.Errorf("fitness class payload is nil")
	}
	fc, err := scanFitnessClass(r.pool.QueryRow(ctx, `
        INSERT INTO fitness_classes (name, difficulty_level, description)
        VALUES ($1, $2, $3)
        RETURNING `+fitnessClassColumns,
		class.Name, string(class.DifficultyLevel), class.Description))
	if err != nil {
		return nil, fmt.Errorf("insert fitness class: %w", err)
	}
	return fc, nil
}

// Update overwrites name, difficulty and description; trainer assignments are kept.
func (r *PGXFitnessClassesRepository) Update(ctx context.Context, class *entity.FitnessClass) (*entity.FitnessClass, error) {
	if class == nil {
		return nil, fmt.Errorf("fitness class payload is nil")
	}
	fc, err := scanFitnessClass(r.pool.QueryRow(ctx, `
        UPDATE fitness_classes
        SET name = $1, difficulty_level = $2, description = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING `+fitnessClassColumns,
		class.Name, string(class.DifficultyLevel), class.Description, class.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFitnessClassNotFound
		}
		return nil, fmt.Errorf("update fitness class: %w", err)
	}
	if err := loadClassTrainers(ctx, r.pool, []*entity.FitnessClass{fc}); err != nil {
		return nil, err
	}
	return fc, nil
}

// Delete removes a class that no gym event references.
func (r *PGXFitnessClassesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM fitness_classes WHERE id = $1`, id)
	if err != nil {
		if isViolation(err, pgForeignKeyViolation, "") {
			return ErrFitnessClassInUse
		}
		return fmt.Errorf("delete fitness class: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrFitnessClassNotFound
	}
	return nil
}

// AssignTrainer links a trainer to a class.
func (r *PGXFitnessClassesRepository) AssignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO fitness_class_trainers (fitness_class_id, trainer_id) VALUES ($1, $2)`, classID, trainerID)
	if err == nil {
		return nil
	}
	switch code, constraint, _ := pgErrorCode(err); {
	case code == pgUniqueViolation:
		return ErrTrainerAlreadyAssigned
	case code == pgForeignKeyViolation && constraint == "fitness_class_trainers_trainer_id_fkey":
		return ErrTrainerNotFound
	case code == pgForeignKeyViolation:
		return ErrFitnessClassNotFound
	}
	return fmt.Errorf("assign trainer: %w", err)
}

// UnassignTrainer removes the link between a trainer and a class.
func (r *PGXFitnessClassesRepository) UnassignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM fitness_class_trainers WHERE fitness_class_id = $1 AND trainer_id = $2`, classID, trainerID)
	if err != nil {
		return fmt.Errorf("unassign trainer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrTrainerNotAssigned
	}
	return nil
}
