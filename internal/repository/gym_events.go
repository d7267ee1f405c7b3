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

// ErrParticipantsLimitExceeded is returned when a write would push the count past the limit.
var ErrParticipantsLimitExceeded = errors.New("participants limit exceeded")

// ParticipantsMutator changes the participants of a locked event and reports
// whether anything changed.
type ParticipantsMutator func(event *entity.GymEvent) (changed bool, err error)

// GymEventsRepository describes persistence operations for gym events.
type GymEventsRepository interface {
	Create(ctx context.Context, event *entity.GymEvent) (*entity.GymEvent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.GymEvent, error)
	List(ctx context.Context) ([]entity.GymEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateParticipants(ctx context.Context, id uuid.UUID, mutate ParticipantsMutator) (*entity.GymEvent, error)
}

// PGXGymEventsRepository implements GymEventsRepository using pgx.
type PGXGymEventsRepository struct {
	pool pgxPool
}

// NewPGXGymEventsRepository wires a pgx backed repository.
func NewPGXGymEventsRepository(pool *pgxpool.Pool) *PGXGymEventsRepository {
	return &PGXGymEventsRepository{pool: pool}
}

const gymEventSelect = `
    SELECT e.id, e.start_time, e.end_time, e.duration, e.participants_limit,
           e.current_participants_number, e.created_at,
           c.id, c.name, c.difficulty_level, c.description, c.created_at, c.updated_at
    FROM gym_events e
    JOIN fitness_classes c ON c.id = e.fitness_class_id`

func scanGymEvent(row pgx.Row) (*entity.GymEvent, error) {
	var (
		ev    entity.GymEvent
		fc    entity.FitnessClass
		level string
	)
	if err := row.Scan(
		&ev.ID,
		&ev.StartTime,
		&ev.EndTime,
		&ev.Duration,
		&ev.ParticipantsLimit,
		&ev.CurrentParticipantsNumber,
		&ev.CreatedAt,
		&fc.ID,
		&fc.Name,
		&level,
		&fc.Description,
		&fc.CreatedAt,
		&fc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	fc.DifficultyLevel = entity.DifficultyLevel(level)
	fc.Trainers = []entity.Trainer{}
	ev.FitnessClass = &fc
	ev.Participants = []entity.User{}
	return &ev, nil
}

func loadParticipants(ctx context.Context, q querier, event *entity.GymEvent) error {
	rows, err := q.Query(ctx, `SELECT`+userColumns+`
        FROM gym_event_participants p
        JOIN users u ON u.id = p.user_id
        LEFT JOIN user_roles r ON r.user_id = u.id
        WHERE p.gym_event_id = $1
        GROUP BY u.id, p.enrolled_at
        ORDER BY p.enrolled_at, u.id
    `, event.ID)
	if err != nil {
		return fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return fmt.Errorf("scan participant row: %w", err)
		}
		participants = append(participants, *user)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate participants: %w", err)
	}
	event.Participants = participants
	return nil
}

// Create persists a new event. Participants are never written here.
func (r *PGXGymEventsRepository) Create(ctx context.Context, event *entity.GymEvent) (*entity.GymEvent, error) {
	if event == nil || event.FitnessClass == nil {
		return nil, fmt.Errorf("gym event payload is incomplete")
	}

	created := *event
	created.Participants = []entity.User{}
	created.CurrentParticipantsNumber = 0

	row := r.pool.QueryRow(ctx, `
        INSERT INTO gym_events (start_time, end_time, duration, participants_limit, current_participants_number, fitness_class_id)
        VALUES ($1, $2, $3, $4, 0, $5)
        RETURNING id, created_at
    `, event.StartTime, event.EndTime, event.Duration, event.ParticipantsLimit, event.FitnessClass.ID)
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		if isViolation(err, pgForeignKeyViolation, "") {
			return nil, ErrFitnessClassNotFound
		}
		return nil, fmt.Errorf("insert gym event: %w", err)
	}
	return &created, nil
}

// FindByID loads an event with its class, trainers and participants.
func (r *PGXGymEventsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GymEvent, error) {
	event, err := scanGymEvent(r.pool.QueryRow(ctx, gymEventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGymEventNotFound
		}
		return nil, fmt.Errorf("query gym event by id: %w", err)
	}
	if err := loadClassTrainers(ctx, r.pool, []*entity.FitnessClass{event.FitnessClass}); err != nil {
		return nil, err
	}
	if err := loadParticipants(ctx, r.pool, event); err != nil {
		return nil, err
	}
	return event, nil
}

// List returns every event ordered by ascending start time.
func (r *PGXGymEventsRepository) List(ctx context.Context) ([]entity.GymEvent, error) {
	rows, err := r.pool.Query(ctx, gymEventSelect+` ORDER BY e.start_time ASC, e.id`)
	if err != nil {
		return nil, fmt.Errorf("list gym events: %w", err)
	}

	events := make([]entity.GymEvent, 0)
	classes := make(map[uuid.UUID]*entity.FitnessClass)
	refs := make([]*entity.FitnessClass, 0)
	for rows.Next() {
		ev, err := scanGymEvent(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan gym event row: %w", err)
		}
		if shared, ok := classes[ev.FitnessClass.ID]; ok {
			ev.FitnessClass = shared
		} else {
			classes[ev.FitnessClass.ID] = ev.FitnessClass
			refs = append(refs, ev.FitnessClass)
		}
		events = append(events, *ev)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gym events: %w", err)
	}

	if err := loadClassTrainers(ctx, r.pool, refs); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes an event; participant rows cascade.
func (r *PGXGymEventsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM gym_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gym event: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrGymEventNotFound
	}
	return nil
}

// UpdateParticipants locks the event row for the duration of mutate and writes
// the resulting participant diff and counter in the same transaction. Concurrent
// calls for one event are serialised by the row lock.
func (r *PGXGymEventsRepository) UpdateParticipants(ctx context.Context, id uuid.UUID, mutate ParticipantsMutator) (*entity.GymEvent, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("start participants tx: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := scanGymEvent(tx.QueryRow(ctx, gymEventSelect+` WHERE e.id = $1 FOR UPDATE OF e`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGymEventNotFound
		}
		return nil, fmt.Errorf("lock gym event: %w", err)
	}
	if err := loadParticipants(ctx, tx, event); err != nil {
		return nil, err
	}

	before := event.ParticipantIDs()

	changed, err := mutate(event)
	if err != nil {
		return nil, err
	}
	if !changed {
		return event, nil
	}

	added, removed := diffParticipants(before, event.ParticipantIDs())

	if len(removed) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM gym_event_participants WHERE gym_event_id = $1 AND user_id = ANY($2)`, id, removed); err != nil {
			return nil, fmt.Errorf("remove participants: %w", err)
		}
	}
	for _, userID := range added {
		if _, err := tx.Exec(ctx, `INSERT INTO gym_event_participants (gym_event_id, user_id) VALUES ($1, $2)`, id, userID); err != nil {
			return nil, fmt.Errorf("add participant: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE gym_events SET current_participants_number = $1 WHERE id = $2`, event.CurrentParticipantsNumber, id); err != nil {
		if isViolation(err, pgCheckViolation, "gym_events_capacity_check") {
			return nil, ErrParticipantsLimitExceeded
		}
		return nil, fmt.Errorf("update participants count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit participants tx: %w", err)
	}
	return event, nil
}

func diffParticipants(before, after []uuid.UUID) (added, removed []uuid.UUID) {
	was := make(map[uuid.UUID]struct{}, len(before))
	for _, id := range before {
		was[id] = struct{}{}
	}
	now := make(map[uuid.UUID]struct{}, len(after))
	for _, id := range after {
		now[id] = struct{}{}
		if _, ok := was[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if _, ok := now[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
