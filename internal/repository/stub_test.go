package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/fitness-studio/api/internal/entity"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	beginTxFunc  func(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

func (s *stubPool) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, query, args...)
	}
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

func (s *stubPool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	if s.beginTxFunc != nil {
		return s.beginTxFunc(ctx, txOptions)
	}
	return nil, errors.New("begin tx not implemented")
}

// stubTx embeds pgx.Tx so only the methods the repositories call need bodies.
type stubTx struct {
	pgx.Tx
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	execs        []string
	committed    bool
}

func (s *stubTx) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return errors.New("query row not implemented") }}
}

func (s *stubTx) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return &stubRows{}, nil
}

func (s *stubTx) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, query)
	if s.execFunc != nil {
		return s.execFunc(ctx, query, args...)
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (s *stubTx) Commit(ctx context.Context) error {
	s.committed = true
	return nil
}

func (s *stubTx) Rollback(ctx context.Context) error { return nil }

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

type stubRows struct {
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (s *stubRows) Close() {}

func (s *stubRows) Err() error { return s.err }

func (s *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *stubRows) Next() bool {
	if s.err != nil {
		return false
	}
	if s.idx < len(s.scans) {
		s.idx++
		return true
	}
	return false
}

func (s *stubRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scans) {
		return errors.New("scan called out of order")
	}
	return s.scans[s.idx-1](dest...)
}

func (s *stubRows) Values() ([]any, error) { return nil, nil }

func (s *stubRows) RawValues() [][]byte { return nil }

func (s *stubRows) Conn() *pgx.Conn { return nil }

func noRows(dest ...any) error { return pgx.ErrNoRows }

func fillUser(u entity.User) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = u.ID
		*dest[1].(*string) = u.Username
		*dest[2].(*string) = u.Email
		*dest[3].(*string) = u.PasswordHash
		*dest[4].(*string) = u.FirstName
		*dest[5].(*string) = u.LastName
		*dest[6].(*time.Time) = u.DateOfBirth
		*dest[7].(*bool) = u.Enabled
		*dest[8].(*time.Time) = u.CreatedAt
		*dest[9].(*time.Time) = u.UpdatedAt
		*dest[10].(*[]string) = u.Roles
		return nil
	}
}

func fillTrainer(t entity.Trainer) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = t.ID
		*dest[1].(*string) = t.FirstName
		*dest[2].(*string) = t.LastName
		*dest[3].(*string) = t.Email
		*dest[4].(**string) = t.Phone
		*dest[5].(*string) = t.Description
		*dest[6].(*time.Time) = t.CreatedAt
		*dest[7].(*time.Time) = t.UpdatedAt
		return nil
	}
}

func fillClassTrainer(classID uuid.UUID, t entity.Trainer) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = classID
		return fillTrainer(t)(dest[1:]...)
	}
}

func fillFitnessClass(fc entity.FitnessClass) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = fc.ID
		*dest[1].(*string) = fc.Name
		*dest[2].(*string) = string(fc.DifficultyLevel)
		*dest[3].(*string) = fc.Description
		*dest[4].(*time.Time) = fc.CreatedAt
		*dest[5].(*time.Time) = fc.UpdatedAt
		return nil
	}
}

func fillGymEvent(ev entity.GymEvent, fc entity.FitnessClass) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = ev.ID
		*dest[1].(*time.Time) = ev.StartTime
		*dest[2].(*time.Time) = ev.EndTime
		*dest[3].(*string) = ev.Duration
		*dest[4].(*int) = ev.ParticipantsLimit
		*dest[5].(*int) = ev.CurrentParticipantsNumber
		*dest[6].(*time.Time) = ev.CreatedAt
		return fillFitnessClass(fc)(dest[7:]...)
	}
}
