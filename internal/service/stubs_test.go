package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/notify"
	"github.com/octobees/fitness-studio/api/internal/repository"
)

type stubUsersRepository struct {
	findByID       func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	findByUsername func(ctx context.Context, username string) (*entity.User, error)
	create         func(ctx context.Context, user *entity.User) (*entity.User, error)
	list           func(ctx context.Context) ([]entity.User, error)
	update         func(ctx context.Context, id uuid.UUID, patch repository.UserUpdate) (*entity.User, error)
	delete         func(ctx context.Context, id uuid.UUID) error
}

func (m *stubUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *stubUsersRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.findByUsername != nil {
		return m.findByUsername(ctx, username)
	}
	return nil, errors.New("FindByUsername not implemented")
}

func (m *stubUsersRepository) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, errors.New("FindByEmail not implemented")
}

func (m *stubUsersRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if m.create != nil {
		return m.create(ctx, user)
	}
	return nil, errors.New("Create not implemented")
}

func (m *stubUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *stubUsersRepository) Update(ctx context.Context, id uuid.UUID, patch repository.UserUpdate) (*entity.User, error) {
	if m.update != nil {
		return m.update(ctx, id, patch)
	}
	return nil, errors.New("Update not implemented")
}

func (m *stubUsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("Delete not implemented")
}

type stubTrainersRepository struct {
	create func(ctx context.Context, t *entity.Trainer) (*entity.Trainer, error)
	update func(ctx context.Context, t *entity.Trainer) (*entity.Trainer, error)
}

func (m *stubTrainersRepository) List(context.Context) ([]entity.Trainer, error) {
	return []entity.Trainer{}, nil
}

func (m *stubTrainersRepository) FindByID(context.Context, uuid.UUID) (*entity.Trainer, error) {
	return nil, repository.ErrTrainerNotFound
}

func (m *stubTrainersRepository) Create(ctx context.Context, t *entity.Trainer) (*entity.Trainer, error) {
	if m.create != nil {
		return m.create(ctx, t)
	}
	return nil, errors.New("Create not implemented")
}

func (m *stubTrainersRepository) Update(ctx context.Context, t *entity.Trainer) (*entity.Trainer, error) {
	if m.update != nil {
		return m.update(ctx, t)
	}
	return nil, errors.New("Update not implemented")
}

func (m *stubTrainersRepository) Delete(context.Context, uuid.UUID) error { return nil }

type stubClassesRepository struct {
	classes  map[uuid.UUID]*entity.FitnessClass
	assign   func(ctx context.Context, classID, trainerID uuid.UUID) error
	unassign func(ctx context.Context, classID, trainerID uuid.UUID) error
	updated  *entity.FitnessClass
}

func (m *stubClassesRepository) List(context.Context) ([]entity.FitnessClass, error) {
	out := make([]entity.FitnessClass, 0, len(m.classes))
	for _, c := range m.classes {
		out = append(out, *c)
	}
	return out, nil
}

func (m *stubClassesRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.FitnessClass, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, repository.ErrFitnessClassNotFound
}

func (m *stubClassesRepository) Create(_ context.Context, c *entity.FitnessClass) (*entity.FitnessClass, error) {
	created := *c
	created.ID = uuid.New()
	return &created, nil
}

func (m *stubClassesRepository) Update(_ context.Context, c *entity.FitnessClass) (*entity.FitnessClass, error) {
	m.updated = c
	if _, ok := m.classes[c.ID]; !ok {
		return nil, repository.ErrFitnessClassNotFound
	}
	return c, nil
}

func (m *stubClassesRepository) Delete(context.Context, uuid.UUID) error { return nil }

func (m *stubClassesRepository) AssignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error {
	if m.assign != nil {
		return m.assign(ctx, classID, trainerID)
	}
	return nil
}

func (m *stubClassesRepository) UnassignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error {
	if m.unassign != nil {
		return m.unassign(ctx, classID, trainerID)
	}
	return nil
}

// memoryEventsRepository serialises UpdateParticipants with a mutex, the way
// the row lock does in Postgres.
type memoryEventsRepository struct {
	mu        sync.Mutex
	events    map[uuid.UUID]*entity.GymEvent
	listCalls int
	commits   int
}

func newMemoryEventsRepository(events ...*entity.GymEvent) *memoryEventsRepository {
	r := &memoryEventsRepository{events: make(map[uuid.UUID]*entity.GymEvent)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *memoryEventsRepository) Create(_ context.Context, e *entity.GymEvent) (*entity.GymEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *e
	created.ID = uuid.New()
	r.events[created.ID] = &created
	return &created, nil
}

func (r *memoryEventsRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.GymEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, repository.ErrGymEventNotFound
	}
	cp := *e
	cp.Participants = append([]entity.User(nil), e.Participants...)
	return &cp, nil
}

func (r *memoryEventsRepository) List(context.Context) ([]entity.GymEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]entity.GymEvent, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *memoryEventsRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repository.ErrGymEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *memoryEventsRepository) UpdateParticipants(_ context.Context, id uuid.UUID, mutate repository.ParticipantsMutator) (*entity.GymEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[id]
	if !ok {
		return nil, repository.ErrGymEventNotFound
	}
	working := *stored
	working.Participants = append([]entity.User{}, stored.Participants...)

	changed, err := mutate(&working)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &working, nil
	}
	if working.CurrentParticipantsNumber > working.ParticipantsLimit {
		return nil, repository.ErrParticipantsLimitExceeded
	}
	r.events[id] = &working
	r.commits++
	return &working, nil
}

type stubIdentity struct {
	user *entity.User
	err  error
}

func (s stubIdentity) CurrentUser(context.Context) (*entity.User, error) {
	return s.user, s.err
}

type stubCache struct {
	events      []entity.GymEvent
	hit         bool
	sets        int
	invalidated int
}

func (c *stubCache) Get(context.Context) ([]entity.GymEvent, bool) { return c.events, c.hit }

func (c *stubCache) Set(_ context.Context, events []entity.GymEvent) {
	c.sets++
	c.events = events
}

func (c *stubCache) Invalidate(context.Context) {
	c.invalidated++
	c.hit = false
	c.events = nil
}

type recordingNotifier struct {
	sent chan notify.Enrollment
}

func (n *recordingNotifier) EnrollmentChanged(_ context.Context, e notify.Enrollment) error {
	n.sent <- e
	return nil
}

// blockingNotifier holds every notification until release is closed.
type blockingNotifier struct {
	release   chan struct{}
	delivered chan notify.Enrollment
}

func (n *blockingNotifier) EnrollmentChanged(ctx context.Context, e notify.Enrollment) error {
	select {
	case <-n.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	n.delivered <- e
	return nil
}
