package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/auth"
	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/repository"
)

type usersRepoForHandler struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newUsersRepo(users ...*entity.User) *usersRepoForHandler {
	r := &usersRepoForHandler{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *usersRepoForHandler) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *usersRepoForHandler) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *usersRepoForHandler) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, errors.New("not implemented")
}

func (r *usersRepoForHandler) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, repository.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, repository.ErrEmailDuplicate
		}
	}
	created := *user
	created.ID = uuid.New()
	r.users[created.ID] = &created
	return &created, nil
}

func (r *usersRepoForHandler) List(context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *usersRepoForHandler) Update(_ context.Context, id uuid.UUID, patch repository.UserUpdate) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	return u, nil
}

func (r *usersRepoForHandler) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type classesRepoForHandler struct {
	classes  map[uuid.UUID]*entity.FitnessClass
	assigned map[[2]uuid.UUID]bool
}

func newClassesRepo(classes ...*entity.FitnessClass) *classesRepoForHandler {
	r := &classesRepoForHandler{classes: make(map[uuid.UUID]*entity.FitnessClass), assigned: make(map[[2]uuid.UUID]bool)}
	for _, c := range classes {
		r.classes[c.ID] = c
	}
	return r
}

func (r *classesRepoForHandler) List(context.Context) ([]entity.FitnessClass, error) {
	out := make([]entity.FitnessClass, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *classesRepoForHandler) FindByID(_ context.Context, id uuid.UUID) (*entity.FitnessClass, error) {
	if c, ok := r.classes[id]; ok {
		return c, nil
	}
	return nil, repository.ErrFitnessClassNotFound
}

func (r *classesRepoForHandler) Create(_ context.Context, c *entity.FitnessClass) (*entity.FitnessClass, error) {
	created := *c
	created.ID = uuid.New()
	r.classes[created.ID] = &created
	return &created, nil
}

func (r *classesRepoForHandler) Update(_ context.Context, c *entity.FitnessClass) (*entity.FitnessClass, error) {
	if _, ok := r.classes[c.ID]; !ok {
		return nil, repository.ErrFitnessClassNotFound
	}
	r.classes[c.ID] = c
	return c, nil
}

func (r *classesRepoForHandler) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.classes[id]; !ok {
		return repository.ErrFitnessClassNotFound
	}
	delete(r.classes, id)
	return nil
}

func (r *classesRepoForHandler) AssignTrainer(_ context.Context, classID, trainerID uuid.UUID) error {
	if _, ok := r.classes[classID]; !ok {
		return repository.ErrFitnessClassNotFound
	}
	key := [2]uuid.UUID{classID, trainerID}
	if r.assigned[key] {
		return repository.ErrTrainerAlreadyAssigned
	}
	r.assigned[key] = true
	return nil
}

func (r *classesRepoForHandler) UnassignTrainer(_ context.Context, classID, trainerID uuid.UUID) error {
	key := [2]uuid.UUID{classID, trainerID}
	if !r.assigned[key] {
		return repository.ErrTrainerNotAssigned
	}
	delete(r.assigned, key)
	return nil
}

type trainersRepoForHandler struct {
	trainers map[uuid.UUID]*entity.Trainer
}

func (r *trainersRepoForHandler) List(context.Context) ([]entity.Trainer, error) {
	out := make([]entity.Trainer, 0, len(r.trainers))
	for _, t := range r.trainers {
		out = append(out, *t)
	}
	return out, nil
}

func (r *trainersRepoForHandler) FindByID(_ context.Context, id uuid.UUID) (*entity.Trainer, error) {
	if t, ok := r.trainers[id]; ok {
		return t, nil
	}
	return nil, repository.ErrTrainerNotFound
}

func (r *trainersRepoForHandler) Create(_ context.Context, t *entity.Trainer) (*entity.Trainer, error) {
	created := *t
	created.ID = uuid.New()
	r.trainers[created.ID] = &created
	return &created, nil
}

func (r *trainersRepoForHandler) Update(_ context.Context, t *entity.Trainer) (*entity.Trainer, error) {
	if _, ok := r.trainers[t.ID]; !ok {
		return nil, repository.ErrTrainerNotFound
	}
	r.trainers[t.ID] = t
	return t, nil
}

func (r *trainersRepoForHandler) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.trainers[id]; !ok {
		return repository.ErrTrainerNotFound
	}
	delete(r.trainers, id)
	return nil
}

type eventsRepoForHandler struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.GymEvent
}

func newEventsRepo(events ...*entity.GymEvent) *eventsRepoForHandler {
	r := &eventsRepoForHandler{events: make(map[uuid.UUID]*entity.GymEvent)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *eventsRepoForHandler) Create(_ context.Context, e *entity.GymEvent) (*entity.GymEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *e
	created.ID = uuid.New()
	r.events[created.ID] = &created
	return &created, nil
}

func (r *eventsRepoForHandler) FindByID(_ context.Context, id uuid.UUID) (*entity.GymEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, repository.ErrGymEventNotFound
}

func (r *eventsRepoForHandler) List(context.Context) ([]entity.GymEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.GymEvent, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *eventsRepoForHandler) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repository.ErrGymEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *eventsRepoForHandler) UpdateParticipants(_ context.Context, id uuid.UUID, mutate repository.ParticipantsMutator) (*entity.GymEvent, error) {
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
	if changed {
		r.events[id] = &working
	}
	return &working, nil
}

// newJSONContext builds an echo context with a JSON body, optional path params and an optional principal.
func newJSONContext(e *echo.Echo, method, target string, body any, principal *auth.Principal, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), *principal))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func decodeData(rec *httptest.ResponseRecorder) map[string]any {
	var payload struct {
		Data map[string]any `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	return payload.Data
}
