package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/fitness-studio/api/internal/cache"
	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/metrics"
	"github.com/octobees/fitness-studio/api/internal/notify"
	"github.com/octobees/fitness-studio/api/internal/repository"
	"github.com/octobees/fitness-studio/api/internal/service/enrollment"
	"github.com/octobees/fitness-studio/api/internal/service/schedule"
)

const notifyTimeout = 5 * time.Second

// Identity resolves the user behind the current request.
type Identity interface {
	CurrentUser(ctx context.Context) (*entity.User, error)
}

// GymEventService schedules events and runs enrollments against them.
type GymEventService struct {
	events   repository.GymEventsRepository
	classes  repository.FitnessClassesRepository
	identity Identity
	cache    cache.EventListCache
	notifier notify.Notifier
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time

	pending sync.WaitGroup
}

// GymEventServiceOption configures optional collaborators.
type GymEventServiceOption func(*GymEventService)

func WithClock(now func() time.Time) GymEventServiceOption {
	return func(s *GymEventService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithEventCache(c cache.EventListCache) GymEventServiceOption {
	return func(s *GymEventService) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithNotifier(n notify.Notifier) GymEventServiceOption {
	return func(s *GymEventService) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(log *zap.Logger) GymEventServiceOption {
	return func(s *GymEventService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLocation sets the timezone request times are read in.
func WithLocation(loc *time.Location) GymEventServiceOption {
	return func(s *GymEventService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewGymEventService builds the service with a wall clock, no cache and no notifier.
func NewGymEventService(events repository.GymEventsRepository, classes repository.FitnessClassesRepository, identity Identity, opts ...GymEventServiceOption) *GymEventService {
	s := &GymEventService{
		events:   events,
		classes:  classes,
		identity: identity,
		cache:    cache.Noop{},
		notifier: notify.Noop{},
		log:      zap.NewNop(),
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEvent validates the window, resolves the class and stores an empty event.
func (s *GymEventService) CreateEvent(ctx context.Context, req dto.GymEventRequest) (*entity.GymEvent, error) {
	s.log.Info("creating gym event", zap.String("fitness_class_id", req.FitnessClassID))

	start, end, err := req.ParseTimes(s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if err := schedule.ValidateWindow(start, end, s.now()); err != nil {
		return nil, err
	}

	classID, err := uuid.Parse(req.FitnessClassID)
	if err != nil {
		return nil, repository.ErrFitnessClassNotFound
	}
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	event := entity.NewGymEvent(start, end, schedule.ComputeDuration(start, end), req.ParticipantsLimit, class)
	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return created, nil
}

// GetEvent returns one event.
func (s *GymEventService) GetEvent(ctx context.Context, id uuid.UUID) (*entity.GymEvent, error) {
	return s.events.FindByID(ctx, id)
}

// GetEventWithParticipants returns one event with its enrolled users resolved.
func (s *GymEventService) GetEventWithParticipants(ctx context.Context, id uuid.UUID) (*entity.GymEvent, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Participants == nil {
		event.Participants = []entity.User{}
	}
	return event, nil
}

// ListEvents returns all events by ascending start time.
func (s *GymEventService) ListEvents(ctx context.Context) ([]entity.GymEvent, error) {
	if events, ok := s.cache.Get(ctx); ok {
		return events, nil
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, events)
	return events, nil
}

// DeleteEvent removes the event and its enrollments.
func (s *GymEventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	s.log.Info("deleting gym event", zap.String("gym_event_id", id.String()))
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// EnrollCurrentUser adds the caller to the event. Business rule rejections
// yield false without an error.
func (s *GymEventService) EnrollCurrentUser(ctx context.Context, eventID uuid.UUID) (bool, error) {
	s.log.Info("enrolling user in gym event", zap.String("gym_event_id", eventID.String()))
	return s.changeParticipation(ctx, eventID, metrics.ActionEnroll, notify.ActionEnrolled, enrollment.Add)
}

// DisenrollCurrentUser removes the caller from the event.
func (s *GymEventService) DisenrollCurrentUser(ctx context.Context, eventID uuid.UUID) (bool, error) {
	s.log.Info("disenrolling user from gym event", zap.String("gym_event_id", eventID.String()))
	return s.changeParticipation(ctx, eventID, metrics.ActionDisenroll, notify.ActionDisenrolled, enrollment.Remove)
}

type engineOp func(event *entity.GymEvent, user *entity.User, now time.Time) enrollment.Outcome

func (s *GymEventService) changeParticipation(ctx context.Context, eventID uuid.UUID, action, notifyAction string, op engineOp) (bool, error) {
	var (
		outcome enrollment.Outcome
		user    *entity.User
	)

	_, err := s.events.UpdateParticipants(ctx, eventID, func(event *entity.GymEvent) (bool, error) {
		var err error
		user, err = s.resolveUser(ctx)
		if err != nil {
			return false, err
		}
		outcome = op(event, user, s.now())
		return outcome.OK(), nil
	})
	if err != nil {
		return false, err
	}

	metrics.RecordEnrollment(action, outcome.String())
	if !outcome.OK() {
		s.log.Info("gym event participation unchanged",
			zap.String("gym_event_id", eventID.String()),
			zap.String("outcome", outcome.String()))
		return false, nil
	}

	s.cache.Invalidate(ctx)
	s.notify(ctx, notify.Enrollment{GymEventID: eventID, UserID: user.ID, Action: notifyAction})
	return true, nil
}

// resolveUser maps a missing caller to a nil user so the engine rejects it.
func (s *GymEventService) resolveUser(ctx context.Context) (*entity.User, error) {
	if s.identity == nil {
		return nil, nil
	}
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, ErrUnauthenticated) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	return user, nil
}

func (s *GymEventService) notify(ctx context.Context, e notify.Enrollment) {
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := s.notifier.EnrollmentChanged(ctx, e); err != nil {
			s.log.Warn("enrollment notification failed",
				zap.String("gym_event_id", e.GymEventID.String()),
				zap.String("action", e.Action),
				zap.Error(err))
		}
	}()
}

// Drain blocks until every enrollment notification already started has
// finished, or ctx is done.
func (s *GymEventService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain enrollment notifications: %w", ctx.Err())
	}
}
