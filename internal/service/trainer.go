package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/fitness-studio/api/internal/cache"
	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/repository"
)

// TrainerService manages the studio's trainers.
type TrainerService struct {
	repo     repository.TrainersRepository
	contacts *ContactNormalizer
	events   cache.EventListCache
	log      *zap.Logger
}

func NewTrainerService(repo repository.TrainersRepository, contacts *ContactNormalizer, log *zap.Logger) *TrainerService {
	if contacts == nil {
		contacts = NewContactNormalizer("")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TrainerService{repo: repo, contacts: contacts, events: cache.Noop{}, log: log}
}

// SetEventCache registers the event list cache, which embeds class trainers.
func (s *TrainerService) SetEventCache(c cache.EventListCache) {
	if c != nil {
		s.events = c
	}
}

func (s *TrainerService) List(ctx context.Context) ([]entity.Trainer, error) {
	return s.repo.List(ctx)
}

func (s *TrainerService) Get(ctx context.Context, id uuid.UUID) (*entity.Trainer, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new trainer with normalised contact details.
func (s *TrainerService) Create(ctx context.Context, req dto.TrainerRequest) (*entity.Trainer, error) {
	trainer, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	s.log.Info("creating trainer", zap.String("email", trainer.Email))
	return s.repo.Create(ctx, trainer)
}

// Update overwrites the trainer named by req.ID.
func (s *TrainerService) Update(ctx context.Context, req dto.TrainerRequest) (*entity.Trainer, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrIDRequired
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, repository.ErrTrainerNotFound
	}
	trainer, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	trainer.ID = id
	s.log.Info("updating trainer", zap.String("trainer_id", id.String()))
	updated, err := s.repo.Update(ctx, trainer)
	if err != nil {
		return nil, err
	}
	s.events.Invalidate(ctx)
	return updated, nil
}

func (s *TrainerService) Delete(ctx context.Context, id uuid.UUID) error {
	s.log.Info("deleting trainer", zap.String("trainer_id", id.String()))
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Invalidate(ctx)
	return nil
}

func (s *TrainerService) fromRequest(req dto.TrainerRequest) (*entity.Trainer, error) {
	email, err := s.contacts.Email(req.Email)
	if err != nil {
		return nil, err
	}
	phone, err := s.contacts.Phone(req.Phone)
	if err != nil {
		return nil, err
	}
	return &entity.Trainer{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       email,
		Phone:       phone,
		Description: strings.TrimSpace(req.Description),
	}, nil
}
