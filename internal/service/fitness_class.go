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

// FitnessClassService manages class definitions and their trainers.
type FitnessClassService struct {
	repo   repository.FitnessClassesRepository
	events cache.EventListCache
	log    *zap.Logger
}

func NewFitnessClassService(repo repository.FitnessClassesRepository, log *zap.Logger) *FitnessClassService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FitnessClassService{repo: repo, events: cache.Noop{}, log: log}
}

// SetEventCache registers the event list cache, which embeds each event's class.
func (s *FitnessClassService) SetEventCache(c cache.EventListCache) {
	if c != nil {
		s.events = c
	}
}

func (s *FitnessClassService) List(ctx context.Context) ([]entity.FitnessClass, error) {
	return s.repo.List(ctx)
}

func (s *FitnessClassService) Get(ctx context.Context, id uuid.UUID) (*entity.FitnessClass, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *FitnessClassService) Create(ctx context.Context, req dto.FitnessClassRequest) (*entity.FitnessClass, error) {
	class, err := fitnessClassFromRequest(req)
	if err != nil {
		return nil, err
	}
	s.log.Info("creating fitness class", zap.String("name", class.Name))
	return s.repo.Create(ctx, class)
}

// Update overwrites the class named by req.ID. Assigned trainers are kept.
func (s *FitnessClassService) Update(ctx context.Context, req dto.FitnessClassRequest) (*entity.FitnessClass, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrIDRequired
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, repository.ErrFitnessClassNotFound
	}
	class, err := fitnessClassFromRequest(req)
	if err != nil {
		return nil, err
	}
	class.ID = id
	s.log.Info("updating fitness class", zap.String("fitness_class_id", id.String()))
	updated, err := s.repo.Update(ctx, class)
	if err != nil {
		return nil, err
	}
	s.events.Invalidate(ctx)
	return updated, nil
}

func (s *FitnessClassService) Delete(ctx context.Context, id uuid.UUID) error {
	s.log.Info("deleting fitness class", zap.String("fitness_class_id", id.String()))
	return s.repo.Delete(ctx, id)
}

// AssignTrainer fails with repository.ErrTrainerAlreadyAssigned on a repeated assignment.
func (s *FitnessClassService) AssignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error {
	s.log.Info("assigning trainer to fitness class",
		zap.String("fitness_class_id", classID.String()),
		zap.String("trainer_id", trainerID.String()))
	return s.invalidateOnSuccess(ctx, s.repo.AssignTrainer(ctx, classID, trainerID))
}

// UnassignTrainer fails with repository.ErrTrainerNotAssigned when there is nothing to remove.
func (s *FitnessClassService) UnassignTrainer(ctx context.Context, classID, trainerID uuid.UUID) error {
	s.log.Info("unassigning trainer from fitness class",
		zap.String("fitness_class_id", classID.String()),
		zap.String("trainer_id", trainerID.String()))
	return s.invalidateOnSuccess(ctx, s.repo.UnassignTrainer(ctx, classID, trainerID))
}

func (s *FitnessClassService) invalidateOnSuccess(ctx context.Context, err error) error {
	if err == nil {
		s.events.Invalidate(ctx)
	}
	return err
}

func fitnessClassFromRequest(req dto.FitnessClassRequest) (*entity.FitnessClass, error) {
	level, err := entity.ParseDifficultyLevel(req.DifficultyLevel)
	if err != nil {
		return nil, err
	}
	return &entity.FitnessClass{
		Name:            strings.TrimSpace(req.Name),
		DifficultyLevel: level,
		Description:     strings.TrimSpace(req.Description),
	}, nil
}
