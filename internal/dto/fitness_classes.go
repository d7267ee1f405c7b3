package dto

import "github.com/octobees/fitness-studio/api/internal/entity"

// FitnessClassRequest creates a class, or updates one when ID is set.
type FitnessClassRequest struct {
	ID              string `json:"id" validate:"omitempty,uuid"`
	Name            string `json:"name" validate:"required,min=2"`
	DifficultyLevel string `json:"difficulty_level" validate:"required,difficulty"`
	Description     string `json:"description" validate:"required,min=2"`
}

type FitnessClassResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	DifficultyLevel string            `json:"difficulty_level"`
	Description     string            `json:"description"`
	Trainers        []TrainerResponse `json:"trainers"`
}

func NewFitnessClassResponse(c entity.FitnessClass) FitnessClassResponse {
	trainers := make([]TrainerResponse, 0, len(c.Trainers))
	for _, t := range c.Trainers {
		trainers = append(trainers, NewTrainerResponse(t))
	}
	return FitnessClassResponse{
		ID:              c.ID.String(),
		Name:            c.Name,
		DifficultyLevel: string(c.DifficultyLevel),
		Description:     c.Description,
		Trainers:        trainers,
	}
}
