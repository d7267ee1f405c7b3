package dto

import "github.com/octobees/fitness-studio/api/internal/entity"

// TrainerRequest creates a trainer, or updates one when ID is set.
type TrainerRequest struct {
	ID          string  `json:"id" validate:"omitempty,uuid"`
	FirstName   string  `json:"first_name" validate:"required,min=2"`
	LastName    string  `json:"last_name" validate:"required,min=2"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty"`
	Description string  `json:"description" validate:"required,min=2"`
}

// TrainerResponse is the public view of a trainer.
type TrainerResponse struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Description string  `json:"description"`
}

func NewTrainerResponse(t entity.Trainer) TrainerResponse {
	return TrainerResponse{
		ID:          t.ID.String(),
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		Email:       t.Email,
		Phone:       t.Phone,
		Description: t.Description,
	}
}
