package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/service"
)

// TrainerHandler exposes trainer endpoints.
type TrainerHandler struct {
	trainers *service.TrainerService
}

func NewTrainerHandler(trainers *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainers: trainers}
}

func (h *TrainerHandler) List(c echo.Context) error {
	records, err := h.trainers.List(c.Request().Context())
	if err != nil {
		return ServiceError(c, err, "failed to list trainers")
	}
	out := make([]dto.TrainerResponse, 0, len(records))
	for _, t := range records {
		out = append(out, dto.NewTrainerResponse(t))
	}
	return Success(c, http.StatusOK, "Retrieved list of trainers", map[string]any{"trainers": out})
}

func (h *TrainerHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	trainer, err := h.trainers.Get(c.Request().Context(), id)
	if err != nil {
		return ServiceError(c, err, "failed to get trainer")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Retrieved trainer by id: %s", id), map[string]any{
		"trainer": dto.NewTrainerResponse(*trainer),
	})
}

func (h *TrainerHandler) Create(c echo.Context) error {
	var req dto.TrainerRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	trainer, err := h.trainers.Create(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err, "failed to create trainer")
	}
	return Success(c, http.StatusCreated, "Created new trainer", map[string]any{
		"trainer": dto.NewTrainerResponse(*trainer),
	})
}

func (h *TrainerHandler) Update(c echo.Context) error {
	var req dto.TrainerRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	trainer, err := h.trainers.Update(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err, "failed to update trainer")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Updated trainer with id: %s", trainer.ID), map[string]any{
		"trainer": dto.NewTrainerResponse(*trainer),
	})
}

func (h *TrainerHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.trainers.Delete(c.Request().Context(), id); err != nil {
		return ServiceError(c, err, "failed to delete trainer")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Deleted trainer with id: %s", id), map[string]any{"is_deleted": true})
}
