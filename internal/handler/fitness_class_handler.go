package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/service"
)

// FitnessClassHandler exposes class management endpoints.
type FitnessClassHandler struct {
	classes *service.FitnessClassService
}

func NewFitnessClassHandler(classes *service.FitnessClassService) *FitnessClassHandler {
	return &FitnessClassHandler{classes: classes}
}

func (h *FitnessClassHandler) List(c echo.Context) error {
	records, err := h.classes.List(c.Request().Context())
	if err != nil {
		return ServiceError(c, err, "failed to list fitness classes")
	}
	out := make([]dto.FitnessClassResponse, 0, len(records))
	for _, fc := range records {
		out = append(out, dto.NewFitnessClassResponse(fc))
	}
	return Success(c, http.StatusOK, "Retrieved list of fitness classes", map[string]any{"fitness_classes": out})
}

func (h *FitnessClassHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	class, err := h.classes.Get(c.Request().Context(), id)
	if err != nil {
		return ServiceError(c, err, "failed to get fitness class")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Retrieved fitness class by id: %s", id), map[string]any{
		"fitness_class": dto.NewFitnessClassResponse(*class),
	})
}

func (h *FitnessClassHandler) Create(c echo.Context) error {
	var req dto.FitnessClassRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	class, err := h.classes.Create(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err, "failed to create fitness class")
	}
	return Success(c, http.StatusCreated, "Created new fitness class", map[string]any{
		"fitness_class": dto.NewFitnessClassResponse(*class),
	})
}

func (h *FitnessClassHandler) Update(c echo.Context) error {
	var req dto.FitnessClassRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	class, err := h.classes.Update(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err, "failed to update fitness class")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Updated fitness class with id: %s", class.ID), map[string]any{
		"fitness_class": dto.NewFitnessClassResponse(*class),
	})
}

func (h *FitnessClassHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.classes.Delete(c.Request().Context(), id); err != nil {
		return ServiceError(c, err, "failed to delete fitness class")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Deleted fitness class with id: %s", id), map[string]any{"is_deleted": true})
}

// Assign handles PUT assign/:classId/:trainerId.
func (h *FitnessClassHandler) Assign(c echo.Context) error {
	classID, ok, err := pathID(c, "classId")
	if !ok {
		return err
	}
	trainerID, ok, err := pathID(c, "trainerId")
	if !ok {
		return err
	}
	if err := h.classes.AssignTrainer(c.Request().Context(), classID, trainerID); err != nil {
		return ServiceError(c, err, "failed to assign trainer")
	}
	return Success(c, http.StatusOK,
		fmt.Sprintf("Assigned trainer with id: %s to fitness class with id: %s", trainerID, classID),
		map[string]any{"is_assigned": true})
}

// Unassign handles PUT unassign/:classId/:trainerId.
func (h *FitnessClassHandler) Unassign(c echo.Context) error {
	classID, ok, err := pathID(c, "classId")
	if !ok {
		return err
	}
	trainerID, ok, err := pathID(c, "trainerId")
	if !ok {
		return err
	}
	if err := h.classes.UnassignTrainer(c.Request().Context(), classID, trainerID); err != nil {
		return ServiceError(c, err, "failed to unassign trainer")
	}
	return Success(c, http.StatusOK,
		fmt.Sprintf("Unassigned trainer with id: %s from fitness class with id: %s", trainerID, classID),
		map[string]any{"is_unassigned": true})
}
