package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/service"
)

// GymEventHandler exposes scheduling and enrollment endpoints.
type GymEventHandler struct {
	events *service.GymEventService
	loc    *time.Location
}

// NewGymEventHandler renders event times in loc.
func NewGymEventHandler(events *service.GymEventService, loc *time.Location) *GymEventHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &GymEventHandler{events: events, loc: loc}
}

func (h *GymEventHandler) List(c echo.Context) error {
	events, err := h.events.ListEvents(c.Request().Context())
	if err != nil {
		return ServiceError(c, err, "failed to list gym events")
	}
	return Success(c, http.StatusOK, "Retrieved list of gym events", map[string]any{
		"gym_events": dto.NewGymEventResponses(events, h.loc),
	})
}

func (h *GymEventHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	event, err := h.events.GetEvent(c.Request().Context(), id)
	if err != nil {
		return ServiceError(c, err, "failed to get gym event")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Retrieved gym event by id: %s", id), map[string]any{
		"gym_event": dto.NewGymEventResponse(*event, h.loc, false),
	})
}

// GetWithParticipants is the management view listing enrolled users.
func (h *GymEventHandler) GetWithParticipants(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	event, err := h.events.GetEventWithParticipants(c.Request().Context(), id)
	if err != nil {
		return ServiceError(c, err, "failed to get gym event")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Retrieved gym event by id: %s with participants", id), map[string]any{
		"gym_event": dto.NewGymEventResponse(*event, h.loc, true),
	})
}

func (h *GymEventHandler) Create(c echo.Context) error {
	var req dto.GymEventRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	event, err := h.events.CreateEvent(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err, "failed to create gym event")
	}
	return Success(c, http.StatusCreated, "Created new gym event", map[string]any{
		"gym_event": dto.NewGymEventResponse(*event, h.loc, false),
	})
}

func (h *GymEventHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.events.DeleteEvent(c.Request().Context(), id); err != nil {
		return ServiceError(c, err, "failed to delete gym event")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("Deleted gym event with id: %s", id), map[string]any{"is_deleted": true})
}

// Enroll answers 200 with is_enrolled=false when a business rule rejects the request.
func (h *GymEventHandler) Enroll(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	enrolled, err := h.events.EnrollCurrentUser(c.Request().Context(), id)
	if err != nil {
		return ServiceError(c, err, "failed to enroll in gym event")
	}
	return Success(c, http.StatusOK, "Enrolled in event", map[string]any{"is_enrolled": enrolled})
}

func (h *GymEventHandler) Disenroll(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	disenrolled, err := h.events.DisenrollCurrentUser(c.Request().Context(), id)
	if err != nil {
		return ServiceError(c, err, "failed to disenroll from gym event")
	}
	return Success(c, http.StatusOK, "Disenrolled from event", map[string]any{"is_disenrolled": disenrolled})
}
