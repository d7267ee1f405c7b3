package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/repository"
	"github.com/octobees/fitness-studio/api/internal/service"
	"github.com/octobees/fitness-studio/api/internal/service/schedule"
	"github.com/octobees/fitness-studio/api/internal/validation"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}

// ValidationFailed reports every rejected field under data.errors.
func ValidationFailed(c echo.Context, errs validation.ValidationErrors) error {
	return c.JSON(http.StatusBadRequest, APIResponse{
		Status:  "error",
		Message: "validation failed",
		Data:    map[string]any{"errors": errs.Fields()},
	})
}

// badRequestErrors are business errors the client can fix by changing the request.
var badRequestErrors = []error{
	schedule.ErrInvalidSchedule,
	repository.ErrUsernameTaken,
	repository.ErrEmailDuplicate,
	repository.ErrTrainerAlreadyAssigned,
	repository.ErrTrainerNotAssigned,
	repository.ErrFitnessClassInUse,
	repository.ErrParticipantsLimitExceeded,
	service.ErrIDRequired,
	service.ErrInvalidEmail,
	service.ErrInvalidPhone,
	service.ErrInvalidDate,
	service.ErrPasswordMismatch,
	entity.ErrUnknownDifficulty,
}

// ServiceError maps a service error onto a status code. Unknown errors are
// reported with fallback so internals do not leak.
func ServiceError(c echo.Context, err error, fallback string) error {
	if ve, ok := validation.AsValidationErrors(err); ok {
		return ValidationFailed(c, ve)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrAccountDisabled):
		return Error(c, http.StatusForbidden, err.Error())
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
	}
	c.Logger().Errorf("%s: %v", fallback, err)
	return Error(c, http.StatusInternalServerError, fallback)
}

// bind decodes and validates the request body into dst. When it returns
// false the error response has already been written.
func bind(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := validation.Validate(dst); err != nil {
		if ve, ok := validation.AsValidationErrors(err); ok {
			return false, ValidationFailed(c, ve)
		}
		return false, Error(c, http.StatusBadRequest, "invalid payload")
	}
	return true, nil
}

// pathID parses the named path parameter as a UUID. When it returns false
// the error response has already been written.
func pathID(c echo.Context, name string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false, Error(c, http.StatusBadRequest, "invalid "+name)
	}
	return id, true, nil
}
