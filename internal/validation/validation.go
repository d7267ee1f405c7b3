package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/octobees/fitness-studio/api/internal/entity"
)

// V is the shared validator instance.
var V *validator.Validate

func init() {
	V = validator.New(validator.WithRequiredStructEnabled())

	V.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := V.RegisterValidation("difficulty", validDifficulty); err != nil {
		panic(fmt.Sprintf("register difficulty validation: %v", err))
	}
}

func validDifficulty(fl validator.FieldLevel) bool {
	_, err := entity.ParseDifficultyLevel(fl.Field().String())
	return err == nil
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every field rejected in one payload.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(msgs, "; ")
}

// Fields maps field names to messages, keeping the first message per field.
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	err := V.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate payload: %w", err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// AsValidationErrors unwraps ValidationErrors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be empty"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("min length is %s", fe.Param())
		}
		return fmt.Sprintf("must be min %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be min %s", fe.Param())
	case "eqfield":
		return "the password must match"
	case "uuid":
		return "must be a valid id"
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	case "difficulty":
		return "must be one of BEGINNER, INTERMEDIATE, ADVANCED"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
