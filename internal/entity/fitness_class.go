package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DifficultyLevel grades how demanding a fitness class is.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "BEGINNER"
	DifficultyIntermediate DifficultyLevel = "INTERMEDIATE"
	DifficultyAdvanced     DifficultyLevel = "ADVANCED"
)

// ErrUnknownDifficulty is returned for names outside the three levels.
var ErrUnknownDifficulty = errors.New("unknown difficulty level")

// ParseDifficultyLevel accepts the canonical upper-case names.
func ParseDifficultyLevel(value string) (DifficultyLevel, error) {
	switch level := DifficultyLevel(strings.TrimSpace(value)); level {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return level, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownDifficulty, value)
	}
}

// FitnessClass is a type of training offered by the studio.
type FitnessClass struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	DifficultyLevel DifficultyLevel `json:"difficulty_level"`
	Description     string          `json:"description"`
	Trainers        []Trainer       `json:"trainers"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// HasTrainer reports whether the trainer is assigned to the class.
func (f *FitnessClass) HasTrainer(trainerID uuid.UUID) bool {
	for _, t := range f.Trainers {
		if t.ID == trainerID {
			return true
		}
	}
	return false
}
