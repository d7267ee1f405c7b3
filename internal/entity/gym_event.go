package entity

import (
	"time"

	"github.com/google/uuid"
)

// GymEvent is a scheduled occurrence of a fitness class with a bounded number of seats.
//
// CurrentParticipantsNumber always equals len(Participants) once an enrollment
// operation has succeeded, and never exceeds ParticipantsLimit.
type GymEvent struct {
	ID                        uuid.UUID     `json:"id"`
	StartTime                 time.Time     `json:"start_time"`
	EndTime                   time.Time     `json:"end_time"`
	Duration                  string        `json:"duration"`
	ParticipantsLimit         int           `json:"participants_limit"`
	CurrentParticipantsNumber int           `json:"current_participants_number"`
	Participants              []User        `json:"-"`
	FitnessClass              *FitnessClass `json:"fitness_class,omitempty"`
	CreatedAt                 time.Time     `json:"created_at"`
}

// NewGymEvent builds an event with no participants.
func NewGymEvent(start, end time.Time, duration string, limit int, class *FitnessClass) *GymEvent {
	return &GymEvent{
		StartTime:         start,
		EndTime:           end,
		Duration:          duration,
		ParticipantsLimit: limit,
		Participants:      []User{},
		FitnessClass:      class,
	}
}

// ParticipantIndex returns the position of the user in the participant list or -1.
func (e *GymEvent) ParticipantIndex(userID uuid.UUID) int {
	for i := range e.Participants {
		if e.Participants[i].ID == userID {
			return i
		}
	}
	return -1
}

// ParticipantIDs lists the ids of enrolled users in enrollment order.
func (e *GymEvent) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Participants))
	for _, p := range e.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}
