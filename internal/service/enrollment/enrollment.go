// Package enrollment owns the participant bookkeeping of a gym event.
//
// Add and Remove are the only code paths allowed to change an event's participant
// list or counter. Rule rejections are reported as an Outcome, never as an error;
// callers that only need a yes/no answer use Outcome.OK.
package enrollment

import (
	"time"

	"github.com/octobees/fitness-studio/api/internal/entity"
)

// Outcome tags the result of an enrollment transition.
type Outcome int

const (
	OutcomeEnrolled Outcome = iota
	OutcomeDisenrolled
	OutcomeNoUser
	OutcomeNoCapacity
	OutcomeFull
	OutcomeEventStarted
	OutcomeAlreadyEnrolled
	OutcomeNotEnrolled
)

var outcomeNames = map[Outcome]string{
	OutcomeEnrolled:        "enrolled",
	OutcomeDisenrolled:     "disenrolled",
	OutcomeNoUser:          "no_user",
	OutcomeNoCapacity:      "no_capacity",
	OutcomeFull:            "full",
	OutcomeEventStarted:    "event_started",
	OutcomeAlreadyEnrolled: "already_enrolled",
	OutcomeNotEnrolled:     "not_enrolled",
}

// String returns a stable snake_case label, used for logs and metric labels.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// OK reports whether the event was mutated.
func (o Outcome) OK() bool {
	return o == OutcomeEnrolled || o == OutcomeDisenrolled
}

// Add enrolls user in event when every rule holds, checked in this order:
// user present, limit positive, seats left, event not started, not yet enrolled.
func Add(event *entity.GymEvent, user *entity.User, now time.Time) Outcome {
	ensureParticipants(event)

	switch {
	case user == nil:
		return OutcomeNoUser
	case event.ParticipantsLimit <= 0:
		return OutcomeNoCapacity
	case event.CurrentParticipantsNumber >= event.ParticipantsLimit:
		return OutcomeFull
	case !event.StartTime.After(now):
		return OutcomeEventStarted
	case event.ParticipantIndex(user.ID) >= 0:
		return OutcomeAlreadyEnrolled
	}

	event.Participants = append(event.Participants, *user)
	event.CurrentParticipantsNumber++
	return OutcomeEnrolled
}

// Remove disenrolls user from an event that has not started yet. The limit is
// not consulted.
func Remove(event *entity.GymEvent, user *entity.User, now time.Time) Outcome {
	ensureParticipants(event)

	if user == nil {
		return OutcomeNoUser
	}
	if !event.StartTime.After(now) {
		return OutcomeEventStarted
	}
	idx := event.ParticipantIndex(user.ID)
	if idx < 0 {
		return OutcomeNotEnrolled
	}

	event.Participants = append(event.Participants[:idx], event.Participants[idx+1:]...)
	event.CurrentParticipantsNumber--
	return OutcomeDisenrolled
}

// ensureParticipants covers events built as zero values instead of through entity.NewGymEvent.
func ensureParticipants(event *entity.GymEvent) {
	if event.Participants == nil {
		event.Participants = []entity.User{}
	}
}
