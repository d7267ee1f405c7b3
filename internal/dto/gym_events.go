package dto

import (
	"time"

	"github.com/octobees/fitness-studio/api/internal/entity"
)

// DateTimeLayout is the wire format of event start and end times.
const DateTimeLayout = "2006-01-02 15:04"

// GymEventRequest schedules a new event. Times are read in the studio timezone.
type GymEventRequest struct {
	StartTime         string `json:"start_time" validate:"required,datetime=2006-01-02 15:04"`
	EndTime           string `json:"end_time" validate:"required,datetime=2006-01-02 15:04"`
	ParticipantsLimit int    `json:"participants_limit" validate:"gte=1"`
	FitnessClassID    string `json:"fitness_class_id" validate:"required,uuid"`
}

// ParseTimes resolves both times in loc.
func (r GymEventRequest) ParseTimes(loc *time.Location) (start, end time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err = time.ParseInLocation(DateTimeLayout, r.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.ParseInLocation(DateTimeLayout, r.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// GymEventResponse is the public view of an event. Participants are only
// filled for the management view.
type GymEventResponse struct {
	ID                        string                `json:"id"`
	StartTime                 string                `json:"start_time"`
	EndTime                   string                `json:"end_time"`
	Duration                  string                `json:"duration"`
	ParticipantsLimit         int                   `json:"participants_limit"`
	CurrentParticipantsNumber int                   `json:"current_participants_number"`
	FitnessClass              *FitnessClassResponse `json:"fitness_class,omitempty"`
	Participants              []UserResponse        `json:"enrolled_participants,omitempty"`
}

// NewGymEventResponse formats e with times expressed in loc.
func NewGymEventResponse(e entity.GymEvent, loc *time.Location, withParticipants bool) GymEventResponse {
	if loc == nil {
		loc = time.UTC
	}
	resp := GymEventResponse{
		ID:                        e.ID.String(),
		StartTime:                 e.StartTime.In(loc).Format(DateTimeLayout),
		EndTime:                   e.EndTime.In(loc).Format(DateTimeLayout),
		Duration:                  e.Duration,
		ParticipantsLimit:         e.ParticipantsLimit,
		CurrentParticipantsNumber: e.CurrentParticipantsNumber,
	}
	if e.FitnessClass != nil {
		class := NewFitnessClassResponse(*e.FitnessClass)
		resp.FitnessClass = &class
	}
	if withParticipants {
		resp.Participants = make([]UserResponse, 0, len(e.Participants))
		for _, p := range e.Participants {
			resp.Participants = append(resp.Participants, NewUserResponse(p))
		}
	}
	return resp
}

func NewGymEventResponses(events []entity.GymEvent, loc *time.Location) []GymEventResponse {
	out := make([]GymEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewGymEventResponse(e, loc, false))
	}
	return out
}
