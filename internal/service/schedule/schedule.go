// Package schedule validates gym event time windows and formats their duration.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSchedule is matched by every InvalidScheduleError.
var ErrInvalidSchedule = errors.New("entered dates are not valid")

// InvalidScheduleError describes why a proposed window was rejected.
type InvalidScheduleError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidSchedule.Error(), e.Reason)
}

// Is lets errors.Is match ErrInvalidSchedule.
func (e *InvalidScheduleError) Is(target error) bool {
	return target == ErrInvalidSchedule
}

// ValidateWindow accepts a window that starts no earlier than now and ends strictly after it starts.
func ValidateWindow(start, end, now time.Time) error {
	switch {
	case start.Before(now):
		return &InvalidScheduleError{Reason: "start time is in the past"}
	case start.After(end):
		return &InvalidScheduleError{Reason: "start time is after end time"}
	case start.Equal(end):
		return &InvalidScheduleError{Reason: "start time equals end time"}
	}
	return nil
}

// ComputeDuration formats end-start as HH:mm. Hours are not wrapped at 24 and
// anything below a minute is dropped.
func ComputeDuration(start, end time.Time) string {
	elapsed := end.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	total := int64(elapsed / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
