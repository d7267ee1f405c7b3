package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/service/schedule"
)

const samplePassword = "password"

// SampleUser is a seeded account.
type SampleUser struct {
	Username string
	Email    string
	Role     string
}

// SampleTrainer is a seeded trainer.
type SampleTrainer struct {
	FirstName   string
	LastName    string
	Email       string
	Description string
}

// SampleClass is a seeded fitness class and the indexes of its trainers.
type SampleClass struct {
	Name        string
	Difficulty  entity.DifficultyLevel
	Description string
	Trainers    []int
}

// SampleEvent is a seeded gym event with indexes into the class and user lists.
type SampleEvent struct {
	Start        time.Time
	End          time.Time
	Duration     string
	Limit        int
	Class        int
	Participants []int
}

// SampleSet is the demo data written by Seed.
type SampleSet struct {
	Users    []SampleUser
	Trainers []SampleTrainer
	Classes  []SampleClass
	Events   []SampleEvent
}

// SampleData builds the demo data set. Events are scheduled on the day after now
// in loc so they stay open for enrollment.
func SampleData(now time.Time, loc *time.Location) SampleSet {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	at := func(hour, minute int) time.Time {
		return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	event := func(start, end time.Time, limit, class int, participants ...int) SampleEvent {
		return SampleEvent{
			Start:        start,
			End:          end,
			Duration:     schedule.ComputeDuration(start, end),
			Limit:        limit,
			Class:        class,
			Participants: participants,
		}
	}

	user := func(name, role string) SampleUser {
		return SampleUser{Username: name, Email: name + "@email.com", Role: role}
	}

	return SampleSet{
		Users: []SampleUser{
			user("admin", entity.RoleAdmin),
			user("user", entity.RoleUser),
			user("mia", entity.RoleUser),
			user("amelia", entity.RoleUser),
			user("tom", entity.RoleUser),
			user("aron", entity.RoleUser),
		},
		Trainers: []SampleTrainer{
			{FirstName: "Tim", LastName: "Smith", Email: "tim@email.com", Description: "Yoga instructor"},
			{FirstName: "Sam", LastName: "Johnson", Email: "sam@email.com", Description: "Boxing coach"},
			{FirstName: "Olivia", LastName: "Miller", Email: "olivia@email.com", Description: "Cycling instructor"},
			{FirstName: "Emma", LastName: "Brown", Email: "emma@email.com", Description: "Mobility coach"},
			{FirstName: "Isabella", LastName: "Williams", Email: "isabella@email.com", Description: "Personal trainer"},
		},
		Classes: []SampleClass{
			{Name: "Yoga", Difficulty: entity.DifficultyBeginner, Description: "Yoga for everyone", Trainers: []int{0}},
			{Name: "Boxing", Difficulty: entity.DifficultyIntermediate, Description: "Boxing basics and sparring", Trainers: []int{1}},
			{Name: "Cycling", Difficulty: entity.DifficultyAdvanced, Description: "Indoor cycling intervals", Trainers: []int{2}},
			{Name: "Stretching", Difficulty: entity.DifficultyIntermediate, Description: "Full body stretching"},
		},
		Events: []SampleEvent{
			event(at(12, 0), at(13, 0), 5, 0, 2, 3),
			event(at(16, 0), at(18, 30), 10, 1, 2, 3, 4),
			event(at(19, 0), at(21, 0), 5, 2, 2, 3, 4, 5, 1),
			event(at(17, 0), at(18, 0), 8, 3, 2, 3, 4, 5),
		},
	}
}

// Seed writes SampleData when the users table is empty. It returns false when
// data already existed.
func Seed(ctx context.Context, db Execer, now time.Time, loc *time.Location) (bool, error) {
	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing users: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(samplePassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash sample password: %w", err)
	}

	set := SampleData(now, loc)

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("start seed tx: %w", err)
	}
	defer tx.Rollback(ctx)

	dob := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	userIDs := make([]uuid.UUID, len(set.Users))
	for i, u := range set.Users {
		if err := tx.QueryRow(ctx, `
            INSERT INTO users (username, email, password_hash, first_name, last_name, date_of_birth, enabled)
            VALUES ($1, $2, $3, $1, $1, $4, TRUE)
            RETURNING id
        `, u.Username, u.Email, string(hash), dob).Scan(&userIDs[i]); err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, userIDs[i], u.Role); err != nil {
			return false, fmt.Errorf("seed role for %s: %w", u.Username, err)
		}
	}

	trainerIDs := make([]uuid.UUID, len(set.Trainers))
	for i, tr := range set.Trainers {
		if err := tx.QueryRow(ctx, `
            INSERT INTO trainers (first_name, last_name, email, description)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `, tr.FirstName, tr.LastName, tr.Email, tr.Description).Scan(&trainerIDs[i]); err != nil {
			return false, fmt.Errorf("seed trainer %s: %w", tr.Email, err)
		}
	}

	classIDs := make([]uuid.UUID, len(set.Classes))
	for i, fc := range set.Classes {
		if err := tx.QueryRow(ctx, `
            INSERT INTO fitness_classes (name, difficulty_level, description)
            VALUES ($1, $2, $3)
            RETURNING id
        `, fc.Name, string(fc.Difficulty), fc.Description).Scan(&classIDs[i]); err != nil {
			return false, fmt.Errorf("seed fitness class %s: %w", fc.Name, err)
		}
		for _, t := range fc.Trainers {
			if _, err := tx.Exec(ctx, `INSERT INTO fitness_class_trainers (fitness_class_id, trainer_id) VALUES ($1, $2)`, classIDs[i], trainerIDs[t]); err != nil {
				return false, fmt.Errorf("seed trainer assignment for %s: %w", fc.Name, err)
			}
		}
	}

	for _, ev := range set.Events {
		var eventID uuid.UUID
		if err := tx.QueryRow(ctx, `
            INSERT INTO gym_events (start_time, end_time, duration, participants_limit, current_participants_number, fitness_class_id)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id
        `, ev.Start, ev.End, ev.Duration, ev.Limit, len(ev.Participants), classIDs[ev.Class]).Scan(&eventID); err != nil {
			return false, fmt.Errorf("seed gym event: %w", err)
		}
		for _, p := range ev.Participants {
			if _, err := tx.Exec(ctx, `INSERT INTO gym_event_participants (gym_event_id, user_id) VALUES ($1, $2)`, eventID, userIDs[p]); err != nil {
				return false, fmt.Errorf("seed participant: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit seed tx: %w", err)
	}
	return true, nil
}
