package testutil

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/courtside/app"
	"github.com/sweater-ventures/courtside/config"
	"github.com/sweater-ventures/courtside/db"
)

// NewUUID returns a pgtype.UUID with a new random UUID.
func NewUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true}
}

// NewTimestamp returns a pgtype.Timestamptz set to now.
func NewTimestamp() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

// ProfileOpt is a functional option for building test Profiles.
type ProfileOpt func(*db.Profile)

// NewProfile creates a db.Profile with sensible defaults. Use options to override.
func NewProfile(opts ...ProfileOpt) db.Profile {
	p := db.Profile{
		ID:          NewUUID(),
		DisplayName: "Jordan Lee",
		SkillLevel:  text("3.5"),
		CreatedAt:   NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ProgramOpt is a functional option for building test Programs.
type ProgramOpt func(*db.Program)

// NewProgram creates a db.Program with one routine holding one exercise.
func NewProgram(opts ...ProgramOpt) db.Program {
	sets := int32(3)
	p := db.Program{
		ID:          NewUUID(),
		UserID:      NewUUID(),
		Name:        "Third shot drops",
		Description: text("Soft game from the baseline"),
		Level:       text("intermediate"),
		CreatedAt:   NewTimestamp(),
		Routines: []db.Routine{{
			ID:       uuid.NewString(),
			Name:     "Warm-up",
			Position: 1,
			Exercises: []db.Exercise{{
				ID:   uuid.NewString(),
				Name: "Drop and approach",
				Sets: &sets,
			}},
		}},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// CoachOpt is a functional option for building test Coaches.
type CoachOpt func(*db.Coach)

// NewCoach creates a db.Coach with sensible defaults.
func NewCoach(opts ...CoachOpt) db.Coach {
	c := db.Coach{
		ID:          NewUUID(),
		FullName:    "Alex Moreno",
		Bio:         text("Former tournament director"),
		Specialties: []string{"serve", "footwork"},
		Rating:      pgtype.Float8{Float64: 4.6, Valid: true},
		ReviewCount: 12,
		HourlyRate:  pgtype.Int4{Int32: 6000, Valid: true},
		Location:    text("Austin, TX"),
		IsVerified:  true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogbookEntryOpt is a functional option for building test LogbookEntries.
type LogbookEntryOpt func(*db.LogbookEntry)

// NewLogbookEntry creates a db.LogbookEntry with sensible defaults.
func NewLogbookEntry(opts ...LogbookEntryOpt) db.LogbookEntry {
	e := db.LogbookEntry{
		ID:              NewUUID(),
		UserID:          NewUUID(),
		SessionDate:     pgtype.Date{Time: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), Valid: true},
		SessionType:     "match",
		DurationMinutes: pgtype.Int4{Int32: 90, Valid: true},
		TrainingFocus:   json.RawMessage(`["serve"]`),
		Difficulty:      json.RawMessage(`"4"`),
		Notes:           text("Won two of three"),
		CreatedAt:       NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// AppOpt is a functional option for building test Applications.
type AppOpt func(*app.Application)

// TestConfig is the configuration NewTestApp starts from.
func TestConfig() config.AppConfig {
	return config.AppConfig{
		Port:         8017,
		FetchTimeout: 2 * time.Second,
		SessionTTL:   time.Hour,
	}
}

// NewTestApp creates an app.Application suitable for testing.
// It uses the provided mock Querier, no preload debounce and dev mode off.
func NewTestApp(mockDB *MockQuerier, opts ...AppOpt) *app.Application {
	a := app.New(TestConfig(), mockDB)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithDevMode turns on dev mode for a test Application.
func WithDevMode() AppOpt {
	return func(a *app.Application) {
		a.Config.DevMode = true
	}
}
