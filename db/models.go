package db

import (
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
)

type Profile struct {
	ID          pgtype.UUID
	DisplayName string
	SkillLevel  pgtype.Text
	CreatedAt   pgtype.Timestamptz
}

// Program rows carry their routines (and each routine's exercises) as a
// json_agg column, so a single query returns the whole tree.
type Program struct {
	ID          pgtype.UUID
	UserID      pgtype.UUID
	Name        string
	Description pgtype.Text
	Level       pgtype.Text
	CreatedAt   pgtype.Timestamptz
	Routines    []Routine
}

type Routine struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Position    int32      `json:"position"`
	Exercises   []Exercise `json:"exercises"`
}

type Exercise struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Sets            *int32  `json:"sets"`
	Reps            *int32  `json:"reps"`
	DurationSeconds *int32  `json:"duration_seconds"`
	Position        int32   `json:"position"`
}

type Coach struct {
	ID          pgtype.UUID
	FullName    string
	Bio         pgtype.Text
	AvatarUrl   pgtype.Text
	Specialties []string
	Rating      pgtype.Float8
	ReviewCount int32
	HourlyRate  pgtype.Int4
	Location    pgtype.Text
	IsVerified  bool
}

// LogbookEntry keeps training_focus and difficulty as the raw JSONB value.
// Older clients wrote them as JSON-encoded strings, newer ones as arrays.
type LogbookEntry struct {
	ID              pgtype.UUID
	UserID          pgtype.UUID
	SessionDate     pgtype.Date
	SessionType     string
	DurationMinutes pgtype.Int4
	TrainingFocus   json.RawMessage
	Difficulty      json.RawMessage
	Notes           pgtype.Text
	CreatedAt       pgtype.Timestamptz
}
