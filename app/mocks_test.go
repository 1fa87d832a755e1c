package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
	"github.com/sweater-ventures/courtside/db"
)

type mockQuerier struct {
	mock.Mock
}

var _ db.Querier = (*mockQuerier)(nil)

func (m *mockQuerier) GetProfile(ctx context.Context, id pgtype.UUID) (db.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Profile), args.Error(1)
}

func (m *mockQuerier) ListCoaches(ctx context.Context) ([]db.Coach, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Coach), args.Error(1)
}

func (m *mockQuerier) ListLogbookEntries(ctx context.Context, userID pgtype.UUID) ([]db.LogbookEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]db.LogbookEntry), args.Error(1)
}

func (m *mockQuerier) ListPrograms(ctx context.Context, userID pgtype.UUID) ([]db.Program, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]db.Program), args.Error(1)
}

type mockSource struct {
	mock.Mock
}

var _ DataSource = (*mockSource)(nil)

func (m *mockSource) FetchPrograms(ctx context.Context) ([]db.Program, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Program), args.Error(1)
}

func (m *mockSource) FetchCoaches(ctx context.Context) ([]db.Coach, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Coach), args.Error(1)
}

func (m *mockSource) FetchLogbookEntries(ctx context.Context) ([]db.LogbookEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.LogbookEntry), args.Error(1)
}

func newTestUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true}
}

func newTestProgram(opts ...func(*db.Program)) db.Program {
	desc := "Keep the ball low"
	sets := int32(3)
	p := db.Program{
		ID:          newTestUUID(),
		UserID:      newTestUUID(),
		Name:        "Kitchen fundamentals",
		Description: pgtype.Text{String: "Four weeks at the non-volley zone", Valid: true},
		Level:       pgtype.Text{String: "3.0", Valid: true},
		CreatedAt:   pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
		Routines: []db.Routine{{
			ID:       uuid.NewString(),
			Name:     "Dink ladder",
			Position: 0,
			Exercises: []db.Exercise{{
				ID:          uuid.NewString(),
				Name:        "Cross-court dinks",
				Description: &desc,
				Sets:        &sets,
			}},
		}},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func newTestCoach(opts ...func(*db.Coach)) db.Coach {
	c := db.Coach{
		ID:          newTestUUID(),
		FullName:    "Sam Rivera",
		Bio:         pgtype.Text{String: "Former tennis pro", Valid: true},
		Specialties: []string{"third shot drop", "footwork"},
		Rating:      pgtype.Float8{Float64: 4.8, Valid: true},
		ReviewCount: 42,
		HourlyRate:  pgtype.Int4{Int32: 7500, Valid: true},
		Location:    pgtype.Text{String: "Austin, TX", Valid: true},
		IsVerified:  true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func newTestLogbookEntry(opts ...func(*db.LogbookEntry)) db.LogbookEntry {
	e := db.LogbookEntry{
		ID:              newTestUUID(),
		UserID:          newTestUUID(),
		SessionDate:     pgtype.Date{Time: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Valid: true},
		SessionType:     "drill",
		DurationMinutes: pgtype.Int4{Int32: 60, Valid: true},
		TrainingFocus:   json.RawMessage(`["dinks","resets"]`),
		Difficulty:      json.RawMessage(`3`),
		CreatedAt:       pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
