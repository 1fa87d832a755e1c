package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/courtside/db"
)

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"missing", "", []string{}},
		{"json null", "null", []string{}},
		{"native array", `["dinks","drops"]`, []string{"dinks", "drops"}},
		{"native scalar number", `3`, []string{"3"}},
		{"native scalar string", `"footwork"`, []string{"footwork"}},
		{"encoded array", `"[\"serves\",\"returns\"]"`, []string{"serves", "returns"}},
		{"encoded number", `"4"`, []string{"4"}},
		{"encoded string", `"\"volleys\""`, []string{"volleys"}},
		{"malformed encoded value", `"not valid json"`, []string{"not valid json"}},
		{"half an array", `"[\"dinks\""`, []string{`["dinks"`}},
		{"array with nulls and numbers", `["lobs",null,2.5,true]`, []string{"lobs", "2.5", "true"}},
		{"empty array", `[]`, []string{}},
		{"object", `{"focus":"dinks"}`, []string{`{"focus":"dinks"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeList(json.RawMessage(tt.raw)))
		})
	}
}

func TestTransformLogbook_MalformedFocusDoesNotFailFetch(t *testing.T) {
	source := new(mockSource)
	source.On("FetchLogbookEntries", mock.Anything).Return([]db.LogbookEntry{
		newTestLogbookEntry(func(e *db.LogbookEntry) {
			e.TrainingFocus = json.RawMessage(`"not valid json"`)
			e.Difficulty = json.RawMessage(`"[\"hard\"]"`)
		}),
		newTestLogbookEntry(),
	}, nil)
	p := newTestPreloader(source)

	entries := p.PreloadLogbook(context.Background())

	require.Len(t, entries, 2)
	assert.Equal(t, []string{"not valid json"}, entries[0].TrainingFocus)
	assert.Equal(t, []string{"hard"}, entries[0].Difficulty)
	assert.Equal(t, []string{"dinks", "resets"}, entries[1].TrainingFocus)
	assert.Equal(t, []string{"3"}, entries[1].Difficulty)
	assert.Equal(t, "", p.GetError(ResourceLogbook))
}

func TestTransformLogbook_Fields(t *testing.T) {
	row := newTestLogbookEntry(func(e *db.LogbookEntry) {
		e.Notes = pgtype.Text{String: "Worked on resets", Valid: true}
		e.DurationMinutes = pgtype.Int4{}
	})

	entries := transformLogbook([]db.LogbookEntry{row})

	require.Len(t, entries, 1)
	assert.Equal(t, UuidToString(row.ID), entries[0].ID)
	assert.Equal(t, "2026-03-14", entries[0].Date)
	assert.Equal(t, "drill", entries[0].SessionType)
	assert.Equal(t, 0, entries[0].DurationMinutes)
	assert.Equal(t, "Worked on resets", entries[0].Notes)
}

func TestTransformPrograms_KeepsNesting(t *testing.T) {
	row := newTestProgram()

	programs := transformPrograms([]db.Program{row})

	require.Len(t, programs, 1)
	p := programs[0]
	assert.Equal(t, "Kitchen fundamentals", p.Name)
	assert.Equal(t, "Four weeks at the non-volley zone", p.Description)
	require.Len(t, p.Routines, 1)
	require.Len(t, p.Routines[0].Exercises, 1)
	ex := p.Routines[0].Exercises[0]
	assert.Equal(t, "Cross-court dinks", ex.Name)
	assert.Equal(t, "Keep the ball low", ex.Description)
	require.NotNil(t, ex.Sets)
	assert.Equal(t, 3, *ex.Sets)
	assert.Nil(t, ex.Reps)
}

func TestTransformPrograms_NilIsEmpty(t *testing.T) {
	programs := transformPrograms(nil)
	assert.NotNil(t, programs)
	assert.Empty(t, programs)
}

func TestTransformCoaches_MapsFields(t *testing.T) {
	row := newTestCoach(func(c *db.Coach) {
		c.Specialties = nil
	})
	unrated := newTestCoach(func(c *db.Coach) {
		c.Rating = pgtype.Float8{}
		c.HourlyRate = pgtype.Int4{}
	})

	coaches := transformCoaches([]db.Coach{row, unrated})

	require.Len(t, coaches, 2)
	assert.Equal(t, "Sam Rivera", coaches[0].Name)
	assert.Equal(t, []string{}, coaches[0].Specialties)
	assert.Equal(t, 4.8, coaches[0].Rating)
	require.NotNil(t, coaches[0].PricePerHour)
	assert.Equal(t, 75.0, *coaches[0].PricePerHour)
	assert.True(t, coaches[0].Verified)

	assert.Equal(t, 0.0, coaches[1].Rating)
	assert.Nil(t, coaches[1].PricePerHour)
}

func TestParseResource(t *testing.T) {
	r, err := ParseResource(" Coaches ")
	assert.NoError(t, err)
	assert.Equal(t, ResourceCoaches, r)

	_, err = ParseResource("drills")
	assert.Error(t, err)
}
