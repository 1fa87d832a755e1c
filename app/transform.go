package app

import (
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/courtside/db"
)

// transformPrograms never returns nil: a nil payload from the data layer is a
// valid empty result.
func transformPrograms(rows []db.Program) []Program {
	out := make([]Program, 0, len(rows))
	for _, row := range rows {
		p := Program{
			ID:          UuidToString(row.ID),
			Name:        row.Name,
			Description: textValue(row.Description),
			Level:       textValue(row.Level),
			CreatedAt:   row.CreatedAt.Time,
			Routines:    make([]Routine, 0, len(row.Routines)),
		}
		for _, r := range row.Routines {
			routine := Routine{
				ID:          r.ID,
				Name:        r.Name,
				Description: derefString(r.Description),
				Position:    int(r.Position),
				Exercises:   make([]Exercise, 0, len(r.Exercises)),
			}
			for _, e := range r.Exercises {
				routine.Exercises = append(routine.Exercises, Exercise{
					ID:              e.ID,
					Name:            e.Name,
					Description:     derefString(e.Description),
					Sets:            intPtr(e.Sets),
					Reps:            intPtr(e.Reps),
					DurationSeconds: intPtr(e.DurationSeconds),
					Position:        int(e.Position),
				})
			}
			p.Routines = append(p.Routines, routine)
		}
		out = append(out, p)
	}
	return out
}

func transformCoaches(rows []db.Coach) []Coach {
	out := make([]Coach, 0, len(rows))
	for _, row := range rows {
		c := Coach{
			ID:          UuidToString(row.ID),
			Name:        row.FullName,
			Bio:         textValue(row.Bio),
			AvatarURL:   textValue(row.AvatarUrl),
			Specialties: row.Specialties,
			ReviewCount: int(row.ReviewCount),
			Location:    textValue(row.Location),
			Verified:    row.IsVerified,
		}
		if c.Specialties == nil {
			c.Specialties = []string{}
		}
		if row.Rating.Valid {
			c.Rating = row.Rating.Float64
		}
		if row.HourlyRate.Valid {
			// stored in cents
			price := float64(row.HourlyRate.Int32) / 100
			c.PricePerHour = &price
		}
		out = append(out, c)
	}
	return out
}

func transformLogbook(rows []db.LogbookEntry) []LogbookEntry {
	out := make([]LogbookEntry, 0, len(rows))
	for _, row := range rows {
		e := LogbookEntry{
			ID:            UuidToString(row.ID),
			SessionType:   row.SessionType,
			TrainingFocus: normalizeList(row.TrainingFocus),
			Difficulty:    normalizeList(row.Difficulty),
			Notes:         textValue(row.Notes),
			CreatedAt:     row.CreatedAt.Time,
		}
		if row.SessionDate.Valid {
			e.Date = row.SessionDate.Time.Format("2006-01-02")
		}
		if row.DurationMinutes.Valid {
			e.DurationMinutes = int(row.DurationMinutes.Int32)
		}
		out = append(out, e)
	}
	return out
}

// normalizeList turns a logbook list column into a []string. The column may
// hold a native array, a scalar, or a string that itself contains JSON. A
// string that does not parse becomes a single-item list; a bad record never
// fails the batch.
func normalizeList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return []string{string(raw)}
	}
	if s, ok := decoded.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return []string{s}
		}
		return listValues(inner)
	}
	return listValues(decoded)
}

func listValues(v any) []string {
	switch items := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item == nil {
				continue
			}
			out = append(out, formatValue(item))
		}
		return out
	default:
		return []string{formatValue(items)}
	}
}

// formatValue converts an arbitrary JSON value to a display string.
func formatValue(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
