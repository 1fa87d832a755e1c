package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getProfile = `-- name: GetProfile :one
SELECT id, display_name, skill_level, created_at FROM profiles
WHERE id = $1
`

func (q *Queries) GetProfile(ctx context.Context, id pgtype.UUID) (Profile, error) {
	row := q.db.QueryRow(ctx, getProfile, id)
	var i Profile
	err := row.Scan(
		&i.ID,
		&i.DisplayName,
		&i.SkillLevel,
		&i.CreatedAt,
	)
	return i, err
}

const listCoaches = `-- name: ListCoaches :many
SELECT id, full_name, bio, avatar_url, specialties, rating, review_count, hourly_rate, location, is_verified
FROM coaches
WHERE is_active
ORDER BY rating DESC NULLS LAST, full_name
`

func (q *Queries) ListCoaches(ctx context.Context) ([]Coach, error) {
	rows, err := q.db.Query(ctx, listCoaches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Coach
	for rows.Next() {
		var i Coach
		if err := rows.Scan(
			&i.ID,
			&i.FullName,
			&i.Bio,
			&i.AvatarUrl,
			&i.Specialties,
			&i.Rating,
			&i.ReviewCount,
			&i.HourlyRate,
			&i.Location,
			&i.IsVerified,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listLogbookEntries = `-- name: ListLogbookEntries :many
SELECT id, user_id, session_date, session_type, duration_minutes, training_focus, difficulty, notes, created_at
FROM logbook_entries
WHERE user_id = $1
ORDER BY session_date DESC, created_at DESC
`

func (q *Queries) ListLogbookEntries(ctx context.Context, userID pgtype.UUID) ([]LogbookEntry, error) {
	rows, err := q.db.Query(ctx, listLogbookEntries, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LogbookEntry
	for rows.Next() {
		var i LogbookEntry
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.SessionDate,
			&i.SessionType,
			&i.DurationMinutes,
			&i.TrainingFocus,
			&i.Difficulty,
			&i.Notes,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPrograms = `-- name: ListPrograms :many
SELECT p.id, p.user_id, p.name, p.description, p.level, p.created_at,
	COALESCE((
		SELECT json_agg(json_build_object(
			'id', r.id,
			'name', r.name,
			'description', r.description,
			'position', r.position,
			'exercises', COALESCE((
				SELECT json_agg(json_build_object(
					'id', e.id,
					'name', e.name,
					'description', e.description,
					'sets', e.sets,
					'reps', e.reps,
					'duration_seconds', e.duration_seconds,
					'position', e.position
				) ORDER BY e.position)
				FROM exercises e WHERE e.routine_id = r.id
			), '[]'::json)
		) ORDER BY r.position)
		FROM routines r WHERE r.program_id = p.id
	), '[]'::json) AS routines
FROM programs p
WHERE p.user_id = $1
ORDER BY p.created_at DESC
`

func (q *Queries) ListPrograms(ctx context.Context, userID pgtype.UUID) ([]Program, error) {
	rows, err := q.db.Query(ctx, listPrograms, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Program
	for rows.Next() {
		var i Program
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Name,
			&i.Description,
			&i.Level,
			&i.CreatedAt,
			&i.Routines,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
