package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	GetProfile(ctx context.Context, id pgtype.UUID) (Profile, error)
	ListCoaches(ctx context.Context) ([]Coach, error)
	ListLogbookEntries(ctx context.Context, userID pgtype.UUID) ([]LogbookEntry, error)
	ListPrograms(ctx context.Context, userID pgtype.UUID) ([]Program, error)
}

var _ Querier = (*Queries)(nil)
