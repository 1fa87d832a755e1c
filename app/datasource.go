package app

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/courtside/db"
)

var ErrNotAuthenticated = errors.New("not signed in")

// DataSource is the backend read surface the Preloader drives. Each call
// returns either rows (possibly nil, meaning none) or an error.
type DataSource interface {
	FetchPrograms(ctx context.Context) ([]db.Program, error)
	FetchCoaches(ctx context.Context) ([]db.Coach, error)
	FetchLogbookEntries(ctx context.Context) ([]db.LogbookEntry, error)
}

// querierSource reads through db.Querier on behalf of the signed-in user.
// Errors are returned unwrapped so their message reaches the UI as-is.
type querierSource struct {
	db       db.Querier
	sessions *SessionStore
}

func NewQuerierSource(querier db.Querier, sessions *SessionStore) DataSource {
	return &querierSource{db: querier, sessions: sessions}
}

func (s *querierSource) FetchPrograms(ctx context.Context) ([]db.Program, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.db.ListPrograms(ctx, userID)
}

func (s *querierSource) FetchCoaches(ctx context.Context) ([]db.Coach, error) {
	return s.db.ListCoaches(ctx)
}

func (s *querierSource) FetchLogbookEntries(ctx context.Context) ([]db.LogbookEntry, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.db.ListLogbookEntries(ctx, userID)
}

func (s *querierSource) userID() (pgtype.UUID, error) {
	session := s.sessions.Current()
	if !session.IsAuthenticated || session.User == nil {
		return pgtype.UUID{}, ErrNotAuthenticated
	}
	return ToPgUUID(session.User.ID), nil
}
