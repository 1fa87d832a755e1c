package testutil

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
	"github.com/sweater-ventures/courtside/db"
)

// MockQuerier is a testify mock implementation of db.Querier.
type MockQuerier struct {
	mock.Mock
}

var _ db.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) GetProfile(ctx context.Context, id pgtype.UUID) (db.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Profile), args.Error(1)
}

func (m *MockQuerier) ListCoaches(ctx context.Context) ([]db.Coach, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Coach), args.Error(1)
}

func (m *MockQuerier) ListLogbookEntries(ctx context.Context, userID pgtype.UUID) ([]db.LogbookEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]db.LogbookEntry), args.Error(1)
}

func (m *MockQuerier) ListPrograms(ctx context.Context, userID pgtype.UUID) ([]db.Program, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]db.Program), args.Error(1)
}
