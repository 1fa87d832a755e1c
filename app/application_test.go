package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/courtside/config"
	"github.com/sweater-ventures/courtside/db"
)

func TestApplication_SignInKnownProfile(t *testing.T) {
	querier := new(mockQuerier)
	a := New(config.AppConfig{}, querier)
	userID := uuid.Must(uuid.NewV7())

	querier.On("GetProfile", mock.Anything, ToPgUUID(userID)).
		Return(db.Profile{ID: ToPgUUID(userID), DisplayName: "Jordan", SkillLevel: pgtype.Text{String: "3.5", Valid: true}}, nil).Once()

	token, session, err := a.SignIn(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, session.IsAuthenticated)
	assert.Equal(t, "Jordan", session.User.DisplayName)

	// Second sign-in is served from the profile cache.
	_, _, err = a.SignIn(context.Background(), userID)
	require.NoError(t, err)
	querier.AssertExpectations(t)
}

func TestApplication_SignInUnknownProfileIsCachedAsMiss(t *testing.T) {
	querier := new(mockQuerier)
	a := New(config.AppConfig{}, querier)
	userID := uuid.Must(uuid.NewV7())

	querier.On("GetProfile", mock.Anything, ToPgUUID(userID)).
		Return(db.Profile{}, pgx.ErrNoRows).Once()

	_, _, err := a.SignIn(context.Background(), userID)
	assert.ErrorIs(t, err, ErrUnknownUser)
	_, _, err = a.SignIn(context.Background(), userID)
	assert.ErrorIs(t, err, ErrUnknownUser)

	assert.False(t, a.Sessions.Current().IsAuthenticated)
	querier.AssertExpectations(t)
}

func TestApplication_SignInDatabaseError(t *testing.T) {
	querier := new(mockQuerier)
	a := New(config.AppConfig{}, querier)
	userID := uuid.Must(uuid.NewV7())

	querier.On("GetProfile", mock.Anything, ToPgUUID(userID)).
		Return(db.Profile{}, errors.New("connection refused"))

	_, _, err := a.SignIn(context.Background(), userID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownUser)
	assert.Contains(t, err.Error(), "connection refused")
}
