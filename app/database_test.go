package app

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/courtside/config"
)

func TestDatabaseDSN_ParsesWithPoolSettings(t *testing.T) {
	cfg := &config.AppConfig{
		DBHost:     "db.internal",
		DBName:     "courts",
		DBPort:     6543,
		DBMaxConns: 8,
		DBMinConns: 1,
		DBSSLMode:  "disable",
		DBUsername: "courtside",
		DBPassword: "secret",
	}

	parsed, err := pgxpool.ParseConfig(databaseDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", parsed.ConnConfig.Host)
	assert.Equal(t, uint16(6543), parsed.ConnConfig.Port)
	assert.Equal(t, "courts", parsed.ConnConfig.Database)
	assert.Equal(t, "courtside", parsed.ConnConfig.User)
	assert.Equal(t, int32(8), parsed.MaxConns)
	assert.Equal(t, int32(1), parsed.MinConns)
}
