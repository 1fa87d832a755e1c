package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sweater-ventures/courtside/config"
)

const connectTimeout = 10 * time.Second

// databaseDSN renders the pgx key/value connection string, pool sizing included.
func databaseDSN(cfg *config.AppConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s port=%d sslmode=%s dbname=%s pool_max_conns=%d pool_min_conns=%d",
		cfg.DBHost,
		cfg.DBUsername,
		cfg.DBPassword,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.DBName,
		cfg.DBMaxConns,
		cfg.DBMinConns,
	)
}

// connectToDB opens the pool and pings it, so a bad host or password fails
// at startup instead of on the first preload.
func connectToDB(cfg *config.AppConfig) (*pgxpool.Pool, error) {
	dbconfig, err := pgxpool.ParseConfig(databaseDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parsing database configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, dbconfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	slog.Info("Database connection pool established",
		slog.String("host", cfg.DBHost),
		slog.Int("port", cfg.DBPort),
		slog.String("dbname", cfg.DBName),
		slog.Int("max_conns", cfg.DBMaxConns),
	)
	return pool, nil
}

func (a *Application) Close() {
	if a.dbconn != nil {
		a.dbconn.Close()
	}
}
