package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sweater-ventures/courtside/config"
	"github.com/sweater-ventures/courtside/db"
)

const profileCacheTTL = 10 * time.Minute

var ErrUnknownUser = errors.New("unknown user")

type Application struct {
	Config       config.AppConfig
	DB           db.Querier
	StateBus     *Bus[StateChange]
	Sessions     *SessionStore
	ProfileCache *Cache[[16]byte, db.Profile]
	Preloader    *Preloader
	Provider     *PreloadProvider
	Metrics      *Metrics
	Registry     *prometheus.Registry
	dbconn       *pgxpool.Pool
}

func NewApp(config *config.AppConfig) (*Application, error) {
	conn, err := connectToDB(config)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return nil, err
	}

	a := New(*config, db.New(conn))
	a.dbconn = conn
	return a, nil
}

// New wires an Application around an existing querier. The composition root
// owns the single Preloader of the process.
func New(cfg config.AppConfig, querier db.Querier) *Application {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	bus := NewBus[StateChange]()
	sessions := NewSessionStore(cfg.SessionTTL)
	preloader := NewPreloader(NewQuerierSource(querier, sessions), bus, metrics)

	return &Application{
		Config:       cfg,
		DB:           querier,
		StateBus:     bus,
		Sessions:     sessions,
		ProfileCache: NewCache[[16]byte, db.Profile](profileCacheTTL),
		Preloader:    preloader,
		Provider:     NewPreloadProvider(preloader, sessions, cfg.PreloadDebounce),
		Metrics:      metrics,
		Registry:     registry,
	}
}

// SignIn starts a session for an existing profile and returns its token.
func (a *Application) SignIn(ctx context.Context, userID uuid.UUID) (string, Session, error) {
	profile, err := a.lookupProfile(ctx, userID)
	if err != nil {
		return "", Session{}, err
	}
	token, err := a.Sessions.SignIn(User{ID: userID, DisplayName: profile.DisplayName})
	if err != nil {
		return "", Session{}, fmt.Errorf("creating session: %w", err)
	}
	log(ctx).Info("User signed in", "user_id", userID.String())
	return token, a.Sessions.Current(), nil
}

func (a *Application) SignOut(ctx context.Context) {
	a.Sessions.SignOut()
	log(ctx).Info("User signed out")
}

// lookupProfile reads a profile through the app-level cache. Unknown ids are
// cached as misses.
func (a *Application) lookupProfile(ctx context.Context, id uuid.UUID) (db.Profile, error) {
	profile, found, inCache := a.ProfileCache.Get(id)
	if inCache {
		if !found {
			return db.Profile{}, ErrUnknownUser
		}
		return profile, nil
	}
	profile, err := a.DB.GetProfile(ctx, ToPgUUID(id))
	if errors.Is(err, pgx.ErrNoRows) {
		a.ProfileCache.Set(id, db.Profile{}, false)
		return db.Profile{}, ErrUnknownUser
	}
	if err != nil {
		return db.Profile{}, fmt.Errorf("loading profile: %w", err)
	}
	a.ProfileCache.Set(id, profile, true)
	return profile, nil
}
