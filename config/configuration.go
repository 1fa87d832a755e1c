package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	DevMode         bool          `arg:"--dev,env:DEV_MODE" default:"false"`
	Port            int           `arg:"-p,--port,env:LISTEN_PORT" default:"8017"`
	LogLevel        string        `arg:"--log-level,env:LOG_LEVEL" default:"default" help:"Log level to use.  Valid values are: debug, info, and warn/warning.  If default the level will be info or debug in dev mode."`
	DBHost          string        `arg:"--db-host,env:DB_HOST" default:"localhost"`
	DBName          string        `arg:"--db-name,env:DB_NAME" default:"postgres"`
	DBPort          int           `arg:"--db-port,env:DB_PORT" default:"5432"`
	DBMaxConns      int           `arg:"--db-max-conns,env:DB_MAX_CONNS" default:"4"`
	DBMinConns      int           `arg:"--db-min-conns,env:DB_MIN_CONNS" default:"0"`
	DBSSLMode       string        `arg:"--db-ssl-mode,env:DB_SSL_MODE" default:"require"`
	DBUsername      string        `arg:"--db-username,env:DB_USERNAME" default:"postgres"`
	DBPassword      string        `arg:"--db-password,env:DB_PASSWORD" default:""`
	PreloadDebounce time.Duration `arg:"--preload-debounce,env:PRELOAD_DEBOUNCE" default:"500ms" help:"Delay between sign-in and the initial preload, to let the session settle."`
	FetchTimeout    time.Duration `arg:"--fetch-timeout,env:FETCH_TIMEOUT" default:"10s" help:"How long an on-demand read waits for a fetch before answering with a timeout."`
	SessionTTL      time.Duration `arg:"--session-ttl,env:SESSION_TTL" default:"24h" help:"Lifetime of a sign-in token."`
}

func LoadConfig() (*AppConfig, error) {
	var appConfig AppConfig
	arg.MustParse(&appConfig)

	if appConfig.DevMode {
		err := godotenv.Load(".env")
		if err == nil {
			// re-parse to get env vars from .env
			slog.Info("Loaded .env")
			arg.MustParse(&appConfig)
		}
	}

	if err := SetLogLevel(appConfig.LogLevel, appConfig.DevMode); err != nil {
		slog.Error("Unable to configure log level", "level", appConfig.LogLevel)
	}

	if appConfig.PreloadDebounce < 0 {
		return nil, fmt.Errorf("preload debounce must not be negative: %s", appConfig.PreloadDebounce)
	}
	if appConfig.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive: %s", appConfig.FetchTimeout)
	}

	return &appConfig, nil
}

// SetLogLevel resolves a configured level name. "default" means info, or
// debug in dev mode.
func SetLogLevel(level string, devMode bool) error {
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}
	if level == "default" || level == "" {
		if devMode {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelInfo)
		}
		return nil
	}
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}
