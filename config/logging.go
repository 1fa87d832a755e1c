package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sweater-ventures/devslog"
	"golang.org/x/term"
)

type ContextKey string

var LoggerContextKey = ContextKey("logger")

var logLevel *slog.LevelVar

// InitLogging installs the process logger. JSON goes to stdout when
// JSON_LOGGING=true or stdout is not a terminal; interactive runs get devslog.
func InitLogging() {
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}
	logLevel.Set(slog.LevelInfo)

	jsonLogging := strings.ToLower(os.Getenv("JSON_LOGGING")) == "true" || !term.IsTerminal(int(os.Stdout.Fd()))
	slog.SetDefault(newLogger(os.Stdout, jsonLogging, logLevel))
}

func newLogger(w io.Writer, jsonLogging bool, level slog.Leveler) *slog.Logger {
	var logger *slog.Logger
	if jsonLogging {
		logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
	} else {
		logger = slog.New(devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				Level: level,
			},
			TimeFormat:           "[ 03:04:05 PM ]",
			StringIndentation:    true,
			DisableAttributeType: true,
		}))
	}
	return logger.With(slog.String("service", "courtside"))
}
