package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/sweater-ventures/courtside/config"
)

const requestIDHeader = "X-Request-ID"

func log(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(config.LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ContextLoggerMiddleware adds a logger carrying the request id to the request
// context. A client supplied X-Request-ID is reused; otherwise a UUIDv7 is
// minted. The id is echoed back so courtctl output can be matched to logs.
func ContextLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				requestID = "unknown"
			} else {
				requestID = id.String()
			}
		}
		w.Header().Set(requestIDHeader, requestID)

		r = r.WithContext(context.WithValue(r.Context(), config.LoggerContextKey, log(r.Context()).With(
			slog.String("request_id", requestID),
		)))

		next.ServeHTTP(w, r)
	})
}
