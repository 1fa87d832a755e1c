package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// LoggingMiddleware writes one access log line per request. Server errors log
// at error level and client errors at warn, so failed fetches stand out.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		capturingWriter := ExtendResponseWriter(w)

		next.ServeHTTP(capturingWriter, r)

		status := capturingWriter.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		latency := time.Duration(0)
		if !capturingWriter.WriteBegin.IsZero() {
			latency = capturingWriter.WriteBegin.Sub(start)
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		log(r.Context()).Log(r.Context(), level, fmt.Sprintf("Request %s %s %d %s", r.Method, r.URL.Path, status, http.StatusText(status)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", capturingWriter.Bytes),
			slog.Duration("latency", latency),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
