package middleware

import (
	"net/http"

	"github.com/sweater-ventures/courtside/app"
)

// AllStandardMiddleware wraps next with request logging and session checks.
// The logger runs outermost so rejected requests are logged too.
func AllStandardMiddleware(courtside *app.Application, next http.Handler) http.Handler {
	return ContextLoggerMiddleware(LoggingMiddleware(SessionAuthMiddleware(courtside)(next)))
}
