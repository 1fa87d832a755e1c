package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sweater-ventures/courtside/app"
	"github.com/sweater-ventures/courtside/config"
)

// SessionHeader carries the token handed out by POST /api/session.
const SessionHeader = "X-Courtside-Session"

type userContextKey struct{}

// SessionAuthMiddleware returns a middleware that checks the X-Courtside-Session
// header against the SessionStore. Exempt routes: POST /api/session, GET /version
// and GET /metrics. On a valid session the User is injected into the request
// context and the request logger gains a user_id attribute.
func SessionAuthMiddleware(courtside *app.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/version" || path == "/metrics" || (path == "/api/session" && r.Method == http.MethodPost) {
				next.ServeHTTP(w, r)
				return
			}

			user := courtside.Sessions.Validate(r.Header.Get(SessionHeader))
			if user == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Not signed in"})
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			ctx = context.WithValue(ctx, config.LoggerContextKey, log(ctx).With("user_id", user.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the signed-in User from the request context, or nil if not present.
func GetUserFromContext(ctx context.Context) *app.User {
	user, ok := ctx.Value(userContextKey{}).(*app.User)
	if !ok {
		return nil
	}
	return user
}
