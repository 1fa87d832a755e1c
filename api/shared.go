package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sweater-ventures/courtside/app"
	"github.com/sweater-ventures/courtside/config"
)

type routeRegistrationFunc func(courtside *app.Application, router *http.ServeMux)

var routes []routeRegistrationFunc

func registerRoute(r routeRegistrationFunc) {
	routes = append(routes, r)
}

// AddApis mounts the JSON API under /api/ plus the unauthenticated /version
// and /metrics endpoints on the root router.
func AddApis(courtside *app.Application, router *http.ServeMux) {
	slog.Debug("Registering all API Endpoints", "count", len(routes))
	apiRouter := http.NewServeMux()
	for _, r := range routes {
		r(courtside, apiRouter)
	}
	router.Handle("/api/", http.StripPrefix("/api", apiRouter))
	router.Handle("GET /version", routeHandler(courtside, versionApiHandler))
	router.Handle("GET /metrics", promhttp.HandlerFor(courtside.Registry, promhttp.HandlerOpts{}))
}

func log(ctx context.Context) *slog.Logger {
	log := ctx.Value(config.LoggerContextKey)
	if log == nil {
		return slog.Default()
	} else {
		return log.(*slog.Logger)
	}
}

type appHandler func(courtside *app.Application, w http.ResponseWriter, r *http.Request)

func routeHandler(courtside *app.Application, handler appHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(courtside, w, r)
	})
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeJsonError(w http.ResponseWriter, statusCode int, msg string) {
	writeJsonResponse(w, statusCode, map[string]string{"error": msg})
}
