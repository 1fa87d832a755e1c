package api

import (
	"net/http"

	"github.com/sweater-ventures/courtside/app"
)

func init() {
	registerRoute(func(app *app.Application, router *http.ServeMux) {
		router.Handle("POST /preload", routeHandler(app, preloadHandler))
		router.Handle("DELETE /cache", routeHandler(app, clearCacheHandler))
		// The cache inspector is a development aid only.
		if app.Config.DevMode {
			router.Handle("GET /debug/cache", routeHandler(app, debugCacheHandler))
		}
	})
}

func preloadHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	courtside.Provider.PreloadAllData(r.Context())
	writeJsonResponse(w, http.StatusOK, courtside.Provider.CacheStatus())
}

func clearCacheHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	courtside.Provider.ClearAllData()
	log(r.Context()).Info("Cache cleared")
	writeJsonResponse(w, http.StatusOK, courtside.Provider.CacheStatus())
}

func debugCacheHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, courtside.Preloader.CacheStatus())
}
