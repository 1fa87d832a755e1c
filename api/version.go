package api

import (
	"net/http"

	"github.com/sweater-ventures/courtside/app"
	"github.com/sweater-ventures/courtside/config"
)

type VersionResponse struct {
	App     string `json:"app"`
	Version string `json:"version"`
}

func versionApiHandler(app *app.Application, w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, VersionResponse{
		App:     "courtside",
		Version: config.Version,
	})
}
