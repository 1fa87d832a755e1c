package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sweater-ventures/courtside/app"
	"github.com/sweater-ventures/courtside/middleware"
)

func init() {
	registerRoute(func(app *app.Application, router *http.ServeMux) {
		router.Handle("POST /session", routeHandler(app, signInHandler))
		router.Handle("GET /session", routeHandler(app, getSessionHandler))
		router.Handle("DELETE /session", routeHandler(app, signOutHandler))
	})
}

type SignInRequest struct {
	UserID string `json:"user_id"`
}

type SignInResponse struct {
	Token   string      `json:"token"`
	Session app.Session `json:"session"`
}

func signInHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeJsonError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeJsonError(w, http.StatusBadRequest, "user_id must be a valid UUID")
		return
	}

	token, session, err := courtside.SignIn(r.Context(), userID)
	if errors.Is(err, app.ErrUnknownUser) {
		writeJsonError(w, http.StatusNotFound, "Unknown user")
		return
	}
	if err != nil {
		log(r.Context()).Error("Sign-in failed", "user_id", req.UserID, "error", err)
		writeJsonError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	writeJsonResponse(w, http.StatusCreated, SignInResponse{Token: token, Session: session})
}

// getSessionHandler reports the session the request was authenticated with.
// A session replaced since the token was checked is not reported as the
// caller's own.
func getSessionHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	session := courtside.Sessions.Current()
	if user == nil || session.User == nil || session.User.ID != user.ID {
		writeJsonError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	writeJsonResponse(w, http.StatusOK, session)
}

func signOutHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	courtside.SignOut(r.Context())
	writeJsonResponse(w, http.StatusOK, courtside.Sessions.Current())
}
