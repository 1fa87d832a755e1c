package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	out := &bytes.Buffer{}
	return &client{
		baseURL:   srv.URL,
		tokenFile: filepath.Join(t.TempDir(), "courtside", "session"),
		http:      srv.Client(),
		out:       out,
	}, out
}

func TestLoginStoresTokenAndSendsIt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/session", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0190d6a1-0000-7000-8000-000000000001", body["user_id"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"tok123","session":{"isAuthenticated":true,"user":{"displayName":"Jordan"}}}`))
	})
	mux.HandleFunc("GET /api/coaches", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok123", r.Header.Get("X-Courtside-Session"))
		w.Write([]byte(`{"resource":"coaches","data":[],"loading":false,"error":null}`))
	})
	c, out := newTestClient(t, mux)

	require.NoError(t, c.login("0190d6a1-0000-7000-8000-000000000001"))
	assert.Contains(t, out.String(), "Signed in as Jordan")

	token, err := os.ReadFile(c.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok123", string(token))

	out.Reset()
	require.NoError(t, c.get("coaches"))
	assert.Contains(t, out.String(), `"resource": "coaches"`)
}

func TestRefreshFailureReportsServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/coaches/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"network down"}`))
	})
	c, _ := newTestClient(t, mux)

	err := c.refresh("coaches")
	require.Error(t, err)
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "network down (status 502)", err.Error())
}

func TestStatusWithoutDebugEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/session", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"isAuthenticated":true,"user":{"displayName":"Jordan"}}`))
	})
	c, out := newTestClient(t, mux)

	require.NoError(t, c.status())
	assert.Contains(t, out.String(), `"session"`)
	assert.NotContains(t, out.String(), `"cache"`)
}

func TestLogoutRemovesToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Not signed in"}`))
	})
	c, out := newTestClient(t, mux)
	require.NoError(t, os.MkdirAll(filepath.Dir(c.tokenFile), 0o700))
	require.NoError(t, os.WriteFile(c.tokenFile, []byte("stale"), 0o600))

	require.NoError(t, c.logout())
	assert.NoFileExists(t, c.tokenFile)
	assert.Contains(t, out.String(), "Signed out")
}

func TestStatusSignedOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Not signed in"}`))
	})
	c, out := newTestClient(t, mux)

	require.NoError(t, c.status())
	assert.Contains(t, out.String(), `"isAuthenticated": false`)
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "courtctl: command line client for the Courtside data service", args{}.Description())
}
