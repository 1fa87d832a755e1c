package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
)

type LoginCmd struct {
	UserID string `arg:"positional,required" help:"Profile UUID to sign in as"`
}

type LogoutCmd struct{}

type StatusCmd struct{}

type RefreshCmd struct {
	Resource string `arg:"positional,required" help:"programs, coaches or logbook"`
}

type GetCmd struct {
	Resource string `arg:"positional,required" help:"programs, coaches or logbook"`
}

type args struct {
	URL       string `arg:"--url,env:COURTSIDE_URL" default:"http://localhost:8017" help:"Courtside base URL"`
	TokenFile string `arg:"--token-file,env:COURTSIDE_TOKEN_FILE" help:"Where the session token is kept (default ~/.courtside/session)"`

	Login   *LoginCmd   `arg:"subcommand:login" help:"Sign in and start preloading"`
	Logout  *LogoutCmd  `arg:"subcommand:logout" help:"Sign out and clear cached data"`
	Status  *StatusCmd  `arg:"subcommand:status" help:"Show the session and cache state"`
	Refresh *RefreshCmd `arg:"subcommand:refresh" help:"Re-fetch one resource"`
	Get     *GetCmd     `arg:"subcommand:get" help:"Print one resource as JSON"`
}

func (args) Description() string {
	return "courtctl: command line client for the Courtside data service"
}

func main() {
	var a args
	p := arg.MustParse(&a)

	c := &client{
		baseURL:   strings.TrimRight(a.URL, "/"),
		tokenFile: a.TokenFile,
		http:      &http.Client{Timeout: 30 * time.Second},
		out:       os.Stdout,
	}
	if c.tokenFile == "" {
		c.tokenFile = defaultTokenFile()
	}

	var err error
	switch {
	case a.Login != nil:
		err = c.login(a.Login.UserID)
	case a.Logout != nil:
		err = c.logout()
	case a.Status != nil:
		err = c.status()
	case a.Refresh != nil:
		err = c.refresh(a.Refresh.Resource)
	case a.Get != nil:
		err = c.get(a.Get.Resource)
	default:
		p.WriteUsage(os.Stdout)
		fmt.Println()
		p.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".courtside-session"
	}
	return filepath.Join(home, ".courtside", "session")
}

type client struct {
	baseURL   string
	tokenFile string
	http      *http.Client
	out       io.Writer
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (c *client) login(userID string) error {
	var resp struct {
		Token   string `json:"token"`
		Session struct {
			User struct {
				DisplayName string `json:"displayName"`
			} `json:"user"`
		} `json:"session"`
	}
	if err := c.do(http.MethodPost, "/api/session", map[string]string{"user_id": userID}, &resp); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.tokenFile), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(c.tokenFile, []byte(resp.Token), 0o600); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Fprintf(c.out, "Signed in as %s\n", resp.Session.User.DisplayName)
	return nil
}

func (c *client) logout() error {
	err := c.do(http.MethodDelete, "/api/session", nil, nil)
	var apiErr *apiError
	if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized) {
		return err
	}
	if err := os.Remove(c.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token: %w", err)
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func (c *client) status() error {
	var session json.RawMessage
	err := c.do(http.MethodGet, "/api/session", nil, &session)
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		// No valid token: report signed out and skip the signed-in views.
		return c.print(map[string]any{"session": map[string]any{"isAuthenticated": false, "user": nil}})
	}
	if err != nil {
		return err
	}
	report := map[string]json.RawMessage{"session": session}

	// The cache inspector only exists when the server runs in dev mode.
	var cache json.RawMessage
	err = c.do(http.MethodGet, "/api/debug/cache", nil, &cache)
	switch {
	case err == nil:
		report["cache"] = cache
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
	default:
		return err
	}
	return c.print(report)
}

func (c *client) refresh(resource string) error {
	var resp json.RawMessage
	if err := c.do(http.MethodPost, "/api/"+resource+"/refresh", nil, &resp); err != nil {
		return err
	}
	return c.print(resp)
}

func (c *client) get(resource string) error {
	var resp json.RawMessage
	if err := c.do(http.MethodGet, "/api/"+resource, nil, &resp); err != nil {
		return err
	}
	return c.print(resp)
}

func (c *client) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *client) do(method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := os.ReadFile(c.tokenFile); err == nil {
		req.Header.Set("X-Courtside-Session", strings.TrimSpace(string(token)))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return &apiError{Status: resp.StatusCode, Message: errResp.Error}
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
