package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/testutil"
	"github.com/reelswipe/reelswipe/internal/websocket"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		TMDB: config.TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Timeout:      10,
		},
		Discovery: config.DiscoveryConfig{TargetCount: 10, MaxPagesPerCall: 3, QualityBar: 65},
		Avatars:   config.AvatarConfig{Path: t.TempDir()},
	}

	hub := websocket.NewHub()
	go hub.Run()

	server, err := NewServer(testutil.NewTestDB(t), hub, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func (s *Server) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Unexpected health body: %v", body)
	}
}

func TestAuthRequired(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/api/v1/discover", "/api/v1/interactions", "/api/v1/taste", "/api/v1/profile"} {
		rec := server.do(t, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRegisterLoginAndSwipe(t *testing.T) {
	server := newTestServer(t)

	// Register.
	rec := server.do(t, http.MethodPost, "/api/v1/auth/register", "",
		`{"username":"alice","password":"hunter2hunter2","fullName":"Alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil || session.Token == "" {
		t.Fatalf("No token in register response: %s", rec.Body.String())
	}

	// Login with the same credentials.
	rec = server.do(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"alice","password":"hunter2hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Login: expected 200, got %d", rec.Code)
	}

	// Record a swipe.
	rec = server.do(t, http.MethodPost, "/api/v1/interactions", session.Token,
		`{"movieId":"550","type":"YES"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Record: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var matchResp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &matchResp); err != nil {
		t.Fatalf("Invalid record response: %v", err)
	}
	if matchResp["matched"] {
		t.Error("First like must not match")
	}

	// The swipe shows up in the history.
	rec = server.do(t, http.MethodGet, "/api/v1/interactions", session.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("List: expected 200, got %d", rec.Code)
	}
	var interactions []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &interactions); err != nil {
		t.Fatalf("Invalid list response: %v", err)
	}
	if len(interactions) != 1 || interactions[0]["movieId"] != "550" {
		t.Errorf("Unexpected history: %v", interactions)
	}

	// Invalid type is rejected.
	rec = server.do(t, http.MethodPost, "/api/v1/interactions", session.Token,
		`{"movieId":"550","type":"MAYBE"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid type, got %d", rec.Code)
	}
}

func TestRegisterConflict(t *testing.T) {
	server := newTestServer(t)

	body := `{"username":"alice","password":"hunter2hunter2"}`
	if rec := server.do(t, http.MethodPost, "/api/v1/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("First register failed: %d", rec.Code)
	}
	if rec := server.do(t, http.MethodPost, "/api/v1/auth/register", "", body); rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 on duplicate register, got %d", rec.Code)
	}
}

func TestProfileLifecycle(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/api/v1/auth/register", "",
		`{"username":"alice","password":"hunter2hunter2"}`)
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("Register failed: %s", rec.Body.String())
	}

	// Update display name.
	rec = server.do(t, http.MethodPatch, "/api/v1/profile", session.Token,
		`{"fullName":"Alice Cooper"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Update: expected 200, got %d", rec.Code)
	}

	rec = server.do(t, http.MethodGet, "/api/v1/profile", session.Token, "")
	var p map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("Invalid profile response: %v", err)
	}
	if p["fullName"] != "Alice Cooper" {
		t.Errorf("Expected updated name, got %v", p["fullName"])
	}

	// Delete the account; the token's user is gone afterwards.
	rec = server.do(t, http.MethodDelete, "/api/v1/profile", session.Token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Delete: expected 204, got %d", rec.Code)
	}
	rec = server.do(t, http.MethodGet, "/api/v1/profile", session.Token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}
