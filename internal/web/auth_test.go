package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/memora-app/memora/internal/config"
	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/llm"
)

const testSecret = "unit-test-secret"

func newAuthedServer(t *testing.T) http.Handler {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.JWTSecret = testSecret

	srv := NewServer(database, cfg, llm.NewStubClient("ok"), "test")
	return srv.Handler
}

func authedRequest(t *testing.T, handler http.Handler, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := newAuthedServer(t)

	rec := authedRequest(t, handler, "", "GET", "/api/memories", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := newAuthedServer(t)

	req := httptest.NewRequest("GET", "/api/memories", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := newAuthedServer(t)

	// Signed with the wrong secret
	token, err := IssueToken("alice", "some-other-secret", 3600)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	rec := authedRequest(t, handler, token, "GET", "/api/memories", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	handler := newAuthedServer(t)

	token, err := IssueToken("alice", testSecret, -3600)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	rec := authedRequest(t, handler, token, "GET", "/api/memories", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	handler := newAuthedServer(t)

	token, err := IssueToken("alice", testSecret, 3600)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	rec := authedRequest(t, handler, token, "GET", "/api/memories", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAuth_ScopesRequestsToSubject(t *testing.T) {
	handler := newAuthedServer(t)

	aliceToken, err := IssueToken("alice", testSecret, 3600)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	bobToken, err := IssueToken("bob", testSecret, 3600)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	rec := authedRequest(t, handler, aliceToken, "POST", "/api/memories",
		`{"title":"hers","type":"note","content":"c"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}

	rec = authedRequest(t, handler, bobToken, "GET", "/api/memories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hers") {
		t.Error("bob must not see alice's memories")
	}

	rec = authedRequest(t, handler, aliceToken, "GET", "/api/memories", "")
	if !strings.Contains(rec.Body.String(), "hers") {
		t.Error("alice should see her own memories")
	}
}

func TestValidateToken_EmptySubject(t *testing.T) {
	token, err := IssueToken("", testSecret, 3600)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := validateToken(token, testSecret); err == nil {
		t.Error("token without a subject must be rejected")
	}
}

func TestIssueToken_NoExpiry(t *testing.T) {
	token, err := IssueToken("alice", testSecret, 0)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	userID, err := validateToken(token, testSecret)
	if err != nil {
		t.Fatalf("validateToken failed: %v", err)
	}
	if userID != "alice" {
		t.Errorf("userID = %q, want alice", userID)
	}
}

func TestAuth_LocalModeWithoutSecret(t *testing.T) {
	handler, _ := newTestServer(t, llm.NewStubClient("ok"))

	// No Authorization header needed
	rec := doJSON(t, handler, "GET", "/api/memories", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 in local mode", rec.Code)
	}
}
