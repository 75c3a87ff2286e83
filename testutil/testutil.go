// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
)

// Session settings shared by tests that sign and verify tokens
const (
	TestJWTSecret = "test-session-secret"
	TestJWTIssuer = "https://auth.livepoll.test"
)

// SetupTestDB opens a fresh SQLite database in the test's temp dir with the
// full schema. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "livepoll.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          cliparse.DefaultPort,
		DatabaseURL:   ":memory:",
		DatabaseType:  db.DriverSQLite,
		JWTSecret:     TestJWTSecret,
		JWTIssuer:     TestJWTIssuer,
		AllowedOrigin: "*",
	}
}

// NewTestVerifier returns a verifier matching GetTestConfig.
func NewTestVerifier() *auth.Verifier {
	return auth.NewVerifier(TestJWTSecret, TestJWTIssuer)
}

// AuthHeader signs a session token for the external id and returns the
// headers a client would send with it.
func AuthHeader(t *testing.T, externalID string) map[string]string {
	t.Helper()

	token, err := NewTestVerifier().IssueToken(auth.Identity{
		ExternalID: externalID,
		GivenName:  externalID,
	}, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestUser inserts a directory entry and returns its internal id.
func CreateTestUser(t *testing.T, conn *sql.DB, externalID string) string {
	t.Helper()

	id := auth.GenerateID()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO app_user (id, external_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, externalID, externalID, now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestPoll inserts a poll owned by creatorID with the given options
// and returns the poll id and option ids in order.
func CreateTestPoll(t *testing.T, conn *sql.DB, creatorID string, expiresAt time.Time, options ...string) (pollID string, optionIDs []string) {
	t.Helper()

	pollID = auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO poll (id, title, description, creator_id, expires_at, theme_color, created_at)
		VALUES ($1, 'Test Poll', 'A test poll', $2, $3, '#3b82f6', $4)
	`, pollID, creatorID, expiresAt.UnixMilli(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, text := range options {
		optionID := auth.GenerateID()
		_, err := conn.Exec(`
			INSERT INTO poll_option (id, poll_id, text, position)
			VALUES ($1, $2, $3, $4)
		`, optionID, pollID, text, i)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
