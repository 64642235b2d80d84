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
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/campaign-vote/auth"
	"github.com/danielhkuo/campaign-vote/cliparse"
	"github.com/danielhkuo/campaign-vote/db"
	"github.com/danielhkuo/campaign-vote/middleware"
	"github.com/danielhkuo/campaign-vote/models"
	"github.com/danielhkuo/campaign-vote/voting"
)

// TestJWTSecret signs every token issued by TokenFor.
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh sqlite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "campaign-vote.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path)
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
		Port:            3318,
		DatabaseType:    db.TypeSQLite,
		JWTSecret:       TestJWTSecret,
		StoreTimeout:    5 * time.Second,
		VoteMaxAttempts: voting.DefaultMaxAttempts,
	}
}

// Clock is a settable clock for voting.WithClock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestService wires store to a Service driven by clock with short backoff.
func NewTestService(store voting.Store, clock *Clock) *voting.Service {
	return voting.NewService(store,
		voting.WithClock(clock.Now),
		voting.WithBackoff(time.Millisecond, 5*time.Millisecond),
	)
}

// CreateTestCampaign creates a campaign spanning [start, end) and opens it
// when open is true. The service clock must be before end to open.
func CreateTestCampaign(t *testing.T, svc *voting.Service, votesPerVoter int, start, end time.Time, open bool) *models.Campaign {
	t.Helper()

	c, err := svc.Create(t.Context(), models.CampaignRequest{
		Title:         "Test Campaign",
		Description:   "A test campaign",
		VotesPerVoter: votesPerVoter,
		StartAt:       start,
		EndAt:         end,
	})
	if err != nil {
		t.Fatalf("Failed to create test campaign: %v", err)
	}

	if open {
		c, err = svc.SetStatus(t.Context(), c.ID, models.StatusOpen)
		if err != nil {
			t.Fatalf("Failed to open test campaign: %v", err)
		}
	}

	return c
}

// AddTestCandidate adds a candidate and returns its ID
func AddTestCandidate(t *testing.T, svc *voting.Service, campaignID, name string) string {
	t.Helper()

	cand, err := svc.AddCandidate(t.Context(), campaignID, models.AddCandidateRequest{
		Name:        name,
		Description: name + " description",
	})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return cand.ID
}

// TokenFor signs a bearer token for voterID with the test secret.
func TokenFor(t *testing.T, voterID, role string) string {
	t.Helper()

	token, err := auth.SignToken(TestJWTSecret, voterID, role, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}

// AsCaller attaches an identity to req as Authenticate would.
func AsCaller(req *http.Request, voterID, role string) *http.Request {
	id := auth.Identity{VoterID: voterID, Role: role}
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
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
