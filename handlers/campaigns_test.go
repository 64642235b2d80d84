// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/campaign-vote/cliparse"
	"github.com/danielhkuo/campaign-vote/db"
	"github.com/danielhkuo/campaign-vote/models"
	"github.com/danielhkuo/campaign-vote/testutil"
	"github.com/danielhkuo/campaign-vote/voting"
)

// setupService returns a Service over a fresh sqlite store with a fixed clock.
func setupService(t *testing.T) (*voting.Service, *testutil.Clock, cliparse.Config) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	clock := testutil.NewClock(time.Now().UTC().Truncate(time.Second))
	svc := testutil.NewTestService(db.NewSQLStore(conn), clock)

	return svc, clock, testutil.GetTestConfig()
}

func TestCreateCampaign(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	valid := models.CampaignRequest{
		Title:         "Board election",
		Description:   "Annual board seats",
		VotesPerVoter: 3,
		StartAt:       now,
		EndAt:         now.Add(48 * time.Hour),
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedMsg    string
	}{
		{name: "valid campaign", requestBody: valid, expectedStatus: http.StatusCreated},
		{
			name:           "missing title",
			requestBody:    models.CampaignRequest{Description: "d", VotesPerVoter: 1, StartAt: now, EndAt: now.Add(time.Hour)},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "title is required",
		},
		{
			name:           "blank description",
			requestBody:    models.CampaignRequest{Title: "t", Description: "   ", VotesPerVoter: 1, StartAt: now, EndAt: now.Add(time.Hour)},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "description is required",
		},
		{
			name:           "zero quota",
			requestBody:    models.CampaignRequest{Title: "t", Description: "d", VotesPerVoter: 0, StartAt: now, EndAt: now.Add(time.Hour)},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "votes_per_voter must be a positive integer",
		},
		{
			name:           "window reversed",
			requestBody:    models.CampaignRequest{Title: "t", Description: "d", VotesPerVoter: 1, StartAt: now.Add(time.Hour), EndAt: now},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "start_at must be before end_at",
		},
		{
			name:           "empty window",
			requestBody:    models.CampaignRequest{Title: "t", Description: "d", VotesPerVoter: 1, StartAt: now, EndAt: now},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "start_at must be before end_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/campaigns", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var c models.Campaign
				testutil.AssertJSON(t, w, &c)
				if c.ID == "" {
					t.Error("Expected non-empty campaign id")
				}
				if c.Status != models.StatusClosed {
					t.Errorf("Expected new campaign to be closed, got %s", c.Status)
				}
				if c.VotesPerVoter != 3 {
					t.Errorf("Expected votes_per_voter 3, got %d", c.VotesPerVoter)
				}
				return
			}

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tt.expectedMsg {
				t.Errorf("Expected message %q, got %q", tt.expectedMsg, resp.Message)
			}
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/campaigns", strings.NewReader("{"))
		w := httptest.NewRecorder()
		handler.Create(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestGetCampaign(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	c := testutil.CreateTestCampaign(t, svc, 2, now.Add(-time.Hour), now.Add(time.Hour), true)
	testutil.AddTestCandidate(t, svc, c.ID, "Alice")
	testutil.AddTestCandidate(t, svc, c.ID, "Bob")

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"existing campaign", c.ID, http.StatusOK},
		{"unknown campaign", "does-not-exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/campaigns/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.Get(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Reason != string(voting.ReasonCampaignNotFound) {
					t.Errorf("Expected reason %s, got %q", voting.ReasonCampaignNotFound, resp.Reason)
				}
				return
			}

			var got models.Campaign
			testutil.AssertJSON(t, w, &got)
			if len(got.Candidates) != 2 {
				t.Fatalf("Expected 2 candidates, got %d", len(got.Candidates))
			}
			if got.Candidates[0].Name != "Alice" || got.Candidates[1].Name != "Bob" {
				t.Errorf("Expected candidates in insertion order, got %s, %s", got.Candidates[0].Name, got.Candidates[1].Name)
			}
			if got.Status != models.StatusOpen {
				t.Errorf("Expected open, got %s", got.Status)
			}
		})
	}
}

func TestListCampaigns(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	testutil.CreateTestCampaign(t, svc, 1, now, now.Add(time.Hour), false)
	testutil.CreateTestCampaign(t, svc, 1, now, now.Add(2*time.Hour), true)

	req := httptest.NewRequest("GET", "/campaigns", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var campaigns []models.Campaign
	testutil.AssertJSON(t, w, &campaigns)
	if len(campaigns) != 2 {
		t.Errorf("Expected 2 campaigns, got %d", len(campaigns))
	}
}

func TestUpdateCampaign(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	c := testutil.CreateTestCampaign(t, svc, 1, now, now.Add(time.Hour), false)

	update := models.CampaignRequest{
		Title:         "Renamed",
		Description:   "New description",
		VotesPerVoter: 4,
		StartAt:       now,
		EndAt:         now.Add(3 * time.Hour),
	}

	req := testutil.MakeRequest("PUT", "/campaigns/"+c.ID, update, nil)
	req.SetPathValue("id", c.ID)
	w := httptest.NewRecorder()
	handler.Update(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.Campaign
	testutil.AssertJSON(t, w, &got)
	if got.Title != "Renamed" || got.VotesPerVoter != 4 {
		t.Errorf("Update not applied: %+v", got)
	}
	if got.Revision <= c.Revision {
		t.Errorf("Expected revision to advance past %d, got %d", c.Revision, got.Revision)
	}

	t.Run("unknown campaign", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/campaigns/missing", update, nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		handler.Update(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestSetStatus(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	active := testutil.CreateTestCampaign(t, svc, 1, now.Add(-time.Hour), now.Add(time.Hour), false)
	ended := testutil.CreateTestCampaign(t, svc, 1, now.Add(-2*time.Hour), now.Add(time.Minute), true)
	clock.Advance(2 * time.Minute)

	tests := []struct {
		name           string
		id             string
		status         string
		expectedStatus int
	}{
		{"open active campaign", active.ID, models.StatusOpen, http.StatusOK},
		{"close active campaign", active.ID, models.StatusClosed, http.StatusOK},
		{"reopen past end", ended.ID, models.StatusOpen, http.StatusBadRequest},
		{"close ended campaign", ended.ID, models.StatusClosed, http.StatusOK},
		{"unknown status", active.ID, "paused", http.StatusBadRequest},
		{"unknown campaign", "missing", models.StatusClosed, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PATCH", "/campaigns/"+tt.id+"/status", models.SetStatusRequest{Status: tt.status}, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.SetStatus(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var got models.Campaign
				testutil.AssertJSON(t, w, &got)
				if got.Status != tt.status {
					t.Errorf("Expected status %s, got %s", tt.status, got.Status)
				}
			}
		})
	}
}

func TestDeleteCampaign(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	c := testutil.CreateTestCampaign(t, svc, 1, now.Add(-time.Hour), now.Add(time.Hour), true)
	cand := testutil.AddTestCandidate(t, svc, c.ID, "Alice")
	if _, err := svc.ApplyVote(t.Context(), c.ID, "voter-1", cand); err != nil {
		t.Fatalf("Failed to cast vote: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/campaigns/"+c.ID, nil)
	req.SetPathValue("id", c.ID)
	w := httptest.NewRecorder()
	handler.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Gone afterwards
	req = httptest.NewRequest("GET", "/campaigns/"+c.ID, nil)
	req.SetPathValue("id", c.ID)
	w = httptest.NewRecorder()
	handler.Get(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Deleting twice is a 404
	req = httptest.NewRequest("DELETE", "/campaigns/"+c.ID, nil)
	req.SetPathValue("id", c.ID)
	w = httptest.NewRecorder()
	handler.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestAddCandidate(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	c := testutil.CreateTestCampaign(t, svc, 1, now, now.Add(time.Hour), false)

	tests := []struct {
		name           string
		campaignID     string
		requestBody    models.AddCandidateRequest
		expectedStatus int
	}{
		{"valid candidate", c.ID, models.AddCandidateRequest{Name: "Alice", Description: "First"}, http.StatusCreated},
		{"second candidate", c.ID, models.AddCandidateRequest{Name: " Bob ", Description: "Second"}, http.StatusCreated},
		{"duplicate name any case", c.ID, models.AddCandidateRequest{Name: "ALICE", Description: "Again"}, http.StatusConflict},
		{"missing name", c.ID, models.AddCandidateRequest{Name: "  ", Description: "x"}, http.StatusBadRequest},
		{"missing description", c.ID, models.AddCandidateRequest{Name: "Carol"}, http.StatusBadRequest},
		{"unknown campaign", "missing", models.AddCandidateRequest{Name: "Dan", Description: "x"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/campaigns/"+tt.campaignID+"/candidates", tt.requestBody, nil)
			req.SetPathValue("id", tt.campaignID)
			w := httptest.NewRecorder()

			handler.AddCandidate(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var cand models.Candidate
				testutil.AssertJSON(t, w, &cand)
				if cand.Name != strings.TrimSpace(tt.requestBody.Name) {
					t.Errorf("Expected trimmed name %q, got %q", strings.TrimSpace(tt.requestBody.Name), cand.Name)
				}
				if cand.VoteCount != 0 {
					t.Errorf("Expected new candidate to have 0 votes, got %d", cand.VoteCount)
				}
			}
		})
	}
}

func TestRemoveCandidate(t *testing.T) {
	svc, clock, cfg := setupService(t)
	handler := NewCampaignHandler(svc, cfg)

	now := clock.Now()
	c := testutil.CreateTestCampaign(t, svc, 2, now.Add(-time.Hour), now.Add(time.Hour), true)
	alice := testutil.AddTestCandidate(t, svc, c.ID, "Alice")
	testutil.AddTestCandidate(t, svc, c.ID, "Bob")

	if _, err := svc.ApplyVote(t.Context(), c.ID, "voter-1", alice); err != nil {
		t.Fatalf("Failed to cast vote: %v", err)
	}

	tests := []struct {
		name           string
		campaignID     string
		candidateID    string
		expectedStatus int
	}{
		{"existing candidate", c.ID, alice, http.StatusOK},
		{"already removed", c.ID, alice, http.StatusNotFound},
		{"unknown campaign", "missing", alice, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/campaigns/"+tt.campaignID+"/candidates/"+tt.candidateID, nil)
			req.SetPathValue("id", tt.campaignID)
			req.SetPathValue("candidateId", tt.candidateID)
			w := httptest.NewRecorder()

			handler.RemoveCandidate(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// The removed candidate's vote still counts against the voter's quota.
	a, err := svc.VotesAvailable(t.Context(), c.ID, "voter-1")
	if err != nil {
		t.Fatal(err)
	}
	if a.VotesCast != 1 || a.VotesAvailable != 1 {
		t.Errorf("Expected 1 cast and 1 available after removal, got %+v", a)
	}
}
