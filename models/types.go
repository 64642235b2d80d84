// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Campaign status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Caller roles supplied by the identity collaborator
const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

// Request types

type CampaignRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	VotesPerVoter int       `json:"votes_per_voter"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AddCandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Response types

type CastVoteResponse struct {
	VotesRemaining int    `json:"votes_remaining"`
	Message        string `json:"message"`
}

type VotesAvailableResponse struct {
	VotesAvailable int `json:"votes_available"`
	VotesCast      int `json:"votes_cast"`
	TotalAllowed   int `json:"total_allowed"`
}

type CandidateTally struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Votes       int     `json:"votes"`
	Pct         float64 `json:"pct"`
}

type StatsResponse struct {
	CampaignID         string           `json:"campaign_id"`
	Title              string           `json:"title"`
	Status             string           `json:"status"`
	TotalVotes         int              `json:"total_votes"`
	TotalVoters        int              `json:"total_voters"`
	DistinctVoters     int              `json:"distinct_voters"`
	TurnoutPct         float64          `json:"turnout_pct"`
	PerCandidate       []CandidateTally `json:"per_candidate"`
	TimeRemainingMS    int64            `json:"time_remaining_ms"`
	TimeRemainingHuman string           `json:"time_remaining_human"`
}

type DurationParts struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type TimeRemainingResponse struct {
	RemainingMS     int64         `json:"remaining_ms"`
	TotalMS         int64         `json:"total_ms"`
	PercentComplete float64       `json:"percent_complete"`
	Status          string        `json:"status"`
	StartAt         time.Time     `json:"start_at"`
	EndAt           time.Time     `json:"end_at"`
	Remaining       DurationParts `json:"remaining"`
	Total           DurationParts `json:"total"`
	RemainingHuman  string        `json:"remaining_human"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

// Domain types

type Candidate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VoteCount   int       `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Campaign struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	VotesPerVoter int         `json:"votes_per_voter"`
	Status        string      `json:"status"`
	StartAt       time.Time   `json:"start_at"`
	EndAt         time.Time   `json:"end_at"`
	Candidates    []Candidate `json:"candidates"`
	Ledger        Ledger      `json:"-"` // Voter identities are never exposed
	Revision      int64       `json:"revision"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// FindCandidate returns the candidate with the given id, or nil.
func (c *Campaign) FindCandidate(candidateID string) *Candidate {
	for i := range c.Candidates {
		if c.Candidates[i].ID == candidateID {
			return &c.Candidates[i]
		}
	}
	return nil
}

// Ledger maps voter id -> number of votes cast in one campaign.
// It is the materialized form of the one-entry-per-vote record.
type Ledger map[string]int

// Count returns how many votes voterID has cast.
func (l Ledger) Count(voterID string) int {
	return l[voterID]
}

// Entries returns the total number of ledger entries (one per vote).
func (l Ledger) Entries() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}

// Voters returns the number of distinct voters in the ledger.
func (l Ledger) Voters() int {
	return len(l)
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
