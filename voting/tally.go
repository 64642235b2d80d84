// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/danielhkuo/campaign-vote/models"
)

// Projection is the read-only tally view of a campaign.
type Projection struct {
	CampaignID     string
	Title          string
	Status         string
	StartAt        time.Time
	EndAt          time.Time
	TotalVotes     int
	TotalVoters    int
	DistinctVoters int
	TurnoutPct     float64
	PerCandidate   []models.CandidateTally
	TimeRemaining  time.Duration
}

// Project derives counts, percentages and time remaining from a snapshot.
// It has no side effects.
func Project(c *models.Campaign, now time.Time) Projection {
	p := Projection{
		CampaignID:     c.ID,
		Title:          c.Title,
		Status:         c.Status,
		StartAt:        c.StartAt,
		EndAt:          c.EndAt,
		TotalVoters:    c.Ledger.Entries(),
		DistinctVoters: c.Ledger.Voters(),
		PerCandidate:   make([]models.CandidateTally, 0, len(c.Candidates)),
	}

	for _, cand := range c.Candidates {
		p.TotalVotes += cand.VoteCount
	}

	p.TurnoutPct = percent(p.TotalVotes, p.TotalVoters)

	for _, cand := range c.Candidates {
		p.PerCandidate = append(p.PerCandidate, models.CandidateTally{
			CandidateID: cand.ID,
			Name:        cand.Name,
			Votes:       cand.VoteCount,
			Pct:         percent(cand.VoteCount, p.TotalVotes),
		})
	}

	if c.Status == models.StatusOpen {
		p.TimeRemaining = remaining(c.EndAt, now)
	}

	return p
}

// Allowance is how many votes a voter has left in a campaign.
type Allowance struct {
	VotesAvailable int
	VotesCast      int
	TotalAllowed   int
}

// AllowanceFor computes the voter's remaining quota from the ledger.
func AllowanceFor(c *models.Campaign, voterID string) Allowance {
	cast := c.Ledger.Count(voterID)
	available := c.VotesPerVoter - cast
	if available < 0 {
		available = 0
	}
	return Allowance{
		VotesAvailable: available,
		VotesCast:      cast,
		TotalAllowed:   c.VotesPerVoter,
	}
}

// Countdown describes progress through the voting window.
type Countdown struct {
	Remaining       time.Duration
	Total           time.Duration
	PercentComplete float64
	Status          string
	StartAt         time.Time
	EndAt           time.Time
}

// CountdownFor measures the window against now. PercentComplete is clamped to [0, 100].
func CountdownFor(c *models.Campaign, now time.Time) Countdown {
	total := c.EndAt.Sub(c.StartAt)
	left := remaining(c.EndAt, now)

	pct := 0.0
	if total > 0 {
		pct = float64(total-left) / float64(total) * 100
	}
	pct = min(100, max(0, pct))

	return Countdown{
		Remaining:       left,
		Total:           total,
		PercentComplete: pct,
		Status:          c.Status,
		StartAt:         c.StartAt,
		EndAt:           c.EndAt,
	}
}

func remaining(end, now time.Time) time.Duration {
	return max(0, end.Sub(now))
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
