// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/danielhkuo/campaign-vote/models"
)

// Evaluate decides whether voterID may vote for candidateID at now.
// It returns nil to allow, or a *DenyError. Checks run in a fixed order
// and the first failing one wins.
func Evaluate(c *models.Campaign, voterID, candidateID string, now time.Time) error {
	if c == nil {
		return deny(ReasonCampaignNotFound)
	}
	if c.Status != models.StatusOpen {
		return deny(ReasonCampaignNotOpen)
	}
	if !InWindow(c, now) {
		return deny(ReasonOutsideWindow)
	}
	if c.Ledger.Count(voterID) >= c.VotesPerVoter {
		return deny(ReasonQuotaExhausted)
	}
	if c.FindCandidate(candidateID) == nil {
		return deny(ReasonCandidateNotFound)
	}
	return nil
}

// InWindow reports whether now falls in [StartAt, EndAt).
func InWindow(c *models.Campaign, now time.Time) bool {
	return !now.Before(c.StartAt) && now.Before(c.EndAt)
}
