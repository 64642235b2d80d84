// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"time"

	"github.com/danielhkuo/campaign-vote/models"
)

// Store is the durable campaign record. Implementations must give
// read-your-writes on a single campaign.
type Store interface {
	// GetCampaign returns the campaign with candidates and ledger, or ErrNotFound.
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	CreateCampaign(ctx context.Context, c *models.Campaign) error
	// UpdateCampaign overwrites title, description, quota and window, and bumps the revision.
	UpdateCampaign(ctx context.Context, c *models.Campaign) error
	SetStatus(ctx context.Context, id, status string) error
	// CloseCampaign persists open -> closed. It is a no-op if the campaign is not open.
	CloseCampaign(ctx context.Context, id string) error
	// DeleteCampaign removes the campaign together with its candidates and ledger.
	DeleteCampaign(ctx context.Context, id string) error
	// AddCandidate returns ErrDuplicateName when the name is taken (case-insensitive).
	AddCandidate(ctx context.Context, campaignID string, cand *models.Candidate) error
	RemoveCandidate(ctx context.Context, campaignID, candidateID string) error

	// RecordVote atomically increments the candidate tally and appends the
	// voter to the ledger. It fails with ErrStaleSnapshot if the campaign
	// revision moved, the campaign is no longer open, or the candidate is
	// gone, and with ErrQuotaRace if the voter already holds Quota votes.
	// On success it returns the voter's new vote count.
	RecordVote(ctx context.Context, v VoteIntent) (int, error)
}

// VoteIntent is one evaluated vote, bound to the snapshot it was checked against.
type VoteIntent struct {
	CampaignID  string
	CandidateID string
	VoterID     string
	Revision    int64
	Quota       int
	CastAt      time.Time
}
