// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/campaign-vote/models"
)

const (
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 10 * time.Millisecond
	DefaultMaxBackoff     = 250 * time.Millisecond
)

// Service runs the voting engine over a Store.
type Service struct {
	store          Store
	now            func() time.Time
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxAttempts bounds how many times ApplyVote tries before ErrConflict.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithBackoff sets the exponential backoff interval bounds between vote attempts.
func WithBackoff(initial, maxInterval time.Duration) Option {
	return func(s *Service) {
		s.initialBackoff = initial
		s.maxBackoff = maxInterval
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:          store,
		now:            time.Now,
		maxAttempts:    DefaultMaxAttempts,
		initialBackoff: DefaultInitialBackoff,
		maxBackoff:     DefaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read paths. Every accessor goes through load, which applies Observe.

// Get returns the campaign with its status already transitioned.
func (s *Service) Get(ctx context.Context, id string) (*models.Campaign, error) {
	return s.load(ctx, id)
}

// List returns all campaigns, each observed.
func (s *Service) List(ctx context.Context) ([]models.Campaign, error) {
	campaigns, err := s.store.ListCampaigns(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	now := s.now()
	for i := range campaigns {
		s.observe(ctx, &campaigns[i], now)
	}
	return campaigns, nil
}

// Stats returns the live tally for a campaign.
func (s *Service) Stats(ctx context.Context, id string) (Projection, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return Projection{}, err
	}
	return Project(c, s.now()), nil
}

// Report projects every campaign.
func (s *Service) Report(ctx context.Context) ([]Projection, error) {
	campaigns, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	report := make([]Projection, 0, len(campaigns))
	for i := range campaigns {
		report = append(report, Project(&campaigns[i], now))
	}
	return report, nil
}

// VotesAvailable reports the voter's remaining quota.
func (s *Service) VotesAvailable(ctx context.Context, id, voterID string) (Allowance, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return Allowance{}, err
	}
	return AllowanceFor(c, voterID), nil
}

// Countdown reports progress through the campaign's window.
func (s *Service) Countdown(ctx context.Context, id string) (Countdown, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return Countdown{}, err
	}
	return CountdownFor(c, s.now()), nil
}

// Administrator operations. Metadata writes are last-writer-wins.

// Create validates req and stores a new closed campaign.
func (s *Service) Create(ctx context.Context, req models.CampaignRequest) (*models.Campaign, error) {
	if err := validateCampaign(&req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &models.Campaign{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		VotesPerVoter: req.VotesPerVoter,
		Status:        models.StatusClosed,
		StartAt:       req.StartAt.UTC(),
		EndAt:         req.EndAt.UTC(),
		Candidates:    []models.Candidate{},
		Ledger:        models.Ledger{},
		Revision:      1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateCampaign(ctx, c); err != nil {
		return nil, storeErr(err)
	}

	slog.Info("campaign created", "campaign_id", c.ID, "title", c.Title)
	return c, nil
}

// Update overwrites campaign metadata.
func (s *Service) Update(ctx context.Context, id string, req models.CampaignRequest) (*models.Campaign, error) {
	if err := validateCampaign(&req); err != nil {
		return nil, err
	}

	c := &models.Campaign{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		VotesPerVoter: req.VotesPerVoter,
		StartAt:       req.StartAt.UTC(),
		EndAt:         req.EndAt.UTC(),
		UpdatedAt:     s.now().UTC(),
	}
	if err := s.store.UpdateCampaign(ctx, c); err != nil {
		return nil, storeErr(err)
	}

	slog.Info("campaign updated", "campaign_id", id)
	return s.load(ctx, id)
}

// SetStatus is the administrator override. Opening a campaign whose window
// has already ended is refused; extend end_at first.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*models.Campaign, error) {
	if status != models.StatusOpen && status != models.StatusClosed {
		return nil, invalid("status must be one of: open, closed")
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == models.StatusOpen && !s.now().Before(c.EndAt) {
		return nil, invalid("voting window has ended; extend end_at before reopening")
	}

	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return nil, storeErr(err)
	}

	slog.Info("campaign status set", "campaign_id", id, "status", status)
	return s.load(ctx, id)
}

// Delete removes a campaign with its candidates and ledger.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCampaign(ctx, id); err != nil {
		return storeErr(err)
	}
	slog.Info("campaign deleted", "campaign_id", id)
	return nil
}

// AddCandidate appends a candidate. Names are unique case-insensitively at creation.
func (s *Service) AddCandidate(ctx context.Context, campaignID string, req models.AddCandidateRequest) (*models.Candidate, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" {
		return nil, invalid("name is required")
	}
	if description == "" {
		return nil, invalid("description is required")
	}

	c, err := s.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	for _, existing := range c.Candidates {
		if strings.EqualFold(existing.Name, name) {
			return nil, ErrDuplicateName
		}
	}

	cand := &models.Candidate{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.AddCandidate(ctx, campaignID, cand); err != nil {
		return nil, storeErr(err)
	}

	slog.Info("candidate added", "campaign_id", campaignID, "candidate_id", cand.ID)
	return cand, nil
}

// RemoveCandidate drops a candidate. Ledger entries for votes it received stay,
// so those votes still count against each voter's quota.
func (s *Service) RemoveCandidate(ctx context.Context, campaignID, candidateID string) error {
	if err := s.store.RemoveCandidate(ctx, campaignID, candidateID); err != nil {
		return storeErr(err)
	}
	slog.Info("candidate removed", "campaign_id", campaignID, "candidate_id", candidateID)
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Campaign, error) {
	c, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	s.observe(ctx, c, s.now())
	return c, nil
}

// observe applies the window transition and persists it best-effort.
func (s *Service) observe(ctx context.Context, c *models.Campaign, now time.Time) {
	next := Observe(*c, now)
	if next.Status == c.Status {
		return
	}

	if err := s.store.CloseCampaign(ctx, c.ID); err != nil {
		slog.Warn("failed to persist campaign close", "campaign_id", c.ID, "error", err)
	} else {
		slog.Info("campaign closed by window", "campaign_id", c.ID, "end_at", c.EndAt)
	}
	*c = next
}

func validateCampaign(req *models.CampaignRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	switch {
	case req.Title == "":
		return invalid("title is required")
	case req.Description == "":
		return invalid("description is required")
	case req.VotesPerVoter <= 0:
		return invalid("votes_per_voter must be a positive integer")
	case req.StartAt.IsZero() || req.EndAt.IsZero():
		return invalid("start_at and end_at are required")
	case !req.StartAt.Before(req.EndAt):
		return invalid("start_at must be before end_at")
	}
	return nil
}

// storeErr passes domain sentinels through and marks everything else transient.
func storeErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrCandidateNotFound),
		errors.Is(err, ErrInvalid):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
