// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/danielhkuo/campaign-vote/models"
	"github.com/danielhkuo/campaign-vote/voting"
)

type entry struct {
	mu       sync.Mutex
	campaign models.Campaign
	ledger   []string // one voter id per vote cast
	deleted  bool
}

// Store keeps campaigns in process memory. Each campaign has its own lock;
// RecordVote checks and applies under it as one critical section.
type Store struct {
	mu        sync.RWMutex
	campaigns map[string]*entry
}

func New() *Store {
	return &Store{campaigns: make(map[string]*entry)}
}

var _ voting.Store = (*Store)(nil)

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.campaigns[id]
	s.mu.RUnlock()
	if !ok {
		return nil, voting.ErrNotFound
	}
	return e, nil
}

// locked runs fn with the campaign's lock held.
func (s *Store) locked(ctx context.Context, id string, fn func(e *entry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return voting.ErrNotFound
	}
	return fn(e)
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	err := s.locked(ctx, id, func(e *entry) error {
		c = e.snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entries := make([]*entry, 0, len(s.campaigns))
	for _, e := range s.campaigns {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	campaigns := make([]models.Campaign, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted {
			campaigns = append(campaigns, e.snapshot())
		}
		e.mu.Unlock()
	}

	// Same order as SQLStore: created_at, then id.
	sort.SliceStable(campaigns, func(i, j int) bool {
		a, b := campaigns[i], campaigns[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return campaigns, nil
}

func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := &entry{campaign: *c}
	e.campaign.Candidates = append([]models.Candidate{}, c.Candidates...)
	e.campaign.Ledger = nil

	s.mu.Lock()
	s.campaigns[c.ID] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	return s.locked(ctx, c.ID, func(e *entry) error {
		e.campaign.Title = c.Title
		e.campaign.Description = c.Description
		e.campaign.VotesPerVoter = c.VotesPerVoter
		e.campaign.StartAt = c.StartAt
		e.campaign.EndAt = c.EndAt
		e.campaign.UpdatedAt = c.UpdatedAt
		e.campaign.Revision++
		return nil
	})
}

func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	return s.locked(ctx, id, func(e *entry) error {
		e.campaign.Status = status
		e.campaign.Revision++
		return nil
	})
}

func (s *Store) CloseCampaign(ctx context.Context, id string) error {
	return s.locked(ctx, id, func(e *entry) error {
		if e.campaign.Status == models.StatusOpen {
			e.campaign.Status = models.StatusClosed
			e.campaign.Revision++
		}
		return nil
	})
}

func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	err := s.locked(ctx, id, func(e *entry) error {
		e.deleted = true
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.campaigns, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) AddCandidate(ctx context.Context, campaignID string, cand *models.Candidate) error {
	return s.locked(ctx, campaignID, func(e *entry) error {
		for _, existing := range e.campaign.Candidates {
			if strings.EqualFold(existing.Name, cand.Name) {
				return voting.ErrDuplicateName
			}
		}
		e.campaign.Candidates = append(e.campaign.Candidates, *cand)
		return nil
	})
}

func (s *Store) RemoveCandidate(ctx context.Context, campaignID, candidateID string) error {
	return s.locked(ctx, campaignID, func(e *entry) error {
		for i, cand := range e.campaign.Candidates {
			if cand.ID == candidateID {
				e.campaign.Candidates = append(e.campaign.Candidates[:i], e.campaign.Candidates[i+1:]...)
				return nil
			}
		}
		return voting.ErrCandidateNotFound
	})
}

func (s *Store) RecordVote(ctx context.Context, v voting.VoteIntent) (int, error) {
	var used int
	err := s.locked(ctx, v.CampaignID, func(e *entry) error {
		if e.campaign.Revision != v.Revision || e.campaign.Status != models.StatusOpen {
			return voting.ErrStaleSnapshot
		}

		var cand *models.Candidate
		for i := range e.campaign.Candidates {
			if e.campaign.Candidates[i].ID == v.CandidateID {
				cand = &e.campaign.Candidates[i]
				break
			}
		}
		if cand == nil {
			return voting.ErrStaleSnapshot
		}

		used = 0
		for _, voter := range e.ledger {
			if voter == v.VoterID {
				used++
			}
		}
		if used >= v.Quota {
			return voting.ErrQuotaRace
		}

		cand.VoteCount++
		e.ledger = append(e.ledger, v.VoterID)
		used++
		return nil
	})
	if err == voting.ErrNotFound {
		return 0, voting.ErrStaleSnapshot
	}
	return used, err
}

// snapshot deep-copies the campaign. Callers hold e.mu.
func (e *entry) snapshot() models.Campaign {
	c := e.campaign
	c.Candidates = append([]models.Candidate{}, e.campaign.Candidates...)
	c.Ledger = make(models.Ledger, len(e.ledger))
	for _, voter := range e.ledger {
		c.Ledger[voter]++
	}
	return c
}
