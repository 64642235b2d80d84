// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// VoteResult is returned for an applied vote.
type VoteResult struct {
	VotesRemaining int
	VotesCast      int
}

// ApplyVote records one vote by voterID for candidateID.
//
// Each attempt re-reads the campaign, re-runs Evaluate against that fresh
// snapshot and hands the result to Store.RecordVote, which only commits if
// the snapshot is still current. A stale snapshot is retried with
// exponential backoff; after the attempt budget is spent the caller gets
// ErrConflict and must re-check eligibility rather than resubmit.
func (s *Service) ApplyVote(ctx context.Context, campaignID, voterID, candidateID string) (VoteResult, error) {
	var result VoteResult
	attempt := 0

	op := func() error {
		attempt++

		c, err := s.load(ctx, campaignID)
		if errors.Is(err, ErrNotFound) {
			return backoff.Permanent(deny(ReasonCampaignNotFound))
		}
		if err != nil {
			return backoff.Permanent(err)
		}

		now := s.now()
		if err := Evaluate(c, voterID, candidateID, now); err != nil {
			return backoff.Permanent(err)
		}

		used, err := s.store.RecordVote(ctx, VoteIntent{
			CampaignID:  c.ID,
			CandidateID: candidateID,
			VoterID:     voterID,
			Revision:    c.Revision,
			Quota:       c.VotesPerVoter,
			CastAt:      now.UTC(),
		})
		switch {
		case errors.Is(err, ErrStaleSnapshot):
			return err
		case errors.Is(err, ErrQuotaRace):
			return backoff.Permanent(deny(ReasonQuotaExhausted))
		case err != nil:
			return backoff.Permanent(storeErr(err))
		}

		if used > c.VotesPerVoter {
			slog.Error("ledger exceeds quota",
				"campaign_id", c.ID,
				"voter_id", voterID,
				"votes_cast", used,
				"quota", c.VotesPerVoter,
			)
			return backoff.Permanent(ErrInvariant)
		}

		result = VoteResult{
			VotesRemaining: c.VotesPerVoter - used,
			VotesCast:      used,
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		slog.Debug("vote attempt conflicted, retrying",
			"campaign_id", campaignID,
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)
	}

	err := backoff.RetryNotify(op, s.newBackOff(ctx), notify)
	switch {
	case err == nil:
		slog.Info("vote applied",
			"campaign_id", campaignID,
			"candidate_id", candidateID,
			"votes_remaining", result.VotesRemaining,
			"attempts", attempt,
		)
		return result, nil
	case errors.Is(err, ErrStaleSnapshot):
		slog.Warn("vote retries exhausted", "campaign_id", campaignID, "attempts", attempt)
		return VoteResult{}, ErrConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		if !errors.Is(err, ErrUnavailable) {
			err = storeErr(err)
		}
		return VoteResult{}, err
	default:
		return VoteResult{}, err
	}
}

func (s *Service) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.initialBackoff
	exp.MaxInterval = s.maxBackoff
	exp.MaxElapsedTime = 0

	retries := uint64(0)
	if s.maxAttempts > 1 {
		retries = uint64(s.maxAttempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, retries), ctx)
}
