// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the campaign voting engine.

# Eligibility

Evaluate is a pure check of one vote attempt against a campaign snapshot:

	err := voting.Evaluate(campaign, voterID, candidateID, time.Now())

It returns nil or a *DenyError. Reasons are checked in this order, first
match wins:

	CAMPAIGN_NOT_FOUND  campaign does not resolve
	CAMPAIGN_NOT_OPEN   status is not open
	OUTSIDE_WINDOW      now is outside [start_at, end_at)
	QUOTA_EXHAUSTED     the voter already cast votes_per_voter votes
	CANDIDATE_NOT_FOUND candidate is not in this campaign

# Applying Votes

Service.ApplyVote re-reads the campaign on every attempt and asks the Store
to commit against the revision it evaluated. Stale snapshots are retried with
exponential backoff (cenkalti/backoff) up to a bounded attempt count; then
ErrConflict is returned and the vote's fate is unknown.

# Window Transition

Observe closes an open campaign once now >= end_at. It is composed into
every read accessor of Service and the transition is persisted best-effort.
Nothing ever opens a campaign except SetStatus.

# Projection

Project, AllowanceFor and CountdownFor derive read-only views:

	p := voting.Project(campaign, now)
	// p.TotalVotes, p.TurnoutPct, p.PerCandidate, p.TimeRemaining

Percentages are zero when their denominator is zero.
*/
package voting
