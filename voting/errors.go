// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
)

var (
	// Store lookups
	ErrNotFound          = errors.New("campaign not found")
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrInvalid marks malformed administrator or voter input.
	ErrInvalid       = errors.New("invalid input")
	ErrDuplicateName = fmt.Errorf("%w: a candidate with that name already exists", ErrInvalid)

	// ErrConflict is returned once bounded retries are exhausted. The vote may
	// or may not have been applied; callers must re-check eligibility.
	ErrConflict = errors.New("vote conflict: outcome unknown, re-check eligibility before retrying")

	// ErrUnavailable wraps storage failures and deadlines.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrInvariant means the ledger holds more votes than the quota allows.
	ErrInvariant = errors.New("ledger invariant violated")

	// Returned by Store.RecordVote only.
	ErrStaleSnapshot = errors.New("campaign changed since snapshot")
	ErrQuotaRace     = errors.New("voter quota already used")
)

// Reason is a stable, machine-readable denial code.
type Reason string

const (
	ReasonCampaignNotFound  Reason = "CAMPAIGN_NOT_FOUND"
	ReasonCampaignNotOpen   Reason = "CAMPAIGN_NOT_OPEN"
	ReasonOutsideWindow     Reason = "OUTSIDE_WINDOW"
	ReasonQuotaExhausted    Reason = "QUOTA_EXHAUSTED"
	ReasonCandidateNotFound Reason = "CANDIDATE_NOT_FOUND"
)

var reasonMessages = map[Reason]string{
	ReasonCampaignNotFound:  "Campaign not found",
	ReasonCampaignNotOpen:   "Campaign is not open for voting",
	ReasonOutsideWindow:     "Campaign is outside its voting period",
	ReasonQuotaExhausted:    "You have used all of your votes for this campaign",
	ReasonCandidateNotFound: "Candidate not found in this campaign",
}

// DenyError is an eligibility denial.
type DenyError struct {
	Reason Reason
}

func (e *DenyError) Error() string {
	return "vote denied: " + string(e.Reason)
}

// Message returns the human-readable text for the denial.
func (e *DenyError) Message() string {
	if msg, ok := reasonMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

func deny(r Reason) error {
	return &DenyError{Reason: r}
}

// DenyReason extracts the denial reason from err, if any.
func DenyReason(err error) (Reason, bool) {
	var de *DenyError
	if errors.As(err, &de) {
		return de.Reason, true
	}
	return "", false
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, msg)
}
