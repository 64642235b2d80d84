// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CampaignRequest: title, description, votes_per_voter, start_at, end_at
  - SetStatusRequest: status
  - AddCandidateRequest: name, description

# Response Types

Types for JSON responses:

  - CastVoteResponse: votes_remaining, message
  - VotesAvailableResponse: votes_available, votes_cast, total_allowed
  - StatsResponse: live tally with turnout and time remaining
  - TimeRemainingResponse: countdown for the voting window
  - ErrorResponse: error, message, reason

# Domain Types

  - Campaign: one voting event with its window, quota and candidates
  - Candidate: a votable entry with its running tally
  - Ledger: votes cast per voter, used to enforce the quota

The ledger is tagged json:"-" so voter identities never leave the server.

# Constants

Status values:

	StatusOpen   = "open"
	StatusClosed = "closed"

Roles:

	RoleAdmin = "admin"
	RoleVoter = "voter"
*/
package models
