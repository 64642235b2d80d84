// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the campaign voting API.

# Handler Types

Each handler is a struct holding the voting service and config:

  - CampaignHandler: campaign and candidate administration, campaign reads
  - VotingHandler: vote casting and remaining quota
  - ResultsHandler: stats, countdown and the cross-campaign report

	campaignHandler := handlers.NewCampaignHandler(svc, cfg)

Every request runs its storage calls under cfg.StoreTimeout.

# Voting Flow

	POST /campaigns/{id}/vote/{candidateId} → CastVote
	GET  /campaigns/{id}/votes-available    → VotesAvailable

The caller's voter id comes from the identity middleware.Authenticate
stored in the request context.

# Error Mapping

Eligibility denials carry a stable reason code in the "reason" field:

	400 CAMPAIGN_NOT_OPEN, OUTSIDE_WINDOW, QUOTA_EXHAUSTED
	404 CAMPAIGN_NOT_FOUND, CANDIDATE_NOT_FOUND

Validation failures are 400, duplicate candidate names 409, exhausted vote
retries 409, storage failures 503 and ledger invariant violations 500.
Storage and invariant errors are logged; the response only says what class
of failure occurred.
*/
package handlers
