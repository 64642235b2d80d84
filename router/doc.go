// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the campaign voting API.

# Route Registration

	mux := router.NewRouter(svc, cfg)

# Endpoints

Health:

	GET /health

Campaign administration (admin role):

	POST   /campaigns                               - Create campaign (closed)
	PUT    /campaigns/{id}                          - Update metadata
	PATCH  /campaigns/{id}/status                   - Open or close
	DELETE /campaigns/{id}                          - Delete with candidates and ledger
	POST   /campaigns/{id}/candidates               - Add candidate
	DELETE /campaigns/{id}/candidates/{candidateId} - Remove candidate
	GET    /reports/campaigns                       - Stats for every campaign

Any authenticated caller:

	GET  /campaigns                         - List campaigns
	GET  /campaigns/{id}                    - Campaign snapshot
	POST /campaigns/{id}/vote/{candidateId} - Cast one vote
	GET  /campaigns/{id}/votes-available    - Caller's remaining quota
	GET  /campaigns/{id}/time-remaining     - Countdown
	GET  /campaigns/{id}/stats              - Live tally

All campaign routes require an Authorization: Bearer token verified with
cfg.JWTSecret.
*/
package router
