// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/campaign-vote/cliparse"
	"github.com/danielhkuo/campaign-vote/middleware"
	"github.com/danielhkuo/campaign-vote/models"
	"github.com/danielhkuo/campaign-vote/voting"
)

type VotingHandler struct {
	svc *voting.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *voting.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// CastVote handles POST /campaigns/{id}/vote/{candidateId}
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	candidateID := r.PathValue("candidateId")
	if campaignID == "" || candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id and candidate id are required")
		return
	}

	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	result, err := h.svc.ApplyVote(ctx, campaignID, id.VoterID, candidateID)
	if err != nil {
		writeError(w, err, "cast vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		VotesRemaining: result.VotesRemaining,
		Message:        "Vote recorded",
	})
}

// VotesAvailable handles GET /campaigns/{id}/votes-available
func (h *VotingHandler) VotesAvailable(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	if campaignID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	a, err := h.svc.VotesAvailable(ctx, campaignID, id.VoterID)
	if err != nil {
		writeError(w, err, "votes available")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotesAvailableResponse{
		VotesAvailable: a.VotesAvailable,
		VotesCast:      a.VotesCast,
		TotalAllowed:   a.TotalAllowed,
	})
}
