// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/campaign-vote/cliparse"
	"github.com/danielhkuo/campaign-vote/handlers"
	"github.com/danielhkuo/campaign-vote/middleware"
	"github.com/danielhkuo/campaign-vote/voting"
)

func NewRouter(svc *voting.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	campaignHandler := handlers.NewCampaignHandler(svc, cfg)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc, cfg)

	// Any verified caller
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.Authenticate(cfg.JWTSecret, h))
	}
	// Administrators only
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireAdmin(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Campaign administration
	mux.HandleFunc("POST /campaigns", admin(campaignHandler.Create))
	mux.HandleFunc("PUT /campaigns/{id}", admin(campaignHandler.Update))
	mux.HandleFunc("PATCH /campaigns/{id}/status", admin(campaignHandler.SetStatus))
	mux.HandleFunc("DELETE /campaigns/{id}", admin(campaignHandler.Delete))
	mux.HandleFunc("POST /campaigns/{id}/candidates", admin(campaignHandler.AddCandidate))
	mux.HandleFunc("DELETE /campaigns/{id}/candidates/{candidateId}", admin(campaignHandler.RemoveCandidate))

	// Campaign reads
	mux.HandleFunc("GET /campaigns", authed(campaignHandler.List))
	mux.HandleFunc("GET /campaigns/{id}", authed(campaignHandler.Get))

	// Voting
	mux.HandleFunc("POST /campaigns/{id}/vote/{candidateId}", authed(votingHandler.CastVote))
	mux.HandleFunc("GET /campaigns/{id}/votes-available", authed(votingHandler.VotesAvailable))

	// Results
	mux.HandleFunc("GET /campaigns/{id}/stats", authed(resultsHandler.Stats))
	mux.HandleFunc("GET /campaigns/{id}/time-remaining", authed(resultsHandler.TimeRemaining))
	mux.HandleFunc("GET /reports/campaigns", admin(resultsHandler.Report))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("campaign-vote API v1"))
	})

	return mux
}
