// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/campaign-vote/cliparse"
	"github.com/danielhkuo/campaign-vote/middleware"
	"github.com/danielhkuo/campaign-vote/models"
	"github.com/danielhkuo/campaign-vote/voting"
)

type ResultsHandler struct {
	svc *voting.Service
	cfg cliparse.Config
}

func NewResultsHandler(svc *voting.Service, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: svc, cfg: cfg}
}

// Stats handles GET /campaigns/{id}/stats
func (h *ResultsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	p, err := h.svc.Stats(ctx, id)
	if err != nil {
		writeError(w, err, "campaign stats")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, statsResponse(p))
}

// TimeRemaining handles GET /campaigns/{id}/time-remaining
func (h *ResultsHandler) TimeRemaining(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	cd, err := h.svc.Countdown(ctx, id)
	if err != nil {
		writeError(w, err, "time remaining")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TimeRemainingResponse{
		RemainingMS:     cd.Remaining.Milliseconds(),
		TotalMS:         cd.Total.Milliseconds(),
		PercentComplete: cd.PercentComplete,
		Status:          cd.Status,
		StartAt:         cd.StartAt,
		EndAt:           cd.EndAt,
		Remaining:       durationParts(cd.Remaining),
		Total:           durationParts(cd.Total),
		RemainingHuman:  humanRemaining(cd.Remaining),
	})
}

// Report handles GET /reports/campaigns
func (h *ResultsHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	projections, err := h.svc.Report(ctx)
	if err != nil {
		writeError(w, err, "campaign report")
		return
	}

	report := make([]models.StatsResponse, 0, len(projections))
	for _, p := range projections {
		report = append(report, statsResponse(p))
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

func statsResponse(p voting.Projection) models.StatsResponse {
	return models.StatsResponse{
		CampaignID:         p.CampaignID,
		Title:              p.Title,
		Status:             p.Status,
		TotalVotes:         p.TotalVotes,
		TotalVoters:        p.TotalVoters,
		DistinctVoters:     p.DistinctVoters,
		TurnoutPct:         p.TurnoutPct,
		PerCandidate:       p.PerCandidate,
		TimeRemainingMS:    p.TimeRemaining.Milliseconds(),
		TimeRemainingHuman: humanRemaining(p.TimeRemaining),
	}
}

// humanRemaining renders d as e.g. "3 hours remaining".
func humanRemaining(d time.Duration) string {
	if d <= 0 {
		return "closed"
	}
	now := time.Now()
	return humanize.RelTime(now, now.Add(d), "remaining", "")
}

func durationParts(d time.Duration) models.DurationParts {
	if d < 0 {
		d = 0
	}
	return models.DurationParts{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d % (24 * time.Hour) / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
	}
}
