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

type CampaignHandler struct {
	svc *voting.Service
	cfg cliparse.Config
}

func NewCampaignHandler(svc *voting.Service, cfg cliparse.Config) *CampaignHandler {
	return &CampaignHandler{svc: svc, cfg: cfg}
}

// List handles GET /campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	campaigns, err := h.svc.List(ctx)
	if err != nil {
		writeError(w, err, "list campaigns")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, campaigns)
}

// Get handles GET /campaigns/{id}
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	c, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(w, err, "get campaign")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CampaignRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	c, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(w, err, "create campaign")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, c)
}

// Update handles PUT /campaigns/{id}
func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	var req models.CampaignRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	c, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeError(w, err, "update campaign")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// SetStatus handles PATCH /campaigns/{id}/status
func (h *CampaignHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	var req models.SetStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	c, err := h.svc.SetStatus(ctx, id, req.Status)
	if err != nil {
		writeError(w, err, "set campaign status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// Delete handles DELETE /campaigns/{id}
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(w, err, "delete campaign")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeleteResponse{Message: "Campaign deleted"})
}

// AddCandidate handles POST /campaigns/{id}/candidates
func (h *CampaignHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	cand, err := h.svc.AddCandidate(ctx, id, req)
	if err != nil {
		writeError(w, err, "add candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, cand)
}

// RemoveCandidate handles DELETE /campaigns/{id}/candidates/{candidateId}
func (h *CampaignHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	candidateID := r.PathValue("candidateId")
	if id == "" || candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campaign id and candidate id are required")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	if err := h.svc.RemoveCandidate(ctx, id, candidateID); err != nil {
		writeError(w, err, "remove candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeleteResponse{Message: "Candidate removed"})
}
