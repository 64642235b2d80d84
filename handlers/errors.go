// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/campaign-vote/cliparse"
	"github.com/danielhkuo/campaign-vote/middleware"
	"github.com/danielhkuo/campaign-vote/voting"
)

// storeContext bounds storage I/O for one request.
func storeContext(r *http.Request, cfg cliparse.Config) (context.Context, context.CancelFunc) {
	if cfg.StoreTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), cfg.StoreTimeout)
}

// writeError maps an engine error to a status code and JSON body.
// Infrastructure detail is logged, never returned.
func writeError(w http.ResponseWriter, err error, action string) {
	var de *voting.DenyError
	switch {
	case errors.As(err, &de):
		code := http.StatusBadRequest
		if de.Reason == voting.ReasonCampaignNotFound || de.Reason == voting.ReasonCandidateNotFound {
			code = http.StatusNotFound
		}
		middleware.ReasonResponse(w, code, string(de.Reason), de.Message())

	case errors.Is(err, voting.ErrNotFound):
		middleware.ReasonResponse(w, http.StatusNotFound, string(voting.ReasonCampaignNotFound), "Campaign not found")

	case errors.Is(err, voting.ErrCandidateNotFound):
		middleware.ReasonResponse(w, http.StatusNotFound, string(voting.ReasonCandidateNotFound), "Candidate not found")

	case errors.Is(err, voting.ErrDuplicateName):
		middleware.ErrorResponse(w, http.StatusConflict, "A candidate with that name already exists")

	case errors.Is(err, voting.ErrInvalid):
		msg := strings.TrimPrefix(err.Error(), voting.ErrInvalid.Error()+": ")
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)

	case errors.Is(err, voting.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, "Vote could not be confirmed; check your remaining votes before retrying")

	case errors.Is(err, voting.ErrUnavailable):
		slog.Error("storage unavailable", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Service temporarily unavailable")

	case errors.Is(err, voting.ErrInvariant):
		slog.Error("invariant violation", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")

	default:
		slog.Error("unexpected error", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
