// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/service"
)

type VotingHandler struct {
	svc *service.Service
}

func NewVotingHandler(svc *service.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// Vote handles POST /polls/{id}/votes
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, service.ErrUnauthorized.Error())
		return
	}

	var req models.VoteRequest
	if !parseBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.OptionID) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	if err := h.svc.Vote(r.Context(), actor, r.PathValue("id"), req.OptionID); err != nil {
		writeServiceError(w, err, "Failed to record vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// RemoveVote handles DELETE /polls/{id}/votes
func (h *VotingHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if err := h.svc.RemoveVote(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, err, "Failed to remove vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
