// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/service"
)

type ReactionHandler struct {
	svc *service.Service
}

func NewReactionHandler(svc *service.Service) *ReactionHandler {
	return &ReactionHandler{svc: svc}
}

// AddReaction handles POST /polls/{id}/reactions
func (h *ReactionHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, service.ErrUnauthorized.Error())
		return
	}

	var req models.AddReactionRequest
	if !parseBody(w, r, &req) {
		return
	}

	removed, err := h.svc.AddReaction(r.Context(), actor, r.PathValue("id"), req.Emoji)
	if err != nil {
		writeServiceError(w, err, "Failed to toggle reaction")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AddReactionResponse{Success: true, Removed: removed})
}

// GetPollReactions handles GET /polls/{id}/reactions
func (h *ReactionHandler) GetPollReactions(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.GetPollReactions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to load reactions")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, groups)
}
