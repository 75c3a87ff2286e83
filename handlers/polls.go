// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/service"
)

type PollHandler struct {
	svc *service.Service
}

func NewPollHandler(svc *service.Service) *PollHandler {
	return &PollHandler{svc: svc}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, service.ErrUnauthorized.Error())
		return
	}

	var req models.CreatePollRequest
	if !parseBody(w, r, &req) {
		return
	}

	pollID, err := h.svc.CreatePoll(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, err, "Failed to create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{PollID: pollID})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.svc.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to load poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.svc.ListPolls(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list polls")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// DeletePoll handles DELETE /polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if err := h.svc.DeletePoll(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, err, "Failed to delete poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
