// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/service"
)

type CommentHandler struct {
	svc *service.Service
}

func NewCommentHandler(svc *service.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// AddComment handles POST /polls/{id}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, service.ErrUnauthorized.Error())
		return
	}

	var req models.AddCommentRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.PollID = r.PathValue("id")

	commentID, err := h.svc.AddComment(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, err, "Failed to add comment")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddCommentResponse{CommentID: commentID})
}

// GetPollComments handles GET /polls/{id}/comments
func (h *CommentHandler) GetPollComments(w http.ResponseWriter, r *http.Request) {
	threads, err := h.svc.GetPollComments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to load comments")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, threads)
}

// DeleteComment handles DELETE /comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if err := h.svc.DeleteComment(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, err, "Failed to delete comment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
