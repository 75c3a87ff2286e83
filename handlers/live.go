// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/livepoll/live"
	"github.com/danielhkuo/livepoll/service"
)

type LiveHandler struct {
	svc *service.Service
	hub *live.Hub
}

func NewLiveHandler(svc *service.Service, hub *live.Hub) *LiveHandler {
	return &LiveHandler{svc: svc, hub: hub}
}

// Subscribe handles GET /polls/{id}/live
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if _, err := h.svc.GetPoll(r.Context(), pollID); err != nil {
		writeServiceError(w, err, "Failed to load poll")
		return
	}

	h.hub.ServeWS(w, r, pollID)
}
