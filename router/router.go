// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/live"
	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/service"
)

func NewRouter(svc *service.Service, hub *live.Hub, verifier *auth.Verifier, m *metrics.MetricService) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)
	reactionHandler := handlers.NewReactionHandler(svc)
	commentHandler := handlers.NewCommentHandler(svc)
	userHandler := handlers.NewUserHandler()
	liveHandler := handlers.NewLiveHandler(svc, hub)

	// handle registers pattern behind logging, metrics and session resolution.
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(
			middleware.WithMetrics(m, pattern, middleware.WithActor(verifier, svc, h)),
		))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape
	mux.Handle("GET /metrics", m.Handler())

	// Session
	handle("GET /me", userHandler.Me)

	// Polls
	handle("POST /polls", pollHandler.CreatePoll)
	handle("GET /polls", pollHandler.ListPolls)
	handle("GET /polls/{id}", pollHandler.GetPoll)
	handle("DELETE /polls/{id}", pollHandler.DeletePoll)

	// Voting
	handle("POST /polls/{id}/votes", votingHandler.Vote)
	handle("DELETE /polls/{id}/votes", votingHandler.RemoveVote)

	// Reactions
	handle("POST /polls/{id}/reactions", reactionHandler.AddReaction)
	handle("GET /polls/{id}/reactions", reactionHandler.GetPollReactions)

	// Comments
	handle("POST /polls/{id}/comments", commentHandler.AddComment)
	handle("GET /polls/{id}/comments", commentHandler.GetPollComments)
	handle("DELETE /comments/{id}", commentHandler.DeleteComment)

	// Live feed
	handle("GET /polls/{id}/live", liveHandler.Subscribe)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
