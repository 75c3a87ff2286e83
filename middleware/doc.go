// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

Wrap handlers with request logging and duration metrics:

	mux.HandleFunc("GET /polls", middleware.WithLogging(
		middleware.WithMetrics(m, "GET /polls", handler)))

Logs request start (method, path, remote) and completion (status,
duration_ms). Both wrappers pass WebSocket hijacking through.

# Session Actor

WithActor verifies an "Authorization: Bearer" session token and resolves
it to a directory user, which handlers read back with ActorFromContext:

	actor := middleware.ActorFromContext(r.Context()) // nil when anonymous

A missing token means an anonymous request; an invalid one is a 401.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin)(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
