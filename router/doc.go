// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the livepoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, hub, verifier, metricService)

Every API route is wrapped in request logging, a duration histogram labelled
with the route pattern, and session resolution. /health and /metrics are not.

# Endpoints

	GET    /health                 - Liveness
	GET    /metrics                - Prometheus scrape
	GET    /me                     - Current user or null
	POST   /polls                  - Create poll
	GET    /polls                  - Latest 50 polls
	GET    /polls/{id}             - Poll detail
	DELETE /polls/{id}             - Delete poll (creator only)
	POST   /polls/{id}/votes       - Cast or move vote
	DELETE /polls/{id}/votes       - Withdraw vote
	POST   /polls/{id}/reactions   - Toggle reaction
	GET    /polls/{id}/reactions   - Reactions grouped by emoji
	POST   /polls/{id}/comments    - Comment or reply
	GET    /polls/{id}/comments    - Comment threads
	DELETE /comments/{id}          - Delete comment (author only)
	GET    /polls/{id}/live        - WebSocket change feed
*/
package router
