// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

livepoll is a social polling service: signed-in users create multiple-choice
polls with an expiry, vote (one vote per user, movable until expiry), react
with emoji and discuss in comment threads. Clients follow a poll over a
WebSocket feed that announces each change.

# Starting the Server

	DATABASE_URL=livepoll.db SESSION_JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_JWT_SECRET (--jwt-secret): HS256 key for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SESSION_JWT_ISSUER (--jwt-issuer): expected iss claim
  - ALLOWED_ORIGIN (--allowed-origin): CORS and WebSocket origin

A .env file in the working directory is loaded first when present.

# Architecture

  - service: user directory, poll store, voting, reactions, comments
  - handlers: HTTP request handlers over the service
  - router: Route definitions using Go 1.22+ routing
  - middleware: sessions, logging, metrics, CORS, JSON helpers
  - live: WebSocket hub for per-poll change events
  - metrics: Prometheus collectors
  - auth: session token verification and ids
  - db: driver selection and schema
  - cliparse: Configuration parsing
  - models: Request/response and domain types
*/
package main
