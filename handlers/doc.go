// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the livepoll API.

# Handler Types

Each handler is a thin struct over *service.Service:

  - PollHandler: create, list, get and delete polls
  - VotingHandler: cast, move and withdraw a vote
  - ReactionHandler: toggle and list emoji reactions
  - CommentHandler: comment threads with one level of replies
  - UserHandler: the current session user
  - LiveHandler: WebSocket subscription to a poll's change feed

	pollHandler := handlers.NewPollHandler(svc)

# Actor

Handlers read the acting user with middleware.ActorFromContext. A nil actor
means the request carried no session token; mutating operations answer 401.

# Errors

Service errors map onto statuses in one place (statusFor):

	ErrUnauthorized                   → 401
	ErrForbidden                      → 403
	ErrNotFound                       → 404
	ErrExpired                        → 410
	ErrAlreadyVoted                   → 409
	ErrValidation, ErrInvalidOption,
	ErrInvalidParent                  → 400
	anything else                     → 500 (logged, generic message)
*/
package handlers
