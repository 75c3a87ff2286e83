// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package service implements livepoll's domain operations over *sql.DB.

	svc := service.New(db, service.WithNotifier(hub), service.WithMetrics(m))

Mutating operations take the acting user first; a nil actor yields
ErrUnauthorized. Each mutation runs in one transaction, then bumps its
counter, notifies the live hub and logs.

# Polls

CreatePoll, GetPoll, ListPolls (newest 50) and DeletePoll (creator only,
removes options, votes, comments and reactions with the poll).

# Voting

A user holds at most one vote per poll. Vote moves it with a single upsert;
voting for the current option returns ErrAlreadyVoted. Expired polls reject
votes with ErrExpired but still allow RemoveVote.

Tallies are derived on read: per-option counts, rounded percentages, the
expiry label ("expires 3 hours from now") and, once expired, the winner.

# Reactions and Comments

AddReaction toggles the actor's single reaction on a poll. Comments allow
one level of replies; deleting a top-level comment deletes its replies.
Bodies are stored as written; ones carrying HTML markup are rejected
with ErrMarkup.

# Errors

Sentinels (ErrNotFound, ErrForbidden, ...) are wrapped with detail via
fmt.Errorf("%w: ..."), so callers test with errors.Is.
*/
package service
