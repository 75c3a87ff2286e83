// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreatePollRequest: title, description, options, expires_at, theme_color
  - VoteRequest: option_id
  - AddReactionRequest: emoji
  - AddCommentRequest: body, author_name, parent_id

# Response Types

  - CreatePollResponse: poll_id
  - SuccessResponse: success
  - AddReactionResponse: success, removed
  - AddCommentResponse: comment_id
  - ErrorResponse: error, message

# Domain Types

  - User: identity-provider mirror
  - Poll, PollOption, PollDetail: a poll and its resolved options and tallies
  - Reaction, ReactionGroup: stored reactions and the per-emoji grouping
  - Comment, CommentThread, CommentReply: discussion, one level of replies
  - LiveEvent: change notification pushed to live subscribers

Optional values are pointers so that absent fields are omitted rather than
sent as empty strings. ExpiresAt is epoch milliseconds.
*/
package models
