package models

import "time"

// DefaultThemeColor is applied when a poll is created without a colour.
const DefaultThemeColor = "#3b82f6"

// Live event types
const (
	EventPollDeleted      = "poll_deleted"
	EventVotesChanged     = "votes_changed"
	EventReactionsChanged = "reactions_changed"
	EventCommentsChanged  = "comments_changed"
)

// Request types

type CreatePollRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Options     []string `json:"options"`
	ExpiresAt   int64    `json:"expires_at"` // epoch milliseconds
	ThemeColor  *string  `json:"theme_color,omitempty"`
}

type VoteRequest struct {
	OptionID string `json:"option_id"`
}

type AddReactionRequest struct {
	Emoji string `json:"emoji"`
}

type AddCommentRequest struct {
	PollID     string  `json:"-"` // taken from the path
	Body       string  `json:"body"`
	AuthorName *string `json:"author_name,omitempty"`
	ParentID   *string `json:"parent_id,omitempty"`
}

// Response types

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type AddReactionResponse struct {
	Success bool `json:"success"`
	Removed bool `json:"removed"`
}

type AddCommentResponse struct {
	CommentID string `json:"comment_id"`
}

// Domain types

type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       *string   `json:"name,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Email      *string   `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Poll struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatorID   string    `json:"creator_id"`
	ExpiresAt   int64     `json:"expires_at"` // epoch milliseconds
	ThemeColor  string    `json:"theme_color"`
	CreatedAt   time.Time `json:"created_at"`
}

// PollOption carries the derived voter set of one option.
type PollOption struct {
	ID         string   `json:"id"`
	PollID     string   `json:"poll_id"`
	Text       string   `json:"text"`
	Position   int      `json:"position"`
	Votes      []string `json:"votes"` // voter user ids
	VoteCount  int      `json:"vote_count"`
	Percentage int      `json:"percentage"`
}

// PollDetail is a poll with its options, creator and tallies resolved.
type PollDetail struct {
	Poll
	Options      []PollOption `json:"poll_options"`
	Creator      *User        `json:"creator"`
	TotalVotes   int          `json:"total_votes"`
	Expired      bool         `json:"expired"`
	ExpiresLabel string       `json:"expires_label"`
	WinnerID     *string      `json:"winner_id,omitempty"`
}

type Reaction struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	Emoji     string    `json:"emoji"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReactionGroup struct {
	Emoji   string   `json:"emoji"`
	Count   int      `json:"count"`
	UserIDs []string `json:"user_ids"`
}

type Comment struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id"`
	AuthorID   *string   `json:"author_id,omitempty"`
	AuthorName *string   `json:"author_name,omitempty"`
	Body       string    `json:"body"`
	ParentID   *string   `json:"parent_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type CommentReply struct {
	Comment
	Author *User `json:"author"`
}

type CommentThread struct {
	Comment
	Author  *User          `json:"author"`
	Replies []CommentReply `json:"replies"`
}

// LiveEvent is pushed to subscribers of a poll after a mutation.
type LiveEvent struct {
	Type   string `json:"type"`
	PollID string `json:"poll_id"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
