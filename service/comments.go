// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

// Comment limits
const (
	MaxCommentLen    = 2000
	MaxAuthorNameLen = 100
)

const commentColumns = `id, poll_id, author_id, author_name, body, parent_id, created_at`

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var authorID, authorName, parentID sql.NullString
	if err := row.Scan(&c.ID, &c.PollID, &authorID, &authorName, &c.Body, &parentID, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.AuthorID = stringPtr(authorID)
	c.AuthorName = stringPtr(authorName)
	c.ParentID = stringPtr(parentID)
	return &c, nil
}

// AddComment stores a top-level comment, or a reply when ParentID is set.
// Replies may only target top-level comments of the same poll.
func (s *Service) AddComment(ctx context.Context, actor *models.User, req models.AddCommentRequest) (string, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return "", ErrEmptyBody
	}
	if utf8.RuneCountInString(body) > MaxCommentLen {
		return "", fmt.Errorf("%w: at most %d characters", ErrTooLong, MaxCommentLen)
	}
	if s.containsMarkup(body) {
		return "", ErrMarkup
	}

	authorName := trimmedOrNil(req.AuthorName)
	if authorName != nil {
		if utf8.RuneCountInString(*authorName) > MaxAuthorNameLen {
			return "", validationErr("author name must be at most %d characters", MaxAuthorNameLen)
		}
		if s.containsMarkup(*authorName) {
			return "", fmt.Errorf("%w: author name", ErrMarkup)
		}
	}

	commentID := auth.GenerateID()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getPollRow(ctx, tx, req.PollID); err != nil {
			return err
		}

		if req.ParentID != nil {
			parent, err := getCommentRow(ctx, tx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent.PollID != req.PollID {
				return ErrInvalidParent
			}
			if parent.ParentID != nil {
				return fmt.Errorf("%w: replies cannot be nested", ErrInvalidParent)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO comment (id, poll_id, author_id, author_name, body, parent_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, commentID, req.PollID, actor.ID, nullString(authorName), body, nullString(req.ParentID), s.nowUTC())
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.metrics.IncCommentsAdded()
	s.notify(models.EventCommentsChanged, req.PollID)
	slog.Info("comment added", "poll_id", req.PollID, "comment_id", commentID, "reply", req.ParentID != nil)

	return commentID, nil
}

// DeleteComment removes a comment written by the actor. Deleting a top-level
// comment also removes its replies, which would otherwise be unreachable.
func (s *Service) DeleteComment(ctx context.Context, actor *models.User, commentID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	var pollID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		comment, err := getCommentRow(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if comment.AuthorID == nil || *comment.AuthorID != actor.ID {
			return fmt.Errorf("%w: only the author can delete this comment", ErrForbidden)
		}
		pollID = comment.PollID

		if _, err := tx.ExecContext(ctx, `DELETE FROM comment WHERE parent_id = $1`, commentID); err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM comment WHERE id = $1`, commentID); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncCommentsDeleted()
	s.notify(models.EventCommentsChanged, pollID)
	slog.Info("comment deleted", "poll_id", pollID, "comment_id", commentID)

	return nil
}

// GetPollComments returns the top-level comments of a poll, newest first,
// each with its author and its replies in the order they were written.
func (s *Service) GetPollComments(ctx context.Context, pollID string) ([]models.CommentThread, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comment
		WHERE poll_id = $1
		ORDER BY created_at, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	var topLevel []*models.Comment
	replies := make(map[string][]*models.Comment)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if c.ParentID == nil {
			topLevel = append(topLevel, c)
		} else {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	rows.Close()

	users := newUserCache(s.db)
	author := func(c *models.Comment) (*models.User, error) {
		if c.AuthorID == nil {
			return nil, nil
		}
		return users.get(ctx, *c.AuthorID)
	}

	threads := make([]models.CommentThread, 0, len(topLevel))
	// newest first
	for i := len(topLevel) - 1; i >= 0; i-- {
		c := topLevel[i]
		a, err := author(c)
		if err != nil {
			return nil, err
		}

		thread := models.CommentThread{Comment: *c, Author: a, Replies: []models.CommentReply{}}
		for _, r := range replies[c.ID] {
			ra, err := author(r)
			if err != nil {
				return nil, err
			}
			thread.Replies = append(thread.Replies, models.CommentReply{Comment: *r, Author: ra})
		}
		threads = append(threads, thread)
	}

	return threads, nil
}

func getCommentRow(ctx context.Context, q querier, commentID string) (*models.Comment, error) {
	c, err := scanComment(q.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comment WHERE id = $1`, commentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("comment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query comment: %w", err)
	}
	return c, nil
}
