// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

// MaxEmojiLen bounds the stored emoji in bytes; flag and ZWJ sequences fit.
const MaxEmojiLen = 32

// AddReaction toggles the actor's reaction on a poll. An existing reaction
// is removed whatever emoji is submitted this time; otherwise a new one is
// stored. Reports whether a reaction was removed.
func (s *Service) AddReaction(ctx context.Context, actor *models.User, pollID, emoji string) (bool, error) {
	if err := requireActor(actor); err != nil {
		return false, err
	}

	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return false, validationErr("emoji is required")
	}
	if len(emoji) > MaxEmojiLen {
		return false, validationErr("emoji must be at most %d bytes", MaxEmojiLen)
	}

	var removed bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getPollRow(ctx, tx, pollID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM reaction WHERE poll_id = $1 AND user_id = $2
		`, pollID, actor.ID)
		if err != nil {
			return fmt.Errorf("failed to delete reaction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete reaction: %w", err)
		}
		if n > 0 {
			removed = true
			return nil
		}

		// a concurrent toggle may have inserted meanwhile; keep its row
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reaction (id, poll_id, emoji, user_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (poll_id, user_id) DO NOTHING
		`, auth.GenerateID(), pollID, emoji, actor.ID, s.nowUTC())
		if err != nil {
			return fmt.Errorf("failed to insert reaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.metrics.IncReactionToggled(removed)
	s.notify(models.EventReactionsChanged, pollID)
	slog.Info("reaction toggled", "poll_id", pollID, "user_id", actor.ID, "emoji", emoji, "removed", removed)

	return removed, nil
}

// GetPollReactions groups a poll's reactions by emoji, in order of each
// emoji's first use.
func (s *Service) GetPollReactions(ctx context.Context, pollID string) ([]models.ReactionGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT emoji, user_id
		FROM reaction
		WHERE poll_id = $1
		ORDER BY created_at, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	groups := []models.ReactionGroup{}
	index := make(map[string]int)
	for rows.Next() {
		var emoji string
		var userID sql.NullString
		if err := rows.Scan(&emoji, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}

		i, ok := index[emoji]
		if !ok {
			i = len(groups)
			index[emoji] = i
			groups = append(groups, models.ReactionGroup{Emoji: emoji, UserIDs: []string{}})
		}
		groups[i].Count++
		if userID.Valid {
			groups[i].UserIDs = append(groups[i].UserIDs, userID.String)
		}
	}

	return groups, rows.Err()
}
