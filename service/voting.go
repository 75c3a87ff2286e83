// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/livepoll/models"
)

// Vote records the actor's choice, moving any earlier vote on the same poll.
// The move is one upsert on the (poll, user) row, so no reader ever sees the
// actor holding two votes or none.
func (s *Service) Vote(ctx context.Context, actor *models.User, pollID, optionID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	var switched bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		poll, err := getPollRow(ctx, tx, pollID)
		if err != nil {
			return err
		}

		if IsExpired(poll.ExpiresAt, s.now()) {
			return ErrExpired
		}

		var exists int
		err = tx.QueryRowContext(ctx, `
			SELECT 1 FROM poll_option WHERE id = $1 AND poll_id = $2
		`, optionID, pollID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidOption
		}
		if err != nil {
			return fmt.Errorf("failed to query option: %w", err)
		}

		var current string
		err = tx.QueryRowContext(ctx, `
			SELECT option_id FROM vote WHERE poll_id = $1 AND user_id = $2
		`, pollID, actor.ID).Scan(&current)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("failed to query vote: %w", err)
		case current == optionID:
			return ErrAlreadyVoted
		default:
			switched = true
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (poll_id, user_id, option_id, voted_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (poll_id, user_id) DO UPDATE SET
				option_id = EXCLUDED.option_id,
				voted_at = EXCLUDED.voted_at
		`, pollID, actor.ID, optionID, s.nowUTC())
		if err != nil {
			return fmt.Errorf("failed to record vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncVotesCast()
	s.notify(models.EventVotesChanged, pollID)
	slog.Info("vote cast", "poll_id", pollID, "option_id", optionID, "user_id", actor.ID, "switched", switched)

	return nil
}

// RemoveVote withdraws the actor's vote on a poll. Withdrawing is allowed
// after expiry and is a no-op when there is no vote.
func (s *Service) RemoveVote(ctx context.Context, actor *models.User, pollID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getPollRow(ctx, tx, pollID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM vote WHERE poll_id = $1 AND user_id = $2
		`, pollID, actor.ID)
		if err != nil {
			return fmt.Errorf("failed to remove vote: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		s.metrics.IncVotesRemoved()
		s.notify(models.EventVotesChanged, pollID)
		slog.Info("vote removed", "poll_id", pollID, "user_id", actor.ID)
	}

	return nil
}
