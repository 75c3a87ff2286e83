// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

// Poll limits
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
	MinOptions        = 2
	MaxOptions        = 10
	MaxOptionLen      = 200
	ListPollsLimit    = 50
)

var themeColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const pollColumns = `id, title, description, creator_id, expires_at, theme_color, created_at`

func scanPoll(row rowScanner) (*models.Poll, error) {
	var p models.Poll
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &description, &p.CreatorID, &p.ExpiresAt, &p.ThemeColor, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Description = stringPtr(description)
	return &p, nil
}

// validatedPoll is a CreatePollRequest after trimming and defaulting.
type validatedPoll struct {
	title       string
	description *string
	options     []string
	expiresAt   int64
	themeColor  string
}

// validateCreatePoll checks the request in a fixed order and stops at the
// first failure.
func (s *Service) validateCreatePoll(req models.CreatePollRequest) (validatedPoll, error) {
	var v validatedPoll

	v.title = strings.TrimSpace(req.Title)
	if v.title == "" {
		return v, validationErr("title is required")
	}
	if utf8.RuneCountInString(v.title) > MaxTitleLen {
		return v, validationErr("title must be at most %d characters", MaxTitleLen)
	}

	v.description = trimmedOrNil(req.Description)
	if v.description != nil && utf8.RuneCountInString(*v.description) > MaxDescriptionLen {
		return v, validationErr("description must be at most %d characters", MaxDescriptionLen)
	}

	if len(req.Options) < MinOptions {
		return v, validationErr("at least %d options are required", MinOptions)
	}
	if len(req.Options) > MaxOptions {
		return v, validationErr("at most %d options are allowed", MaxOptions)
	}

	seen := make(map[string]bool, len(req.Options))
	for i, raw := range req.Options {
		opt := strings.TrimSpace(raw)
		if opt == "" {
			return v, validationErr("option %d cannot be empty", i+1)
		}
		if utf8.RuneCountInString(opt) > MaxOptionLen {
			return v, validationErr("option %d must be at most %d characters", i+1, MaxOptionLen)
		}
		if seen[opt] {
			return v, validationErr("duplicate option %q", opt)
		}
		seen[opt] = true
		v.options = append(v.options, opt)
	}

	if req.ExpiresAt <= s.now().UnixMilli() {
		return v, validationErr("expiration must be in the future")
	}
	v.expiresAt = req.ExpiresAt

	v.themeColor = models.DefaultThemeColor
	if c := trimmedOrNil(req.ThemeColor); c != nil {
		if !themeColorPattern.MatchString(*c) {
			return v, validationErr("theme color must be a hex colour like #3b82f6")
		}
		v.themeColor = *c
	}

	return v, nil
}

// CreatePoll validates the request and stores the poll with its options in
// one transaction. Returns the new poll id.
func (s *Service) CreatePoll(ctx context.Context, actor *models.User, req models.CreatePollRequest) (string, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}

	v, err := s.validateCreatePoll(req)
	if err != nil {
		return "", err
	}

	pollID := auth.GenerateID()
	now := s.nowUTC()

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll (id, title, description, creator_id, expires_at, theme_color, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, pollID, v.title, nullString(v.description), actor.ID, v.expiresAt, v.themeColor, now)
		if err != nil {
			return fmt.Errorf("failed to insert poll: %w", err)
		}

		for i, text := range v.options {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO poll_option (id, poll_id, text, position)
				VALUES ($1, $2, $3, $4)
			`, auth.GenerateID(), pollID, text, i)
			if err != nil {
				return fmt.Errorf("failed to insert option: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.metrics.IncPollsCreated()
	slog.Info("poll created", "poll_id", pollID, "creator_id", actor.ID, "options", len(v.options))

	return pollID, nil
}

// GetPoll returns the poll with options, creator and tallies resolved.
func (s *Service) GetPoll(ctx context.Context, pollID string) (*models.PollDetail, error) {
	poll, err := getPollRow(ctx, s.db, pollID)
	if err != nil {
		return nil, err
	}

	return s.enrichPoll(ctx, s.db, newUserCache(s.db), poll)
}

// ListPolls returns the newest polls, each enriched like GetPoll.
func (s *Service) ListPolls(ctx context.Context) ([]models.PollDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pollColumns+`
		FROM poll
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, ListPollsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}

	var polls []*models.Poll
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}
	rows.Close()

	users := newUserCache(s.db)
	details := make([]models.PollDetail, 0, len(polls))
	for _, p := range polls {
		d, err := s.enrichPoll(ctx, s.db, users, p)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}

	return details, nil
}

// DeletePoll removes the poll and everything attached to it in one
// transaction. Only the creator may delete.
func (s *Service) DeletePoll(ctx context.Context, actor *models.User, pollID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		poll, err := getPollRow(ctx, tx, pollID)
		if err != nil {
			return err
		}
		if poll.CreatorID != actor.ID {
			return fmt.Errorf("%w: only the creator can delete this poll", ErrForbidden)
		}

		steps := []struct {
			what  string
			query string
		}{
			{"votes", `DELETE FROM vote WHERE poll_id = $1`},
			{"options", `DELETE FROM poll_option WHERE poll_id = $1`},
			{"comments", `DELETE FROM comment WHERE poll_id = $1`},
			{"reactions", `DELETE FROM reaction WHERE poll_id = $1`},
			{"poll", `DELETE FROM poll WHERE id = $1`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, pollID); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.what, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncPollsDeleted()
	s.notify(models.EventPollDeleted, pollID)
	slog.Info("poll deleted", "poll_id", pollID, "actor_id", actor.ID)

	return nil
}

func getPollRow(ctx context.Context, q querier, pollID string) (*models.Poll, error) {
	poll, err := scanPoll(q.QueryRowContext(ctx, `SELECT `+pollColumns+` FROM poll WHERE id = $1`, pollID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("poll")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}
	return poll, nil
}

// pollOptions returns the options of a poll in position order.
func pollOptions(ctx context.Context, q querier, pollID string) ([]models.PollOption, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, poll_id, text, position
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		opt.Votes = []string{}
		options = append(options, opt)
	}

	return options, rows.Err()
}

// pollVotes maps option id to voter ids, in voting order.
func pollVotes(ctx context.Context, q querier, pollID string) (map[string][]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT option_id, user_id
		FROM vote
		WHERE poll_id = $1
		ORDER BY voted_at, user_id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[string][]string)
	for rows.Next() {
		var optionID, userID string
		if err := rows.Scan(&optionID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes[optionID] = append(votes[optionID], userID)
	}

	return votes, rows.Err()
}

func (s *Service) enrichPoll(ctx context.Context, q querier, users *userCache, poll *models.Poll) (*models.PollDetail, error) {
	options, err := pollOptions(ctx, q, poll.ID)
	if err != nil {
		return nil, err
	}

	votes, err := pollVotes(ctx, q, poll.ID)
	if err != nil {
		return nil, err
	}
	for i := range options {
		if voters, ok := votes[options[i].ID]; ok {
			options[i].Votes = voters
		}
	}

	creator, err := users.get(ctx, poll.CreatorID)
	if err != nil {
		return nil, err
	}

	detail := &models.PollDetail{
		Poll:    *poll,
		Options: options,
		Creator: creator,
	}
	tally(detail, s.now())

	return detail, nil
}
