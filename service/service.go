// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
)

// Notifier receives a change event after every successful mutation.
type Notifier interface {
	Notify(event models.LiveEvent)
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(m *metrics.MetricService) Option {
	return func(s *Service) { s.metrics = m }
}

// Service implements the user directory, poll store, voting engine,
// reaction toggle and comment threads over one *sql.DB.
type Service struct {
	db        *sql.DB
	now       func() time.Time
	notifier  Notifier
	metrics   *metrics.MetricService
	sanitizer *bluemonday.Policy
}

func New(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		now:       time.Now,
		sanitizer: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (s *Service) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Service) notify(eventType, pollID string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(models.LiveEvent{Type: eventType, PollID: pollID})
}

// nowUTC is stored for created_at columns; UTC keeps text timestamps in
// SQLite sortable.
func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}

// containsMarkup reports whether text carries HTML elements, comments or a
// doctype. Text is stored as written, so stray angle brackets such as
// "x<y and y>z" or "<T any>" are fine; only names the HTML parser knows
// count as markup.
func (s *Service) containsMarkup(text string) bool {
	// plain text comes back from the strict policy merely escaped
	if s.sanitizer.Sanitize(text) == html.EscapeString(text) {
		return false
	}

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.CommentToken, html.DoctypeToken:
			return true
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) != 0 {
				return true
			}
		}
	}
}

func requireActor(actor *models.User) error {
	if actor == nil || actor.ID == "" {
		return ErrUnauthorized
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// trimmedOrNil returns nil for nil or blank input.
func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	return optional(*p)
}
