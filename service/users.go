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

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

const userColumns = `id, external_id, name, image_url, email, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var name, imageURL, email sql.NullString
	if err := row.Scan(&u.ID, &u.ExternalID, &name, &imageURL, &email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Name = stringPtr(name)
	u.ImageURL = stringPtr(imageURL)
	u.Email = stringPtr(email)
	return &u, nil
}

// UpsertUser creates or refreshes the directory entry for an identity,
// keyed by its external id.
func (s *Service) UpsertUser(ctx context.Context, id auth.Identity) (*models.User, error) {
	externalID := strings.TrimSpace(id.ExternalID)
	if externalID == "" {
		return nil, validationErr("external id is required")
	}

	name := optional(id.DisplayName())
	imageURL := optional(id.ImageURL)
	email := optional(id.Email)
	now := s.nowUTC()

	var user *models.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_user (id, external_id, name, image_url, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (external_id) DO UPDATE SET
				name = EXCLUDED.name,
				image_url = EXCLUDED.image_url,
				email = EXCLUDED.email,
				updated_at = EXCLUDED.updated_at
		`, auth.GenerateID(), externalID, nullString(name), nullString(imageURL), nullString(email), now, now)
		if err != nil {
			return fmt.Errorf("failed to upsert user: %w", err)
		}

		user, err = scanUser(tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM app_user WHERE external_id = $1`, externalID))
		if err != nil {
			return fmt.Errorf("failed to reload user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUserByExternalID removes a directory entry. A missing entry is
// logged and ignored.
func (s *Service) DeleteUserByExternalID(ctx context.Context, externalID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM app_user WHERE external_id = $1`, externalID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.Warn("can't delete user, none for external id", "external_id", externalID)
		return nil
	}

	slog.Info("user deleted", "external_id", externalID)
	return nil
}

// UserByExternalID looks up a directory entry by identity-provider id.
func (s *Service) UserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE external_id = $1`, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// ResolveActor maps a verified session identity to the acting user,
// creating or refreshing the directory entry on the way.
func (s *Service) ResolveActor(ctx context.Context, id auth.Identity) (*models.User, error) {
	return s.UpsertUser(ctx, id)
}

// userByID returns nil without error when the user no longer exists.
func userByID(ctx context.Context, q querier, id string) (*models.User, error) {
	user, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// userCache resolves each user id at most once per read.
type userCache struct {
	q     querier
	users map[string]*models.User
}

func newUserCache(q querier) *userCache {
	return &userCache{q: q, users: make(map[string]*models.User)}
}

func (c *userCache) get(ctx context.Context, id string) (*models.User, error) {
	if u, ok := c.users[id]; ok {
		return u, nil
	}
	u, err := userByID(ctx, c.q, id)
	if err != nil {
		return nil, err
	}
	c.users[id] = u
	return u, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
