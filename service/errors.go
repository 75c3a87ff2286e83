// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized  = errors.New("authentication required")
	ErrForbidden     = errors.New("not allowed")
	ErrNotFound      = errors.New("not found")
	ErrExpired       = errors.New("poll has expired")
	ErrInvalidOption = errors.New("option does not belong to this poll")
	ErrInvalidParent = errors.New("parent comment does not belong to this poll")
	ErrAlreadyVoted  = errors.New("already voted for this option")
	ErrValidation    = errors.New("validation failed")

	ErrEmptyBody = fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	ErrTooLong   = fmt.Errorf("%w: comment is too long", ErrValidation)
	ErrMarkup    = fmt.Errorf("%w: HTML markup is not allowed", ErrValidation)
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}
