package domain

import "errors"

var (
	// ErrNotFound is returned for an unknown post or profile id.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPosted is returned when an operation targets a post that has
	// already transitioned to posted.
	ErrAlreadyPosted = errors.New("post already published")

	// ErrInvalidState is returned when a lifecycle transition is not allowed
	// from the post's current status.
	ErrInvalidState = errors.New("invalid post state")
)
