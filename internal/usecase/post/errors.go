// Package post implements post publication and management. Creating a post
// schedules the follower fanout.
package post

import (
	"errors"
	"fmt"

	"favorite-feed/internal/domain/entity"
)

// Sentinel errors for post use case operations.
var (
	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidPostID indicates a non-positive post id. It matches
	// entity.ErrInvalidInput.
	ErrInvalidPostID = fmt.Errorf("invalid post ID: %w", entity.ErrInvalidInput)

	// ErrForbidden indicates that the actor is not the post's author.
	ErrForbidden = errors.New("only the author may modify this post")
)
