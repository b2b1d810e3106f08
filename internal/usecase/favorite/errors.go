// Package favorite implements the polymorphic favorite use cases: an actor
// favorites a post or another user, removes that favorite, and lists what they
// have favorited.
package favorite

import (
	"errors"

	"favorite-feed/internal/domain/entity"
)

// Sentinel errors for favorite use case operations.
var (
	// ErrInvalidActor wraps the ValidationError produced for a non-positive actor id.
	ErrInvalidActor = errors.New("invalid actor")

	// ErrInvalidTarget wraps the ValidationError produced for an unknown target
	// kind or a non-positive target id.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrSelfReference is returned when an actor favorites their own user.
	// It is the entity-level ValidationError so the field ("user") survives.
	ErrSelfReference = entity.ErrSelfReference

	// ErrTargetNotFound indicates that the favorited post or user does not exist.
	ErrTargetNotFound = errors.New("target not found")

	// ErrAlreadyExists indicates that the actor already favorited the target.
	ErrAlreadyExists = errors.New("favorite already exists")

	// ErrFavoriteNotFound indicates that the actor holds no favorite on the target.
	ErrFavoriteNotFound = errors.New("favorite not found")
)
