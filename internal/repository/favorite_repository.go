package repository

import (
	"context"

	"favorite-feed/internal/domain/entity"
)

// FavoriteRepository is the Favorite Store. The unique constraint on
// (actor_id, target_kind, target_id) lives in storage; Create reports a
// collision with it as entity.ErrConflict.
type FavoriteRepository interface {
	// Create inserts the favorite and fills in ID and CreatedAt.
	Create(ctx context.Context, fav *entity.Favorite) error
	// Exists is an advisory pre-check; it may race with concurrent creates.
	Exists(ctx context.Context, actorID int64, target entity.Target) (bool, error)
	// DeleteOwned removes the actor's favorite on target and reports whether a row was deleted.
	DeleteOwned(ctx context.Context, actorID int64, target entity.Target) (bool, error)
	// ListByActor returns the actor's favorites of one kind ordered by id.
	ListByActor(ctx context.Context, actorID int64, kind entity.TargetKind) ([]*entity.Favorite, error)
	// ListFollowers returns the users holding a user-kind favorite on authorID,
	// ordered by favorite id.
	ListFollowers(ctx context.Context, authorID int64) ([]*entity.User, error)
}
