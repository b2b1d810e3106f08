package repository

import (
	"context"

	"favorite-feed/internal/domain/entity"
)

type PostRepository interface {
	// Get returns (nil, nil) when the post does not exist.
	Get(ctx context.Context, id int64) (*entity.Post, error)
	// List returns posts newest first.
	List(ctx context.Context) ([]*entity.Post, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Create persists the post and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	// Delete removes the post together with every favorite targeting it,
	// in a single transaction. Returns entity.ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, id int64) error
}
