package repository

import (
	"context"

	"favorite-feed/internal/domain/entity"
)

type UserRepository interface {
	// Get returns (nil, nil) when the user does not exist.
	Get(ctx context.Context, id int64) (*entity.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
