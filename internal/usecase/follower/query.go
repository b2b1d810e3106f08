// Package follower answers "who follows this author": every user holding a
// user-kind favorite that targets the author.
package follower

import (
	"context"
	"errors"
	"fmt"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/repository"
)

// ErrNilAuthor is returned when FollowersOf is called without an author.
var ErrNilAuthor = errors.New("author is nil")

// Query resolves followers from the favorite store.
type Query struct {
	Repo repository.FavoriteRepository
}

// FollowersOf returns the author's followers as a snapshot taken at call time.
// Users who only favorited the author's posts are not followers. The order is
// by favorite id but callers must not depend on it.
func (q *Query) FollowersOf(ctx context.Context, author *entity.User) ([]*entity.User, error) {
	if author == nil {
		return nil, ErrNilAuthor
	}
	if author.ID <= 0 {
		return nil, &entity.ValidationError{Field: "author_id", Message: "must be positive"}
	}

	followers, err := q.Repo.ListFollowers(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return followers, nil
}
