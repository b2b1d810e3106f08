package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/observability/logging"
	"favorite-feed/internal/observability/metrics"
	"favorite-feed/internal/repository"
)

// Publisher is told about every newly created post.
// notify.Service satisfies it.
type Publisher interface {
	NotifyNewPost(ctx context.Context, post *entity.Post) error
}

// CreateInput represents the input parameters for publishing a post.
type CreateInput struct {
	AuthorID  int64
	Title     string
	Body      string
	ImagePath string
}

// UpdateInput represents the input parameters for editing a post.
// Fields with nil values are left unchanged.
type UpdateInput struct {
	ID        int64
	ActorID   int64
	Title     *string
	Body      *string
	ImagePath *string
}

// Service provides post management use cases.
type Service struct {
	Repo repository.PostRepository
	// Publisher may be nil, in which case no fanout is scheduled.
	Publisher Publisher
}

// Create validates and persists a post, then hands it to the publisher.
// The fanout runs asynchronously; its outcome never affects the result.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Post, error) {
	p := &entity.Post{
		AuthorID:  in.AuthorID,
		Title:     in.Title,
		Body:      in.Body,
		ImagePath: in.ImagePath,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	metrics.RecordPostPublished()

	if s.Publisher != nil {
		if err := s.Publisher.NotifyNewPost(ctx, p); err != nil {
			logging.WithRequestID(ctx, slog.Default()).Warn("post fanout not scheduled",
				slog.Int64("post_id", p.ID),
				slog.Int64("author_id", p.AuthorID),
				slog.Any("error", err))
		}
	}
	return p, nil
}

// Get retrieves a single post by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidPostID
	}

	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]*entity.Post, error) {
	posts, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Update applies in to the post. Only the author may update it.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Post, error) {
	p, err := s.owned(ctx, in.ID, in.ActorID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Body != nil {
		p.Body = *in.Body
	}
	if in.ImagePath != nil {
		p.ImagePath = *in.ImagePath
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// Delete removes the post and every favorite targeting it.
// Only the author may delete it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if _, err := s.owned(ctx, id, actorID); err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	metrics.RecordPostDeleted()
	return nil
}

func (s *Service) owned(ctx context.Context, id, actorID int64) (*entity.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAuthoredBy(actorID) {
		return nil, ErrForbidden
	}
	return p, nil
}
