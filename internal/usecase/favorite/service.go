package favorite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/observability/metrics"
	"favorite-feed/internal/repository"
)

// TargetLookup resolves whether a target of one kind exists.
// repository.PostRepository and repository.UserRepository both satisfy it.
type TargetLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Grouped is an actor's favorites split by target kind.
type Grouped struct {
	Posts []*entity.Favorite
	Users []*entity.Favorite
}

// Service provides favorite use cases.
type Service struct {
	Repo repository.FavoriteRepository
	// Targets holds one lookup per target kind. A kind without a lookup is rejected.
	Targets map[entity.TargetKind]TargetLookup
	// Now is used for CreatedAt; defaults to time.Now.
	Now func() time.Time
}

// NewService wires the lookup table from the post and user stores.
func NewService(repo repository.FavoriteRepository, posts repository.PostRepository, users repository.UserRepository) *Service {
	return &Service{
		Repo: repo,
		Targets: map[entity.TargetKind]TargetLookup{
			entity.TargetPost: posts,
			entity.TargetUser: users,
		},
	}
}

// Create records that actorID favorites target.
//
// The Exists pre-check only saves a write; two concurrent creates can both
// pass it, in which case the store's unique constraint rejects the second and
// Create still reports ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, actorID int64, target entity.Target) (*entity.Favorite, error) {
	if err := validate(actorID, target); err != nil {
		return nil, err
	}
	if target.Kind == entity.TargetUser && target.ID == actorID {
		metrics.RecordFavoriteRejected("self")
		return nil, ErrSelfReference
	}

	if err := s.ensureTarget(ctx, target); err != nil {
		if errors.Is(err, ErrTargetNotFound) {
			metrics.RecordFavoriteRejected("not_found")
		}
		return nil, err
	}

	exists, err := s.Repo.Exists(ctx, actorID, target)
	if err != nil {
		return nil, fmt.Errorf("check favorite: %w", err)
	}
	if exists {
		metrics.RecordFavoriteRejected("duplicate")
		return nil, ErrAlreadyExists
	}

	fav, err := entity.NewFavorite(actorID, target, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, fav); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			metrics.RecordFavoriteRejected("duplicate")
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	metrics.RecordFavoriteCreated(string(target.Kind))
	return fav, nil
}

// Destroy removes the actor's favorite on target.
// Returns ErrFavoriteNotFound when the actor holds no such favorite.
func (s *Service) Destroy(ctx context.Context, actorID int64, target entity.Target) error {
	if err := validate(actorID, target); err != nil {
		return err
	}

	deleted, err := s.Repo.DeleteOwned(ctx, actorID, target)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if !deleted {
		return ErrFavoriteNotFound
	}
	metrics.RecordFavoriteDeleted(string(target.Kind))
	return nil
}

// List returns the actor's favorites of one kind, ordered by id.
func (s *Service) List(ctx context.Context, actorID int64, kind entity.TargetKind) ([]*entity.Favorite, error) {
	if actorID <= 0 {
		return nil, invalidActor()
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget,
			&entity.ValidationError{Field: "target_kind", Message: fmt.Sprintf("invalid target kind %q", string(kind))})
	}

	favs, err := s.Repo.ListByActor(ctx, actorID, kind)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// ListGrouped returns the actor's post and user favorites.
func (s *Service) ListGrouped(ctx context.Context, actorID int64) (*Grouped, error) {
	posts, err := s.List(ctx, actorID, entity.TargetPost)
	if err != nil {
		return nil, err
	}
	users, err := s.List(ctx, actorID, entity.TargetUser)
	if err != nil {
		return nil, err
	}
	return &Grouped{Posts: posts, Users: users}, nil
}

func (s *Service) ensureTarget(ctx context.Context, target entity.Target) error {
	lookup, ok := s.Targets[target.Kind]
	if !ok || lookup == nil {
		return fmt.Errorf("%w: no lookup for kind %q", ErrInvalidTarget, string(target.Kind))
	}
	exists, err := lookup.Exists(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", target, err)
	}
	if !exists {
		return ErrTargetNotFound
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func validate(actorID int64, target entity.Target) error {
	if actorID <= 0 {
		return invalidActor()
	}
	if err := target.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	return nil
}

func invalidActor() error {
	return fmt.Errorf("%w: %w", ErrInvalidActor, &entity.ValidationError{Field: "actor_id", Message: "must be positive"})
}
