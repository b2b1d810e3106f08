package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/observability/metrics"
	"favorite-feed/internal/repository"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique constraint hit.
const uniqueViolation = "23505"

type FavoriteRepo struct{ db *sql.DB }

func NewFavoriteRepo(db *sql.DB) repository.FavoriteRepository {
	return &FavoriteRepo{db: db}
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

func scanFavorite(rows *sql.Rows) (*entity.Favorite, error) {
	var (
		f      entity.Favorite
		kind   string
		postID sql.NullInt64
	)
	if err := rows.Scan(&f.ID, &f.ActorID, &kind, &f.Target.ID, &postID, &f.CreatedAt); err != nil {
		return nil, err
	}
	k, err := entity.ParseTargetKind(kind)
	if err != nil {
		return nil, err
	}
	f.Target.Kind = k
	if postID.Valid {
		id := postID.Int64
		f.LegacyPostID = &id
	}
	return &f, nil
}

func (repo *FavoriteRepo) Create(ctx context.Context, fav *entity.Favorite) error {
	defer observe("favorite_create", time.Now())

	if fav == nil {
		return fmt.Errorf("Create: favorite is nil")
	}
	if err := fav.Validate(); err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	const query = `
INSERT INTO favorites
       (actor_id, target_kind, target_id, post_id, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	var postID sql.NullInt64
	if fav.LegacyPostID != nil {
		postID = sql.NullInt64{Int64: *fav.LegacyPostID, Valid: true}
	}

	err := repo.db.QueryRowContext(ctx, query,
		fav.ActorID, string(fav.Target.Kind), fav.Target.ID, postID, fav.CreatedAt,
	).Scan(&fav.ID, &fav.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("Create: %w", entity.ErrConflict)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *FavoriteRepo) Exists(ctx context.Context, actorID int64, target entity.Target) (bool, error) {
	defer observe("favorite_exists", time.Now())

	const query = `
SELECT EXISTS(
  SELECT 1 FROM favorites
  WHERE actor_id = $1 AND target_kind = $2 AND target_id = $3
)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, actorID, string(target.Kind), target.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("Exists: %w", err)
	}
	return exists, nil
}

// DeleteOwned scopes the delete to the actor so a favorite can only be removed by its owner.
func (repo *FavoriteRepo) DeleteOwned(ctx context.Context, actorID int64, target entity.Target) (bool, error) {
	defer observe("favorite_delete", time.Now())

	const query = `
DELETE FROM favorites
WHERE actor_id = $1 AND target_kind = $2 AND target_id = $3`
	res, err := repo.db.ExecContext(ctx, query, actorID, string(target.Kind), target.ID)
	if err != nil {
		return false, fmt.Errorf("DeleteOwned: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteOwned: %w", err)
	}
	return n > 0, nil
}

func (repo *FavoriteRepo) ListByActor(ctx context.Context, actorID int64, kind entity.TargetKind) ([]*entity.Favorite, error) {
	defer observe("favorite_list", time.Now())

	const query = `
SELECT id, actor_id, target_kind, target_id, post_id, created_at
FROM favorites
WHERE actor_id = $1 AND target_kind = $2
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, actorID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("ListByActor: %w", err)
	}
	defer func() { _ = rows.Close() }()

	favorites := make([]*entity.Favorite, 0)
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByActor: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (repo *FavoriteRepo) ListFollowers(ctx context.Context, authorID int64) ([]*entity.User, error) {
	defer observe("followers_of", time.Now())

	const query = `
SELECT u.id, u.name, u.email, u.created_at
FROM favorites f
JOIN users u ON u.id = f.actor_id
WHERE f.target_kind = 'user' AND f.target_id = $1
ORDER BY f.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("ListFollowers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListFollowers: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
