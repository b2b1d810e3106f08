package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/repository"
)

type PostRepo struct{ db *sql.DB }

func NewPostRepo(db *sql.DB) repository.PostRepository {
	return &PostRepo{db: db}
}

func (repo *PostRepo) Get(ctx context.Context, id int64) (*entity.Post, error) {
	const query = `
SELECT id, author_id, title, body, image_path, created_at, updated_at
FROM posts
WHERE id = $1
LIMIT 1`
	var (
		p     entity.Post
		image sql.NullString
	)
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Body, &image, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	p.ImagePath = image.String
	return &p, nil
}

func (repo *PostRepo) List(ctx context.Context) ([]*entity.Post, error) {
	const query = `
SELECT id, author_id, title, body, image_path, created_at, updated_at
FROM posts
ORDER BY created_at DESC, id DESC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*entity.Post, 0)
	for rows.Next() {
		var (
			p     entity.Post
			image sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		p.ImagePath = image.String
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (repo *PostRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("Exists: %w", err)
	}
	return exists, nil
}

func (repo *PostRepo) Create(ctx context.Context, post *entity.Post) error {
	const query = `
INSERT INTO posts
       (author_id, title, body, image_path, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query,
		post.AuthorID, post.Title, post.Body, nullString(post.ImagePath),
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *PostRepo) Update(ctx context.Context, post *entity.Post) error {
	const query = `
UPDATE posts SET
       title      = $1,
       body       = $2,
       image_path = $3,
       updated_at = NOW()
WHERE id = $4
RETURNING updated_at`
	err := repo.db.QueryRowContext(ctx, query,
		post.Title, post.Body, nullString(post.ImagePath), post.ID,
	).Scan(&post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete removes the favorites targeting the post before the post itself so
// no favorite is left pointing at a missing row.
func (repo *PostRepo) Delete(ctx context.Context, id int64) (err error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Delete: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteFavorites = `DELETE FROM favorites WHERE target_kind = 'post' AND target_id = $1`
	if _, err = tx.ExecContext(ctx, deleteFavorites, id); err != nil {
		return fmt.Errorf("Delete: favorites: %w", err)
	}

	const deletePost = `DELETE FROM posts WHERE id = $1`
	res, err := tx.ExecContext(ctx, deletePost, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("Delete: %w", entity.ErrNotFound)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("Delete: commit: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
