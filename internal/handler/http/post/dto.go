// Package post serves the post endpoints. Creating a post schedules the
// follower notification fanout without waiting for it.
package post

import (
	"time"

	"favorite-feed/internal/domain/entity"
)

// DTO is the JSON form of a post.
type DTO struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ImagePath string `json:"image_path"`
}

// updateRequest leaves absent fields unchanged.
type updateRequest struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	ImagePath *string `json:"image_path"`
}

func toDTO(p *entity.Post) DTO {
	return DTO{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Body:      p.Body,
		ImagePath: p.ImagePath,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
