// Package favorite serves the favorites endpoints. Every route acts on
// behalf of the authenticated user.
package favorite

import (
	"time"

	"favorite-feed/internal/domain/entity"
)

// DTO is the JSON form of a favorite. PostID is the legacy mirror and is
// omitted for user favorites.
type DTO struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actor_id"`
	TargetKind string    `json:"target_kind"`
	TargetID   int64     `json:"target_id"`
	PostID     *int64    `json:"post_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IndexDTO groups favorites by target kind.
type IndexDTO struct {
	Posts []DTO `json:"posts"`
	Users []DTO `json:"users"`
}

func toDTO(f *entity.Favorite) DTO {
	return DTO{
		ID:         f.ID,
		ActorID:    f.ActorID,
		TargetKind: string(f.Target.Kind),
		TargetID:   f.Target.ID,
		PostID:     f.LegacyPostID,
		CreatedAt:  f.CreatedAt,
	}
}

func toDTOs(favs []*entity.Favorite) []DTO {
	out := make([]DTO, 0, len(favs))
	for _, f := range favs {
		out = append(out, toDTO(f))
	}
	return out
}
