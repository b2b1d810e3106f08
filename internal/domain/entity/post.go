package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters accepted in a post title.
const MaxTitleLength = 255

// Post is authored content. Every post has exactly one author.
type Post struct {
	ID        int64
	AuthorID  int64
	Title     string
	Body      string
	ImagePath string // opaque reference owned by the image storage collaborator
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a post must carry before it is persisted.
func (p *Post) Validate() error {
	if p.AuthorID <= 0 {
		return &ValidationError{Field: "author_id", Message: "must be positive"}
	}
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength),
		}
	}
	if strings.TrimSpace(p.Body) == "" {
		return &ValidationError{Field: "body", Message: "is required"}
	}
	return nil
}

// IsAuthoredBy reports whether userID wrote the post.
func (p *Post) IsAuthoredBy(userID int64) bool {
	return p.AuthorID == userID
}
