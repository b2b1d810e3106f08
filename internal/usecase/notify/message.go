package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/infra/notifier"
)

const (
	// MessageKindNewPost tags new post notifications for downstream consumers.
	MessageKindNewPost = "new_post"

	excerptLength = 100
	excerptSuffix = "..."
)

// NewPostMessage renders the notification recipient gets for post.
func NewPostMessage(post *entity.Post, author, recipient *entity.User, baseURL string) notifier.Message {
	authorName := author.DisplayName()

	return notifier.Message{
		Kind:     MessageKindNewPost,
		Subject:  "New Post from " + authorName,
		Greeting: fmt.Sprintf("Hello %s!", recipient.DisplayName()),
		Lines: []string{
			authorName + " has published a new post.",
			"Title: " + post.Title,
			"Content: " + Excerpt(post.Body),
		},
		Action: notifier.Action{
			Label: "View Post",
			URL:   PostURL(baseURL, post.ID),
		},
		Data: map[string]any{
			"post_id":   post.ID,
			"author_id": post.AuthorID,
			"title":     post.Title,
		},
	}
}

// Excerpt returns the first 100 characters of body, with "..." appended only
// when something was cut.
func Excerpt(body string) string {
	if utf8.RuneCountInString(body) <= excerptLength {
		return body
	}
	runes := []rune(body)
	return string(runes[:excerptLength]) + excerptSuffix
}

// PostURL is the public link to a post.
func PostURL(baseURL string, postID int64) string {
	return fmt.Sprintf("%s/posts/%d", strings.TrimRight(baseURL, "/"), postID)
}
