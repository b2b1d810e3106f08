package notifier

import (
	"context"

	"favorite-feed/internal/domain/entity"
)

// NoOpNotifier is used when a transport is disabled so callers need no nil checks.
type NoOpNotifier struct{}

func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyNewPost does nothing and returns nil.
func (n *NoOpNotifier) NotifyNewPost(context.Context, *entity.User, Message) error {
	return nil
}
