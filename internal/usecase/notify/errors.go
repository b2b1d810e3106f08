package notify

import (
	"errors"

	"favorite-feed/internal/infra/notifier"
)

// Sentinel errors for notify use case operations.
var (
	// ErrChannelDisabled indicates that Send was called on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidRecipient indicates a nil recipient or one without an id.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrNotificationDropped indicates that a fanout task was not queued
	// because the queue was full or the service was shutting down.
	ErrNotificationDropped = errors.New("notification dropped")

	// ErrCircuitBreakerOpen indicates that the channel's circuit breaker is open
	// and sends on it are being skipped.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")

	// ErrSendPanic wraps a panic recovered from a channel's Send.
	ErrSendPanic = errors.New("channel send panicked")
)

// recipientScoped reports whether err concerns one recipient rather than the
// transport: a relay 4xx other than 429, or an unusable recipient. These are
// failures for that follower only and do not count against the breaker.
func recipientScoped(err error) bool {
	var clientErr *notifier.ClientError
	return errors.As(err, &clientErr) ||
		errors.Is(err, ErrInvalidRecipient) ||
		errors.Is(err, notifier.ErrMissingRecipient)
}
