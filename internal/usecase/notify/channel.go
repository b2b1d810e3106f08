// Package notify fans a newly published post out to the author's followers.
//
// NotifyNewPost only enqueues; a fixed pool of workers resolves the author and
// the follower snapshot, then sends one message per follower per enabled
// channel. Failures are logged and counted, never returned to the publisher.
package notify

import (
	"context"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/infra/notifier"
)

// Channel is one notification transport (mail relay, NATS, ...).
//
// Implementations must be safe for concurrent use and must respect ctx.
// Send is attempted once per recipient; the service does not retry.
type Channel interface {
	// Name identifies the channel in logs, metrics and health output.
	Name() string

	// IsEnabled reports whether the channel takes part in fanouts.
	IsEnabled() bool

	// Send delivers msg to recipient.
	Send(ctx context.Context, recipient *entity.User, msg notifier.Message) error
}

// NotifierChannel adapts a notifier.Notifier to Channel.
type NotifierChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

// NewNotifierChannel wraps n. A disabled channel gets a NoOpNotifier so Send
// never touches the transport.
func NewNotifierChannel(name string, n notifier.Notifier, enabled bool) *NotifierChannel {
	if !enabled || n == nil {
		n = notifier.NewNoOpNotifier()
	}
	return &NotifierChannel{name: name, notifier: n, enabled: enabled}
}

func (c *NotifierChannel) Name() string {
	return c.name
}

func (c *NotifierChannel) IsEnabled() bool {
	return c.enabled
}

// Send returns ErrChannelDisabled on a disabled channel and ErrInvalidRecipient
// for a nil recipient; otherwise it delegates to the notifier.
func (c *NotifierChannel) Send(ctx context.Context, recipient *entity.User, msg notifier.Message) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if recipient == nil || recipient.ID <= 0 {
		return ErrInvalidRecipient
	}
	return c.notifier.NotifyNewPost(ctx, recipient, msg)
}
