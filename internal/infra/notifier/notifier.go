// Package notifier delivers rendered notifications to recipients.
//
// Implementations: WebhookNotifier posts a JSON mail envelope to a mail relay,
// NATSNotifier publishes the same envelope to a NATS subject, and NoOpNotifier
// stands in for a disabled transport.
package notifier

import (
	"context"

	"favorite-feed/internal/domain/entity"
)

// Notifier sends one message to one recipient.
type Notifier interface {
	// NotifyNewPost delivers msg to recipient. It makes a single attempt;
	// callers decide what a failure means.
	NotifyNewPost(ctx context.Context, recipient *entity.User, msg Message) error
}

// Action is the call to action rendered as a button or link.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Message is a transport-neutral notification.
type Message struct {
	Kind     string         `json:"kind"`
	Subject  string         `json:"subject"`
	Greeting string         `json:"greeting"`
	Lines    []string       `json:"lines"`
	Action   Action         `json:"action"`
	Data     map[string]any `json:"data"`
}

// Recipient is the addressing part of an Envelope.
type Recipient struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Envelope is the JSON document sent by the webhook and NATS notifiers.
type Envelope struct {
	To Recipient `json:"to"`
	Message
}

// NewEnvelope addresses msg to recipient.
func NewEnvelope(recipient *entity.User, msg Message) Envelope {
	return Envelope{
		To: Recipient{
			ID:    recipient.ID,
			Name:  recipient.Name,
			Email: recipient.Email,
		},
		Message: msg,
	}
}
