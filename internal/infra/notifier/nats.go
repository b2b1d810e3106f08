package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/observability/logging"
)

// DefaultNATSSubject is where new post notifications are published.
const DefaultNATSSubject = "notifications.new_post"

// MsgPublisher is the part of *nats.Conn the notifier needs.
type MsgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATSNotifier publishes envelopes for a downstream mailer to consume.
type NATSNotifier struct {
	pub     MsgPublisher
	subject string
}

// NewNATSNotifier publishes on subject, or DefaultNATSSubject when empty.
func NewNATSNotifier(pub MsgPublisher, subject string) *NATSNotifier {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	return &NATSNotifier{pub: pub, subject: subject}
}

// NotifyNewPost publishes the envelope with the trace context in the message headers.
func (n *NATSNotifier) NotifyNewPost(ctx context.Context, recipient *entity.User, msg Message) error {
	if recipient == nil {
		return ErrMissingRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(NewEnvelope(recipient, msg))
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	m := &nats.Msg{
		Subject: n.subject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(m.Header))

	if err := n.pub.PublishMsg(m); err != nil {
		return fmt.Errorf("publish %s: %w", n.subject, err)
	}

	logging.WithRequestID(ctx, slog.Default()).Debug("notification published",
		slog.String("subject", n.subject),
		slog.Int64("recipient_id", recipient.ID))
	return nil
}
