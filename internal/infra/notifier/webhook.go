package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/observability/logging"
)

// WebhookConfig configures delivery through an HTTP mail relay.
type WebhookConfig struct {
	Enabled bool

	// URL is the relay endpoint that accepts an Envelope as JSON.
	URL string

	// AuthToken, if set, is sent as a bearer token.
	AuthToken string

	// Timeout bounds one HTTP request.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the token bucket in front of the relay.
	RequestsPerSecond float64
	Burst             int
}

// ErrMissingRecipient is returned when a notifier is asked to send to nobody.
var ErrMissingRecipient = errors.New("recipient is nil")

// maxResponseBody caps how much of a relay response is read.
const maxResponseBody = 64 << 10

// WebhookNotifier posts envelopes to a mail relay.
type WebhookNotifier struct {
	config      WebhookConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

func NewWebhookNotifier(config WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(config.RequestsPerSecond, config.Burst),
	}
}

// NotifyNewPost waits for a rate limiter token and posts the envelope once.
//
// Errors are *RateLimitError for 429, *ClientError for other 4xx and
// *ServerError for 5xx. Nothing is retried here.
func (w *WebhookNotifier) NotifyNewPost(ctx context.Context, recipient *entity.User, msg Message) error {
	if recipient == nil {
		return ErrMissingRecipient
	}
	logger := logging.WithRequestID(ctx, slog.Default())

	if err := w.rateLimiter.Allow(ctx); err != nil {
		logger.Warn("mail relay rate limiter wait aborted",
			slog.Int64("recipient_id", recipient.ID),
			slog.Any("error", err))
		return fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	if err := w.post(ctx, NewEnvelope(recipient, msg)); err != nil {
		logger.Warn("mail relay request failed",
			slog.Int64("recipient_id", recipient.ID),
			slog.String("subject", msg.Subject),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return err
	}

	logger.Debug("mail relay accepted notification",
		slog.Int64("recipient_id", recipient.ID),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (w *WebhookNotifier) post(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+w.config.AuthToken)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	return classifyResponse(resp, body)
}
