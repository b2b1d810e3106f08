package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"favorite-feed/internal/config"
	"favorite-feed/internal/infra/notifier"
	"favorite-feed/internal/usecase/notify"
)

// buildChannels creates the mail relay and NATS channels. Disabled channels
// are still registered so /health lists them. The returned func drains the
// NATS connection, if any.
func buildChannels(logger *slog.Logger, cfg config.NotifyConfig) ([]notify.Channel, func(), error) {
	closeFn := func() {}

	webhook := notify.NewNotifierChannel("webhook",
		notifier.NewWebhookNotifier(cfg.WebhookConfig()), cfg.Webhook.Enabled)

	var natsNotifier notifier.Notifier
	if cfg.NATS.Enabled {
		nc, err := nats.Connect(cfg.NATS.URL,
			nats.Name(serviceName),
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.Warn("nats disconnected", slog.Any("error", err))
				}
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				logger.Info("nats reconnected", slog.String("url", c.ConnectedUrl()))
			}),
		)
		if err != nil {
			return nil, closeFn, fmt.Errorf("connect nats: %w", err)
		}
		natsNotifier = notifier.NewNATSNotifier(nc, cfg.NATS.Subject)
		closeFn = func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("failed to drain nats connection", slog.Any("error", err))
			}
		}
	}
	natsChannel := notify.NewNotifierChannel("nats", natsNotifier, cfg.NATS.Enabled)

	logger.Info("notification channels configured",
		slog.Bool("webhook", webhook.IsEnabled()),
		slog.Bool("nats", natsChannel.IsEnabled()))

	return []notify.Channel{webhook, natsChannel}, closeFn, nil
}
