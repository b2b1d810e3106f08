package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"favorite-feed/internal/infra/notifier"
	"favorite-feed/internal/resilience/circuitbreaker"
	envcfg "favorite-feed/pkg/config"
)

// NotifyConfig configures the notification channels. It is read from the
// YAML file named by NOTIFY_CONFIG_PATH:
//
//	webhook:
//	  enabled: true
//	  url: https://mail-relay.internal/v1/send
//	  timeout: 10s
//	  requests_per_second: 20
//	  burst: 5
//	nats:
//	  enabled: true
//	  url: nats://nats:4222
//	  subject: notifications.new_post
//	circuit_breaker:
//	  min_requests: 10
//	  failure_threshold: 0.5
//	  open_timeout: 1m
type NotifyConfig struct {
	Webhook WebhookSettings `yaml:"webhook"`
	NATS    NATSSettings    `yaml:"nats"`
	Breaker BreakerSettings `yaml:"circuit_breaker"`
}

type WebhookSettings struct {
	Enabled           bool          `yaml:"enabled"`
	URL               string        `yaml:"url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	// AuthToken is never read from the file; set NOTIFY_WEBHOOK_TOKEN.
	AuthToken string `yaml:"-"`
}

type NATSSettings struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type BreakerSettings struct {
	MinRequests      uint32        `yaml:"min_requests"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
}

// DefaultNotifyConfig has both channels off.
func DefaultNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Webhook: WebhookSettings{
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             5,
		},
		NATS: NATSSettings{
			URL:     "nats://127.0.0.1:4222",
			Subject: notifier.DefaultNATSSubject,
		},
	}
}

// LoadNotifyFile parses path over the defaults.
// The path comes from the operator's environment, not from requests.
func LoadNotifyFile(path string) (*NotifyConfig, error) {
	// #nosec G304 -- operator supplied path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notify config: %w", err)
	}

	cfg := DefaultNotifyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse notify config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("notify config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyEnv lets NOTIFY_* variables override the file.
func (c *NotifyConfig) applyEnv() {
	c.Webhook.Enabled = envcfg.GetEnvBool("NOTIFY_WEBHOOK_ENABLED", c.Webhook.Enabled)
	c.Webhook.URL = envcfg.GetEnvString("NOTIFY_WEBHOOK_URL", c.Webhook.URL)
	c.Webhook.Timeout = envcfg.GetEnvDuration("NOTIFY_WEBHOOK_TIMEOUT", c.Webhook.Timeout)
	c.Webhook.AuthToken = envcfg.GetEnvString("NOTIFY_WEBHOOK_TOKEN", c.Webhook.AuthToken)

	c.NATS.Enabled = envcfg.GetEnvBool("NOTIFY_NATS_ENABLED", c.NATS.Enabled)
	c.NATS.URL = envcfg.GetEnvString("NOTIFY_NATS_URL", c.NATS.URL)
	c.NATS.Subject = envcfg.GetEnvString("NOTIFY_NATS_SUBJECT", c.NATS.Subject)
}

// Validate only checks enabled channels.
func (c *NotifyConfig) Validate() error {
	var errs []error
	if c.Webhook.Enabled {
		if u, err := url.Parse(c.Webhook.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("webhook url %q must be an absolute http(s) URL", c.Webhook.URL))
		}
		if err := envcfg.ValidateDurationRange(c.Webhook.Timeout, 100*time.Millisecond, 5*time.Minute); err != nil {
			errs = append(errs, fmt.Errorf("webhook timeout: %w", err))
		}
		if c.Webhook.RequestsPerSecond <= 0 || c.Webhook.Burst <= 0 {
			errs = append(errs, errors.New("webhook requests_per_second and burst must be positive"))
		}
	}
	if c.NATS.Enabled {
		if c.NATS.URL == "" {
			errs = append(errs, errors.New("nats url is required when nats is enabled"))
		}
		if c.NATS.Subject == "" {
			errs = append(errs, errors.New("nats subject is required when nats is enabled"))
		}
	}
	if t := c.Breaker.FailureThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("circuit_breaker failure_threshold must be between 0 and 1, got %v", t))
	}
	if c.Breaker.OpenTimeout < 0 {
		errs = append(errs, errors.New("circuit_breaker open_timeout cannot be negative"))
	}
	return errors.Join(errs...)
}

// WebhookConfig converts the settings for notifier.NewWebhookNotifier.
func (c NotifyConfig) WebhookConfig() notifier.WebhookConfig {
	return notifier.WebhookConfig{
		Enabled:           c.Webhook.Enabled,
		URL:               c.Webhook.URL,
		AuthToken:         c.Webhook.AuthToken,
		Timeout:           c.Webhook.Timeout,
		RequestsPerSecond: c.Webhook.RequestsPerSecond,
		Burst:             c.Webhook.Burst,
	}
}

// BreakerFor returns the breaker settings for one channel: the channel
// defaults with any non-zero file values applied.
func (c NotifyConfig) BreakerFor(channel string) circuitbreaker.Config {
	cfg := circuitbreaker.ChannelConfig(channel)
	if c.Breaker.MinRequests > 0 {
		cfg.MinRequests = c.Breaker.MinRequests
	}
	if c.Breaker.FailureThreshold > 0 {
		cfg.FailureThreshold = c.Breaker.FailureThreshold
	}
	if c.Breaker.OpenTimeout > 0 {
		cfg.Timeout = c.Breaker.OpenTimeout
	}
	return cfg
}
