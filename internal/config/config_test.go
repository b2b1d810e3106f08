package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func baseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://app@localhost/favorites")
	t.Setenv("JWT_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, FanoutConfig{Workers: 4, QueueSize: 256, SendTimeout: 30 * time.Second}, cfg.Fanout)
	assert.False(t, cfg.Notify.Webhook.Enabled)
	assert.False(t, cfg.Notify.NATS.Enabled)
	assert.Equal(t, "notifications.new_post", cfg.Notify.NATS.Subject)
}

func TestLoad_EnvOverrides(t *testing.T) {
	baseEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("FANOUT_WORKERS", "8")
	t.Setenv("FANOUT_SEND_TIMEOUT", "5s")
	t.Setenv("NOTIFY_WEBHOOK_ENABLED", "true")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://relay.example.com/send")
	t.Setenv("NOTIFY_WEBHOOK_TOKEN", "relay-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 8, cfg.Fanout.Workers)
	assert.Equal(t, 5*time.Second, cfg.Fanout.SendTimeout)

	wh := cfg.Notify.WebhookConfig()
	assert.True(t, wh.Enabled)
	assert.Equal(t, "https://relay.example.com/send", wh.URL)
	assert.Equal(t, "relay-token", wh.AuthToken)
	assert.Equal(t, 10*time.Second, wh.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL is required"},
		{"weak secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"zero workers", map[string]string{"FANOUT_WORKERS": "0"}, "FANOUT_WORKERS"},
		{"sample ratio", map[string]string{"TRACE_SAMPLE_RATIO": "2"}, "TRACE_SAMPLE_RATIO"},
		{"webhook without url", map[string]string{"NOTIFY_WEBHOOK_ENABLED": "true"}, "webhook url"},
		{"webhook relative url", map[string]string{"NOTIFY_WEBHOOK_ENABLED": "true", "NOTIFY_WEBHOOK_URL": "/send"}, "webhook url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadNotifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
webhook:
  enabled: true
  url: https://relay.example.com/send
  timeout: 3s
  burst: 2
nats:
  enabled: true
  url: nats://nats:4222
circuit_breaker:
  min_requests: 4
  open_timeout: 30s
`), 0o600))

	cfg, err := LoadNotifyFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, 2, cfg.Webhook.Burst)
	// unset keys keep their defaults
	assert.Equal(t, float64(20), cfg.Webhook.RequestsPerSecond)
	assert.Equal(t, "notifications.new_post", cfg.NATS.Subject)

	bc := cfg.BreakerFor("webhook")
	assert.Equal(t, "notify-webhook", bc.Name)
	assert.Equal(t, uint32(4), bc.MinRequests)
	assert.Equal(t, 0.5, bc.FailureThreshold)
	assert.Equal(t, 30*time.Second, bc.Timeout)
}

func TestLoadNotifyFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadNotifyFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read notify config")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("webhook: [unterminated"), 0o600))
	_, err = LoadNotifyFile(bad)
	assert.ErrorContains(t, err, "parse notify config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("circuit_breaker:\n  failure_threshold: 1.5\n"), 0o600))
	_, err = LoadNotifyFile(invalid)
	assert.ErrorContains(t, err, "failure_threshold")
}

func TestLoad_FileThenEnv(t *testing.T) {
	baseEnv(t)
	path := filepath.Join(t.TempDir(), "notify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nats:\n  enabled: true\n  subject: from.file\n"), 0o600))
	t.Setenv("NOTIFY_CONFIG_PATH", path)
	t.Setenv("NOTIFY_NATS_SUBJECT", "from.env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Notify.NATS.Enabled)
	assert.Equal(t, "from.env", cfg.Notify.NATS.Subject)
}
