// Package config assembles the process configuration from environment
// variables and an optional YAML file for notification channels.
package config

import (
	"errors"
	"fmt"
	"time"

	"favorite-feed/internal/handler/http/auth"
	envcfg "favorite-feed/pkg/config"
)

// AppConfig is everything cmd/api needs to start.
type AppConfig struct {
	HTTPAddr        string
	BaseURL         string
	DatabaseURL     string
	JWTSecret       string
	Version         string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// TraceSampleRatio is the fraction of root spans recorded.
	TraceSampleRatio float64
	// StatsInterval drives the DB pool gauges and SLO ratios.
	StatsInterval time.Duration

	Fanout FanoutConfig
	Notify NotifyConfig
}

// FanoutConfig sizes the notification worker pool.
type FanoutConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Load reads the environment, overlays NOTIFY_CONFIG_PATH when set, applies
// the NOTIFY_* variables on top and validates the result.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:         envcfg.GetEnvString("HTTP_ADDR", ":8080"),
		BaseURL:          envcfg.GetEnvString("APP_BASE_URL", "http://localhost:8080"),
		DatabaseURL:      envcfg.GetEnvString("DATABASE_URL", ""),
		JWTSecret:        envcfg.GetEnvString("JWT_SECRET", ""),
		Version:          envcfg.GetEnvString("APP_VERSION", "dev"),
		LogLevel:         envcfg.GetEnvString("LOG_LEVEL", "info"),
		LogFormat:        envcfg.GetEnvString("LOG_FORMAT", "json"),
		ShutdownTimeout:  envcfg.GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		TraceSampleRatio: envcfg.GetEnvFloat("TRACE_SAMPLE_RATIO", 1),
		StatsInterval:    envcfg.GetEnvDuration("STATS_INTERVAL", 15*time.Second),
		Fanout: FanoutConfig{
			Workers:     envcfg.GetEnvInt("FANOUT_WORKERS", 4),
			QueueSize:   envcfg.GetEnvInt("FANOUT_QUEUE_SIZE", 256),
			SendTimeout: envcfg.GetEnvDuration("FANOUT_SEND_TIMEOUT", 30*time.Second),
		},
		Notify: DefaultNotifyConfig(),
	}

	if path := envcfg.GetEnvString("NOTIFY_CONFIG_PATH", ""); path != "" {
		file, err := LoadNotifyFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Notify = *file
	}
	cfg.Notify.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if err := auth.ValidateSecret(c.JWTSecret); err != nil {
		errs = append(errs, fmt.Errorf("JWT_SECRET: %w", err))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR cannot be empty"))
	}
	if err := envcfg.ValidateIntRange(c.Fanout.Workers, 1, 64); err != nil {
		errs = append(errs, fmt.Errorf("FANOUT_WORKERS: %w", err))
	}
	if err := envcfg.ValidateIntRange(c.Fanout.QueueSize, 1, 1<<16); err != nil {
		errs = append(errs, fmt.Errorf("FANOUT_QUEUE_SIZE: %w", err))
	}
	if err := envcfg.ValidatePositiveDuration(c.Fanout.SendTimeout); err != nil {
		errs = append(errs, fmt.Errorf("FANOUT_SEND_TIMEOUT: %w", err))
	}
	if err := envcfg.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	if err := envcfg.ValidatePositiveDuration(c.StatsInterval); err != nil {
		errs = append(errs, fmt.Errorf("STATS_INTERVAL: %w", err))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLE_RATIO must be between 0 and 1, got %v", c.TraceSampleRatio))
	}
	if err := c.Notify.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
