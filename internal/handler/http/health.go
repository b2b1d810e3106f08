// Package http holds the HTTP middleware, health probes and metrics endpoint
// shared by the favorite and post handlers.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"favorite-feed/internal/usecase/notify"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ChannelHealth reports notification channel state.
type ChannelHealth interface {
	GetChannelHealth() []notify.ChannelHealthStatus
}

// HealthHandler serves GET /health. Only the database decides between 200
// and 503; a notification channel with an open circuit marks the service
// degraded since posting and favoriting keep working.
type HealthHandler struct {
	DB      *sql.DB
	Notify  ChannelHealth
	Version string
	Logger  *slog.Logger
	Timeout time.Duration
	Now     func() time.Time
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	checks := make(map[string]CheckStatus, 2)
	healthy := true

	if h.DB == nil {
		checks["database"] = CheckStatus{Status: statusUnhealthy, Message: "not configured"}
		healthy = false
	} else {
		checks["database"] = h.checkDatabase(ctx)
		if checks["database"].Status == statusUnhealthy {
			healthy = false
		}
	}

	if h.Notify != nil {
		checks["notifications"] = h.checkNotifications()
	}

	status, code := statusHealthy, http.StatusOK
	if !healthy {
		status, code = statusUnhealthy, http.StatusServiceUnavailable
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}); err != nil {
		h.logger().Warn("health: encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// checkDatabase pings and reports pool statistics. A pool above 80%
// utilization is degraded.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		h.logger().Error("health: database ping failed", slog.Any("error", err))
		return CheckStatus{Status: statusUnhealthy, Message: "database unreachable"}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	// 0 means unlimited
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{Status: statusHealthy, Details: details}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80 {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

func (h *HealthHandler) checkNotifications() CheckStatus {
	channels := h.Notify.GetChannelHealth()
	status := statusHealthy
	var open []string
	for _, ch := range channels {
		if ch.Enabled && ch.CircuitBreakerOpen {
			status = statusDegraded
			open = append(open, ch.Name)
		}
	}

	cs := CheckStatus{
		Status:  status,
		Details: map[string]any{"channels": channels},
	}
	if len(open) > 0 {
		cs.Details["open_circuits"] = open
		cs.Message = "notification delivery paused on some channels"
	}
	return cs
}

// ReadyHandler serves GET /ready: 200 once the database answers a ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler serves GET /live and always answers 200.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
