// Package slo publishes availability and error-rate gauges computed from the
// requests served during each reporting window.
package slo

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// AvailabilitySLO is the target share of non-5xx responses, in percent.
	AvailabilitySLO = 99.9

	// ErrorRateSLO is the maximum acceptable 5xx ratio.
	ErrorRateSLO = 0.001
)

var (
	// SLOAvailability is (total - 5xx) / total over the last window.
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Current availability ratio (0-1), target: 0.999",
		},
	)

	// SLOErrorRate is 5xx / total over the last window.
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Current error rate ratio (0-1), target: 0.001",
		},
	)
)

// UpdateAvailability sets the availability gauge.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateErrorRate sets the error rate gauge.
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}

// Tracker counts responses between flushes.
type Tracker struct {
	mu     sync.Mutex
	total  uint64
	errors uint64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe records one response status.
func (t *Tracker) Observe(status int) {
	t.mu.Lock()
	t.total++
	if status >= 500 {
		t.errors++
	}
	t.mu.Unlock()
}

// Flush publishes the ratios for the current window and starts a new one.
// An empty window reports full availability.
func (t *Tracker) Flush() (availability, errorRate float64) {
	t.mu.Lock()
	total, errs := t.total, t.errors
	t.total, t.errors = 0, 0
	t.mu.Unlock()

	availability, errorRate = 1, 0
	if total > 0 {
		errorRate = float64(errs) / float64(total)
		availability = 1 - errorRate
	}
	UpdateAvailability(availability)
	UpdateErrorRate(errorRate)
	return availability, errorRate
}

// Run flushes every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Flush()
		}
	}
}
