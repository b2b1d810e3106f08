package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// noChannel labels drops that happen before any channel is chosen.
const noChannel = "none"

// Drop reasons for notification_dropped_total.
const (
	DropQueueFull   = "queue_full"
	DropShutdown    = "shutdown"
	DropCircuitOpen = "circuit_open"
)

var (
	notificationDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatched_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"channel"},
	)

	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"channel", "status"}, // status: success|failure
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_duration_seconds",
			Help:    "Notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)

	circuitBreakerOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_circuit_breaker_open_total",
			Help: "Total number of circuit breaker open events",
		},
		[]string{"channel"},
	)

	notificationDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dropped_total",
			Help: "Total number of dropped notifications",
		},
		[]string{"channel", "reason"}, // reason: queue_full|shutdown|circuit_open
	)

	fanoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_fanout_total",
			Help: "Total number of new post fanouts by outcome",
		},
		[]string{"result"}, // result: completed|author_missing|failed|panic
	)

	fanoutRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_fanout_recipients",
			Help:    "Number of followers with at least one delivered notification per fanout",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_queue_depth",
			Help: "Number of fanout tasks waiting for a worker",
		},
	)

	activeWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_active_goroutines",
			Help: "Number of workers currently processing a fanout",
		},
	)

	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_channels_enabled",
			Help: "Number of enabled notification channels",
		},
	)
)

// RecordDispatch records a send attempt on channel.
func RecordDispatch(channel string) {
	notificationDispatchedTotal.WithLabelValues(channel).Inc()
}

// RecordSuccess records a successful send and its duration.
func RecordSuccess(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "success").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordFailure records a failed send and how long it took to fail.
func RecordFailure(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "failure").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordDropped records a notification that was never attempted.
// An empty channel is reported as "none".
func RecordDropped(channel string, reason string) {
	if channel == "" {
		channel = noChannel
	}
	notificationDroppedTotal.WithLabelValues(channel, reason).Inc()
}

// RecordCircuitBreakerOpen records a channel breaker tripping to open.
func RecordCircuitBreakerOpen(channel string) {
	circuitBreakerOpenTotal.WithLabelValues(channel).Inc()
}

// RecordFanout records the outcome of one fanout task.
func RecordFanout(result string) {
	fanoutTotal.WithLabelValues(result).Inc()
}

// RecordFanoutRecipients records how many followers a fanout reached.
func RecordFanoutRecipients(n int) {
	fanoutRecipients.Observe(float64(n))
}

// SetQueueDepth sets the number of queued fanout tasks.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

// IncrementActiveGoroutines increments the active worker gauge by 1.
func IncrementActiveGoroutines() {
	activeWorkers.Inc()
}

// DecrementActiveGoroutines decrements the active worker gauge by 1.
func DecrementActiveGoroutines() {
	activeWorkers.Dec()
}

// SetChannelsEnabled sets the number of enabled notification channels.
func SetChannelsEnabled(count int) {
	channelsEnabled.Set(float64(count))
}
