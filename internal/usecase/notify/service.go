package notify

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/handler/http/requestid"
	"favorite-feed/internal/infra/notifier"
	"favorite-feed/internal/observability/tracing"
	"favorite-feed/internal/resilience/circuitbreaker"
)

const (
	defaultWorkers     = 4
	defaultQueueSize   = 256
	defaultSendTimeout = 30 * time.Second
)

// Service dispatches new post notifications to followers of the author.
type Service interface {
	// NotifyNewPost enqueues a fanout for post and returns immediately.
	// It never reports delivery failures; a full queue drops the task and
	// is only visible in logs and metrics.
	NotifyNewPost(ctx context.Context, post *entity.Post) error

	// Start launches the worker pool. Calling it more than once is a no-op.
	Start(ctx context.Context)

	// GetChannelHealth returns circuit breaker state per channel.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown stops accepting tasks and drains the queue. If ctx expires
	// first, in-flight sends are cancelled and ctx.Err() is returned.
	Shutdown(ctx context.Context) error
}

// AuthorLookup loads the author of a post. Get returns (nil, nil) for a
// missing user.
type AuthorLookup interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
}

// FollowerSource resolves the followers of an author.
type FollowerSource interface {
	FollowersOf(ctx context.Context, author *entity.User) ([]*entity.User, error)
}

// ChannelHealthStatus represents the health status of a notification channel.
type ChannelHealthStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
	State              string `json:"state"`
	// ConsecutiveFailures counts transport failures since the last success
	// or state change.
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// Config tunes the worker pool. Zero values fall back to the defaults.
type Config struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
	// BaseURL prefixes the post link in every message.
	BaseURL string
	// Tracer defaults to tracing.GetTracer().
	Tracer trace.Tracer
	// Breaker overrides circuitbreaker.ChannelConfig per channel.
	Breaker func(channel string) circuitbreaker.Config
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = defaultSendTimeout
	}
	if c.Tracer == nil {
		c.Tracer = tracing.GetTracer()
	}
	if c.Breaker == nil {
		c.Breaker = circuitbreaker.ChannelConfig
	}
	return c
}

type task struct {
	post      entity.Post
	requestID string
	link      trace.SpanContext
}

type service struct {
	authors   AuthorLookup
	followers FollowerSource
	channels  []Channel
	breakers  map[string]*circuitbreaker.CircuitBreaker
	cfg       Config

	queue  chan task
	mu     sync.RWMutex // guards closed against sends on queue
	closed bool

	startOnce sync.Once
	wg        sync.WaitGroup

	sendCtx    context.Context
	cancelSend context.CancelFunc
}

// NewService wires the fanout pipeline. Workers are not running until Start.
func NewService(authors AuthorLookup, followers FollowerSource, channels []Channel, cfg Config) Service {
	cfg = cfg.withDefaults()
	sendCtx, cancel := context.WithCancel(context.Background())

	svc := &service{
		authors:    authors,
		followers:  followers,
		channels:   channels,
		breakers:   make(map[string]*circuitbreaker.CircuitBreaker, len(channels)),
		cfg:        cfg,
		queue:      make(chan task, cfg.QueueSize),
		sendCtx:    sendCtx,
		cancelSend: cancel,
	}

	enabled := 0
	for _, ch := range channels {
		name := ch.Name()
		bc := cfg.Breaker(name)
		bc.OnStateChange = func(_ string, _, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				RecordCircuitBreakerOpen(name)
			}
		}
		if bc.IsSuccessful == nil {
			bc.IsSuccessful = func(err error) bool {
				return err == nil || recipientScoped(err)
			}
		}
		svc.breakers[name] = circuitbreaker.New(bc)
		if ch.IsEnabled() {
			enabled++
		}
	}
	SetChannelsEnabled(enabled)

	return svc
}

// NotifyNewPost implements Service.NotifyNewPost.
func (s *service) NotifyNewPost(ctx context.Context, post *entity.Post) error {
	if post == nil || post.ID <= 0 || post.AuthorID <= 0 {
		slog.Warn("Invalid notification input", slog.Bool("nil_post", post == nil))
		return nil
	}

	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	t := task{
		post:      *post,
		requestID: reqID,
		link:      trace.SpanContextFromContext(ctx),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		RecordDropped("", DropShutdown)
		slog.Warn("Notification dropped: service shutting down",
			slog.String("request_id", reqID),
			slog.Int64("post_id", post.ID))
		return nil
	}

	select {
	case s.queue <- t:
		SetQueueDepth(len(s.queue))
		slog.Debug("Post fanout queued",
			slog.String("request_id", reqID),
			slog.Int64("post_id", post.ID),
			slog.Int64("author_id", post.AuthorID))
	default:
		RecordDropped("", DropQueueFull)
		slog.Warn("Notification dropped: queue full",
			slog.String("request_id", reqID),
			slog.Int64("post_id", post.ID),
			slog.Int("queue_size", cap(s.queue)))
	}
	return nil
}

// Start implements Service.Start.
func (s *service) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		for i := 0; i < s.cfg.Workers; i++ {
			s.wg.Add(1)
			go s.worker()
		}
		slog.InfoContext(ctx, "Notification workers started",
			slog.Int("workers", s.cfg.Workers),
			slog.Int("queue_size", cap(s.queue)))
	})
}

func (s *service) worker() {
	defer s.wg.Done()
	for t := range s.queue {
		SetQueueDepth(len(s.queue))
		IncrementActiveGoroutines()
		s.fanout(t)
		DecrementActiveGoroutines()
	}
}

// fanout notifies every follower of the post's author on every enabled
// channel. One follower or channel failing never stops the others.
func (s *service) fanout(t task) {
	logger := slog.Default().With(
		slog.String("request_id", t.requestID),
		slog.String("fanout_id", uuid.New().String()),
		slog.Int64("post_id", t.post.ID),
		slog.Int64("author_id", t.post.AuthorID))

	defer func() {
		if r := recover(); r != nil {
			RecordFanout("panic")
			logger.Error("Panic in notification fanout",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	ctx := requestid.WithRequestID(s.sendCtx, t.requestID)
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.Int64("post.id", t.post.ID),
			attribute.Int64("post.author_id", t.post.AuthorID)),
	}
	if t.link.IsValid() {
		opts = append(opts, trace.WithLinks(trace.Link{SpanContext: t.link}))
	}
	ctx, span := s.cfg.Tracer.Start(ctx, "notify.fanout", opts...)
	defer span.End()

	author, err := s.authors.Get(ctx, t.post.AuthorID)
	if err != nil {
		s.failFanout(span, logger, "author lookup failed", err)
		return
	}
	if author == nil {
		RecordFanout("author_missing")
		logger.Warn("Post author not found, skipping fanout")
		return
	}

	followers, err := s.followers.FollowersOf(ctx, author)
	if err != nil {
		s.failFanout(span, logger, "follower lookup failed", err)
		return
	}

	channels := s.enabledChannels()
	span.SetAttributes(
		attribute.Int("notify.followers", len(followers)),
		attribute.Int("notify.channels", len(channels)))
	if len(channels) == 0 {
		RecordFanout("completed")
		logger.Debug("No notification channels enabled")
		return
	}

	attempted, notified := 0, 0
	for _, recipient := range followers {
		if recipient == nil || recipient.ID == author.ID {
			continue
		}
		attempted++
		msg := NewPostMessage(&t.post, author, recipient, s.cfg.BaseURL)
		delivered := false
		for _, ch := range channels {
			if s.send(ctx, logger, ch, recipient, msg) {
				delivered = true
			}
		}
		if delivered {
			notified++
		}
	}

	span.SetAttributes(attribute.Int("notify.notified", notified))
	RecordFanout("completed")
	RecordFanoutRecipients(notified)
	logger.Info("Post fanout completed",
		slog.Int("followers", attempted),
		slog.Int("notified", notified),
		slog.Int("channels", len(channels)))
}

func (s *service) failFanout(span trace.Span, logger *slog.Logger, msg string, err error) {
	RecordFanout("failed")
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	logger.Error("Post fanout failed: "+msg, slog.Any("error", err))
}

// send performs a single attempt on ch through its circuit breaker and
// reports whether the message was delivered.
func (s *service) send(ctx context.Context, logger *slog.Logger, ch Channel, recipient *entity.User, msg notifier.Message) bool {
	name := ch.Name()
	logger = logger.With(slog.String("channel", name), slog.Int64("recipient_id", recipient.ID))

	if ctx.Err() != nil {
		RecordDropped(name, DropShutdown)
		return false
	}

	cb := s.breakers[name]
	if cb.IsOpen() {
		RecordDropped(name, DropCircuitOpen)
		logger.Warn("Channel temporarily disabled due to circuit breaker")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	sendCtx, span := s.cfg.Tracer.Start(sendCtx, "notify.send",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("notify.channel", name),
			attribute.Int64("notify.recipient_id", recipient.ID)))
	defer span.End()

	RecordDispatch(name)
	start := time.Now()
	err := cb.Do(func() error { return safeSend(sendCtx, ch, recipient, msg) })
	duration := time.Since(start)

	if circuitbreaker.IsOpenErr(err) {
		RecordDropped(name, DropCircuitOpen)
		span.SetStatus(codes.Error, ErrCircuitBreakerOpen.Error())
		logger.Warn("Channel temporarily disabled due to circuit breaker")
		return false
	}
	if err != nil {
		RecordFailure(name, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		logger.Warn("Channel notification failed",
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
		return false
	}

	RecordSuccess(name, duration)
	logger.Debug("Channel notification sent",
		slog.Duration("send_duration", duration))
	return true
}

// safeSend turns a panic in ch.Send into an error.
func safeSend(ctx context.Context, ch Channel, recipient *entity.User, msg notifier.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in notification channel",
				slog.String("channel", ch.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%w: %v", ErrSendPanic, r)
		}
	}()
	return ch.Send(ctx, recipient, msg)
}

func (s *service) enabledChannels() []Channel {
	out := make([]Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			out = append(out, ch)
		}
	}
	return out
}

// GetChannelHealth implements Service.GetChannelHealth.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		cb := s.breakers[ch.Name()]
		statuses = append(statuses, ChannelHealthStatus{
			Name:                ch.Name(),
			Enabled:             ch.IsEnabled(),
			CircuitBreakerOpen:  cb.IsOpen(),
			State:               cb.State().String(),
			ConsecutiveFailures: cb.Counts().ConsecutiveFailures,
		})
	}
	return statuses
}

// Shutdown implements Service.Shutdown.
func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down notification service")

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	// Without workers nothing would drain the queue.
	s.Start(ctx)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelSend()
		slog.Info("Notification service shutdown complete")
		return nil
	case <-ctx.Done():
		s.cancelSend()
		slog.Warn("Notification service shutdown timeout",
			slog.Int("pending", len(s.queue)))
		return ctx.Err()
	}
}
