package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	"favorite-feed/docs"
	"favorite-feed/internal/config"
	pgRepo "favorite-feed/internal/infra/adapter/persistence/postgres"
	"favorite-feed/internal/infra/db"
	"favorite-feed/internal/observability/logging"
	"favorite-feed/internal/observability/metrics"
	"favorite-feed/internal/observability/slo"
	"favorite-feed/internal/observability/tracing"

	favUC "favorite-feed/internal/usecase/favorite"
	"favorite-feed/internal/usecase/follower"
	"favorite-feed/internal/usecase/notify"
	postUC "favorite-feed/internal/usecase/post"

	hhttp "favorite-feed/internal/handler/http"
	hauth "favorite-feed/internal/handler/http/auth"
	hfav "favorite-feed/internal/handler/http/favorite"
	hpost "favorite-feed/internal/handler/http/post"
	"favorite-feed/internal/handler/http/requestid"
)

const serviceName = "favorite-feed"

// @title           Favorite Feed API
// @version         1.0
// @description     Favorites for posts and users, with new post notifications to followers.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token. Send "Bearer {token}" in the Authorization header.

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)

	tp := tracing.InitTracer(tracing.Config{ServiceName: serviceName, SampleRatio: cfg.TraceSampleRatio})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown tracer provider", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := initDatabase(ctx, logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	components, err := setupServer(ctx, logger, database, cfg)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}
	defer components.closeChannels()

	if err := runServer(ctx, logger, database, components, cfg); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger builds the process logger and installs it as slog's default.
func initLogger(cfg *config.AppConfig) *slog.Logger {
	logger := logging.NewLogger(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the pool and applies the schema. Any failure is fatal.
func initDatabase(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) *sql.DB {
	database, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		_ = database.Close()
		os.Exit(1)
	}
	return database
}

// ServerComponents holds what runServer needs beyond the config.
type ServerComponents struct {
	Handler       http.Handler
	Notify        notify.Service
	Tracker       *slo.Tracker
	closeChannels func()
}

// setupServer wires repositories, use cases and HTTP handlers.
func setupServer(ctx context.Context, logger *slog.Logger, database *sql.DB, cfg *config.AppConfig) (*ServerComponents, error) {
	favRepo := pgRepo.NewFavoriteRepo(database)
	postRepo := pgRepo.NewPostRepo(database)
	userRepo := pgRepo.NewUserRepo(database)

	channels, closeChannels, err := buildChannels(logger, cfg.Notify)
	if err != nil {
		return nil, err
	}

	notifySvc := notify.NewService(userRepo, &follower.Query{Repo: favRepo}, channels, notify.Config{
		Workers:     cfg.Fanout.Workers,
		QueueSize:   cfg.Fanout.QueueSize,
		SendTimeout: cfg.Fanout.SendTimeout,
		BaseURL:     cfg.BaseURL,
		Breaker:     cfg.Notify.BreakerFor,
	})
	notifySvc.Start(ctx)

	favSvc := favUC.NewService(favRepo, postRepo, userRepo)
	postSvc := &postUC.Service{Repo: postRepo, Publisher: notifySvc}

	authz := hauth.Authz([]byte(cfg.JWTSecret))

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:      database,
		Notify:  notifySvc,
		Version: cfg.Version,
		Logger:  logger,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	docs.SwaggerInfo.Version = cfg.Version
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	hfav.Register(mux, favSvc, authz)
	hpost.Register(mux, postSvc, authz)

	tracker := slo.NewTracker()
	handler := hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(hhttp.MaxBodyBytes),
		hhttp.Metrics(tracker),
	)

	return &ServerComponents{
		Handler:       handler,
		Notify:        notifySvc,
		Tracker:       tracker,
		closeChannels: closeChannels,
	}, nil
}

// runServer serves HTTP and the background loops until ctx is cancelled,
// then shuts the server down and drains pending notifications.
func runServer(ctx context.Context, logger *slog.Logger, database *sql.DB, components *ServerComponents, cfg *config.AppConfig) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		components.Tracker.Run(gctx, cfg.StatsInterval)
		return nil
	})

	g.Go(func() error {
		reportDBStats(gctx, database, cfg.StatsInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		// No new posts can arrive once the server is closed, so the queue
		// only shrinks from here.
		if err := components.Notify.Shutdown(shutdownCtx); err != nil {
			logger.Warn("notification queue not fully drained", slog.Any("error", err))
			errs = append(errs, err)
		}
		logger.Info("server stopped")
		return errors.Join(errs...)
	})

	return g.Wait()
}

func reportDBStats(ctx context.Context, database *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		metrics.UpdateDBConnectionStats(database.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
