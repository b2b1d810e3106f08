// Package logging builds the process logger and carries request-scoped loggers
// through context.
//
//	logger := logging.NewLogger(logging.Options{Level: "info", Format: "json"})
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("processing request")
//	}
package logging
