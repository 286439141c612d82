// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON and text output formats
//   - Request ID propagation
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	logger := logging.NewLogger()
//	logger.Info("application started", slog.String("version", "1.0"))
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, logging.FromContext(ctx)).Info("processing request")
//	}
package logging
