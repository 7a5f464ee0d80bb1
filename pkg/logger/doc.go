// Package logger builds context-aware slog loggers for the notification
// services.
//
// The single factory, New, assembles a *slog.Logger from functional options:
// output format (text or json), minimum level, static attributes applied to
// every record, and ContextExtractor callbacks that pull request-scoped
// values out of context.Context on each log call.
//
// Helper constructors in attr.go (Error, Channel, UserID, ...) keep attribute
// names consistent across packages.
//
//	log := logger.New(
//	    logger.WithProduction("notifyhub"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	logger.SetAsDefault(log)
package logger
