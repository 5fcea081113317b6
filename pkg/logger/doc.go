// Package logger provides a context-aware wrapper around Go's slog package
// with functional options for configuration, helper attribute constructors
// for consistent key naming across the pipeline, and transparent injection
// of values stored in context.Context.
//
// The single factory New creates a *slog.Logger whose handler is wrapped by
// LogHandlerDecorator, which runs any registered ContextExtractor callbacks
// before delegating to the underlying text or JSON handler.
//
//	log := logger.New(
//	    logger.WithProduction("notifications"),
//	    logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//	log.InfoContext(ctx, "delivery sent",
//	    logger.DeliveryID(d.ID),
//	    logger.Channel(d.Channel),
//	    logger.RetryCount(d.RetryCount),
//	)
package logger
