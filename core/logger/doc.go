// Package logger builds structured slog loggers and provides attribute helpers
// with consistent key names.
//
// # Building a logger
//
//	log := logger.New(
//		logger.WithProduction("truthapi"),
//		logger.WithLevel(slog.LevelInfo),
//	)
//	logger.SetAsDefault(log)
//
// Environment presets (WithDevelopment, WithStaging, WithProduction) set level,
// format and the service/env attributes. Later options override earlier ones.
//
// # Context values
//
// Extractors add attributes taken from the context passed to the *Context
// logging methods:
//
//	log := logger.New(logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//		id, ok := ctx.Value(requestIDKey{}).(string)
//		return logger.RequestID(id), ok
//	}))
//	log.InfoContext(ctx, "truth selected")
//
// # Attributes
//
// Helpers such as RequestID, TruthID and Error return an empty slog.Attr for
// empty input, which slog omits:
//
//	log.Info("request completed",
//		logger.RequestID(id),
//		logger.StatusCode(200),
//		logger.Latency(time.Since(start)),
//		logger.Error(err),
//	)
package logger
