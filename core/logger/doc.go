// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers context-aware attribute extraction, environment presets and a set of
// attribute helpers for bus requests.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/cqbus/core/logger"
//
//	log := logger.New(logger.WithDevelopment("orders"))
//
//	log.Info("bus ready",
//		logger.Component("bus"),
//		logger.Event("startup"),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level
//	devLogger := logger.New(logger.WithDevelopment("orders"))
//
//	// Staging and production: JSON format, info level
//	prodLogger := logger.New(logger.WithProduction("orders"))
//
//	// Custom configuration
//	customLogger := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithOutput(os.Stderr),
//	)
//
// Settings can also come from the environment through Config
// (LOG_LEVEL, LOG_FORMAT, SERVICE_NAME):
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	log := logger.NewFromConfig(cfg)
//
// # Context Extraction
//
// Extractors run on every *Context call and append attributes found in the context:
//
//	log := logger.New(
//		logger.WithContextValue("request_id", requestIDKey{}),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			if id := trace.SpanContextFromContext(ctx).TraceID(); id.IsValid() {
//				return logger.TraceID(id.String()), true
//			}
//			return slog.Attr{}, false
//		}),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for empty input, which slog drops:
//
//	log.ErrorContext(ctx, "request failed",
//		logger.RequestType("CreateOrder"),
//		logger.RequestKind("command"),
//		logger.Identity(ec.Identity()),
//		logger.Error(err),
//		logger.Duration(time.Since(start)),
//	)
//
// Identity logs name, authentication state, authentication type and roles.
// Identity properties are never written to the log.
package logger
