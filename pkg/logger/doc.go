// Package logger builds *slog.Logger instances for the signer binaries.
//
// New applies functional options (format, level, output, static attributes
// and context extractors) and wraps the chosen slog handler with a decorator
// that copies request-scoped values, such as the request id, from the
// context into every record.
//
// # Usage
//
//	import "github.com/shopello/urisign/pkg/logger"
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "click-redirect"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "click recorded", logger.Component("clicks"))
//
// NewFromConfig reads the same settings from a Config loaded with the config
// package (APP_ENV, APP_SERVICE, LOG_LEVEL, LOG_FORMAT).
//
// Attribute helpers such as Error return an empty slog.Attr for nil input, so
//
//	log.Debug("verification finished", logger.Error(err))
//
// needs no nil check. Helpers never accept secrets or tokens.
package logger
