// Package logger builds the service's slog loggers.
//
// Every logger is JSON (or text) on the configured writer, decorated with
// context extractors that copy request scoped values into each record. The
// shipped extractors add the dispatch context ID and the letter reference:
//
//	log := logger.New(logger.Config{Level: slog.LevelInfo}, os.Stdout,
//		logger.ContextIDExtractor(), logger.ReferenceExtractor())
//
//	ctx = logger.WithContextID(ctx, "5f0c...")
//	ctx = logger.WithReference(ctx, "CH-000123")
//	log.InfoContext(ctx, "letter sent")
//	// {"level":"INFO","msg":"letter sent","context_id":"5f0c...","reference":"CH-000123"}
//
// NewWithSentry additionally forwards warnings and errors to Sentry when a DSN
// is configured, and falls back to the plain logger otherwise.
package logger
