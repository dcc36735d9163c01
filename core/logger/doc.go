// Package logger provides slog.Logger construction from environment
// configuration plus nil-safe structured attribute helpers shared across
// the application.
//
// Components accept a *slog.Logger and should default to NewDiscard() when
// none is provided, so logging never becomes a hard dependency:
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"})
//	log.Info("session restored",
//		logger.Component("sessionstore"),
//		logger.SessionID(string(id)),
//	)
//
// The attribute helpers return an empty slog.Attr for zero values (nil error,
// empty string), which slog silently drops, so call sites never need nil
// checks.
package logger
