// Package log provides structured logging for OAP training and evaluation runs.
//
// This package defines a minimal, slog-compatible logging interface with a
// zerolog-backed default implementation. The interface keeps the rest of the
// library independent of any particular logging backend while still giving
// training code rich, structured output (iteration counters, loss values,
// partition counts and so on).
//
// Key features:
//   - slog-compatible levels for easy interop with the standard library
//   - training-specific structured attributes (step sizes, batch fractions, losses)
//   - Context-aware logging with field chaining
//   - Automatic stacktrace extraction for cockroachdb/errors values
//   - Test-friendly capture via TestLogger
//
// Example usage:
//
//	logger := log.GetLoggerWithName("optimize.sgd").With(
//	    log.ModelNameKey, "LogisticRegression",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationTrain,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 5,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface is implementation-agnostic. The default backend is zerolog
// (see ZerologProvider), and tests typically swap in a TestLogger. Contextual
// loggers are created through With, which pre-populates fields on every
// subsequent message.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	// Debug logs carry detailed diagnostic information such as per-iteration
	// loss values and are usually disabled outside development.
	//
	// Example:
	//
	//	logger.Debug("Batch sampled",
	//	    log.IterationKey, 17,
	//	    log.BatchSizeKey, 412,
	//	)
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	// Info logs describe the normal flow of a training run.
	//
	// Example:
	//
	//	logger.Info("Training finished",
	//	    log.DurationMsKey, 5432,
	//	    log.LossKey, 0.103,
	//	)
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	// Warnings flag situations the run can survive, such as an empty
	// mini-batch or an ill-defined metric.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is a bare error value, it is attached under the
	// "error" key and its stacktrace (when available) is extracted
	// automatically.
	//
	// Example:
	//
	//	logger.Error("Training failed",
	//	    err,
	//	    log.OperationKey, log.OperationTrain,
	//	    log.SamplesKey, 1000,
	//	)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	// The receiver is not modified.
	//
	// Example:
	//
	//	runLogger := logger.With(
	//	    log.ModelNameKey, "LogisticRegression",
	//	    log.SeedKey, 42,
	//	)
	//	runLogger.Info("Starting run") // carries model name and seed
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip expensive field construction for suppressed levels.
	//
	// Example:
	//
	//	if logger.Enabled(ctx, log.LevelDebug) {
	//	    logger.Debug("Loss trace", "trace", expensiveFormat(trace))
	//	}
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers. Providers enable dependency
// injection: libraries call the package-level GetLogger functions, and
// applications decide which provider backs them.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers created by this provider.
	SetLevel(level Level)
}
