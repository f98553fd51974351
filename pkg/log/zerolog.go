// Package log: zerolog-backed implementation of the Logger interface.
//
// This file wires the zerolog library in as the default logging backend.
// Errors created with cockroachdb/errors carry stacktraces in their safe
// details; the backend extracts those automatically so that every
// logger.Error call with a wrapped error produces a "error.stacktrace"
// attribute without callers doing anything special.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ErrorKey is the attribute key used for bare error values passed to
// Logger.Error as the first field.
const ErrorKey = "error"

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

// NewNopLogger returns a logger that discards everything. Library code uses
// it as the fallback when no logger was injected.
func NewNopLogger() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	appendFields(l.zl.Debug(), fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	appendFields(l.zl.Info(), fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	appendFields(l.zl.Warn(), fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	e := l.zl.Error()
	// A bare error in the leading position is a supported calling
	// convention, see the Logger interface docs.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			e = appendField(e, ErrorKey, err)
			fields = fields[1:]
		}
	}
	appendFields(e, fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...any) Logger {
	zc := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		zc = contextField(zc, fieldKey(fields[i]), fields[i+1])
	}
	return &zerologLogger{zl: zc.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	current := l.zl.GetLevel()
	return current != zerolog.Disabled && current <= toZerologLevel(level)
}

func fieldKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}

func appendFields(e *zerolog.Event, fields []any) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		e = appendField(e, fieldKey(fields[i]), fields[i+1])
	}
	return e
}

// appendField adds a single key-value pair to an event. Typed errors that
// implement zerolog.LogObjectMarshaler render as nested objects; plain
// errors render as their message plus an extracted stacktrace when one is
// attached.
func appendField(e *zerolog.Event, key string, value any) *zerolog.Event {
	switch v := value.(type) {
	case zerolog.LogObjectMarshaler:
		return e.Object(key, v)
	case error:
		if v == nil {
			return e
		}
		e = e.Str(key, v.Error())
		if st := extractStacktrace(v); st != "" {
			e = e.Str(StacktraceKey, st)
		}
		return e
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case float64:
		return e.Float64(key, v)
	case bool:
		return e.Bool(key, v)
	case []float64:
		return e.Floats64(key, v)
	case time.Duration:
		return e.Dur(key, v)
	default:
		return e.Interface(key, v)
	}
}

func contextField(zc zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case zerolog.LogObjectMarshaler:
		return zc.Object(key, v)
	case error:
		if v == nil {
			return zc
		}
		return zc.Str(key, v.Error())
	case string:
		return zc.Str(key, v)
	case int:
		return zc.Int(key, v)
	case int64:
		return zc.Int64(key, v)
	case float64:
		return zc.Float64(key, v)
	case bool:
		return zc.Bool(key, v)
	default:
		return zc.Interface(key, v)
	}
}

// extractStacktrace pulls the first safe detail out of a cockroachdb/errors
// chain, which is where WithStack records the formatted stacktrace.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

func toZerologLevel(l Level) zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ZerologProvider is the default LoggerProvider, producing zerolog-backed
// loggers that share a single root logger and output destination.
type ZerologProvider struct {
	mu   sync.RWMutex
	root zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to w at the given
// minimum level.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	root := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologProvider{root: root}
}

// NewConsoleProvider creates a provider with human-readable, colorized
// output. Intended for command line tools rather than services.
func NewConsoleProvider(w io.Writer, level Level) *ZerologProvider {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	root := zerolog.New(cw).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologProvider{root: root}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.root}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
// The name appears on every record under the ComponentKey attribute.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.root.With().Str(ComponentKey, name).Logger()}
}

// SetLevel implements LoggerProvider.SetLevel. Loggers handed out earlier
// keep the level they were created with.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = p.root.Level(toZerologLevel(level))
}

var (
	providerMu sync.RWMutex

	// Warnings stay visible by default; anything chattier is opt-in so that
	// importing the library never floods a host application's output.
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelWarn)
)

// SetLoggerProvider replaces the provider backing the package-level GetLogger
// functions. Applications call this once at startup.
func SetLoggerProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the default logger from the current provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a component-tagged logger from the current
// provider.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel adjusts the minimum level on the current provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	defaultProvider.SetLevel(level)
}
