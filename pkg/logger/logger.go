package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide logger. The zero value discards everything,
// which keeps packages usable from tests without calling Init.
var Logger zerolog.Logger

// Init initializes the global logger
func Init(serviceName, version string, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = os.Stdout
	if isDevelopment {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	Logger = zerolog.New(output).
		Level(zerolog.TraceLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", version).
		Logger()

	log.Logger = Logger
}

// SetLevel sets the global log level, defaulting to info
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// WithContext returns a logger carrying trace information from ctx
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Logger.With().Logger()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		l = l.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return &l
}

// Info logs at info level with context
func Info(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Info()
}

// Error logs at error level with context
func Error(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Error()
}

// Debug logs at debug level with context
func Debug(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Debug()
}

// Warn logs at warn level with context
func Warn(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Warn()
}

// ValidationError records a caller-correctable input problem.
func ValidationError(ctx context.Context, operation string, errs []string) {
	Warn(ctx).
		Str("category", "validation").
		Str("operation", operation).
		Strs("errors", errs).
		Msg("Validation failed")
}

// BusinessRuleViolation records a rejected request that was well-formed but
// broke a uniqueness, reference or state-transition rule.
func BusinessRuleViolation(ctx context.Context, operation string, err error) {
	Warn(ctx).
		Str("category", "business_rule").
		Str("operation", operation).
		Err(err).
		Msg("Business rule violation")
}

// SystemError records an unexpected failure with full detail. Callers must not
// echo err to clients.
func SystemError(ctx context.Context, operation string, err error) {
	Error(ctx).
		Str("category", "system").
		Str("operation", operation).
		Err(err).
		Msg("System error")
}
