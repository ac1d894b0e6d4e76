package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type Logger struct {
	*slog.Logger
}

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ContextKey for correlation IDs
type contextKey string

const correlationIDKey contextKey = "correlation_id"

func NewLogger(level LogLevel) *Logger {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	return &Logger{Logger: logger}
}

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context) context.Context {
	if GetCorrelationID(ctx) == "" {
		correlationID := uuid.New().String()
		return context.WithValue(ctx, correlationIDKey, correlationID)
	}
	return ctx
}

// GetCorrelationID retrieves the correlation ID from context
func GetCorrelationID(ctx context.Context) string {
	if correlationID, ok := ctx.Value(correlationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

// Debug logs debug level messages with correlation ID
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Debug(msg, args...)
}

// Info logs info level messages with correlation ID
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Info(msg, args...)
}

// Warn logs warn level messages with correlation ID
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Warn(msg, args...)
}

// Error logs error level messages with correlation ID
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		args = append(args, "correlation_id", correlationID)
	}
	l.Logger.Error(msg, args...)
}

// LogProviderFallback records a provider failure recovered with a heuristic,
// without logging provider credentials or full request URLs.
func (l *Logger) LogProviderFallback(ctx context.Context, provider, scope string, err error) {
	correlationID := GetCorrelationID(ctx)
	l.Logger.Warn("provider fallback",
		"provider", provider,
		"scope", scope,
		"error", err.Error(),
		"correlation_id", correlationID,
	)
}

// LogDiscoveryRun logs one discovery invocation summary
func (l *Logger) LogDiscoveryRun(ctx context.Context, websiteID string, keywords, raw, persisted int) {
	correlationID := GetCorrelationID(ctx)
	l.Logger.Info("discovery run",
		"website_id", websiteID,
		"keywords", keywords,
		"raw_candidates", raw,
		"persisted", persisted,
		"correlation_id", correlationID,
	)
}

// LogCheckRun logs one backlink monitoring run summary
func (l *Logger) LogCheckRun(ctx context.Context, websiteID, status string, newLinks, lostLinks int) {
	correlationID := GetCorrelationID(ctx)
	l.Logger.Info("backlink check",
		"website_id", websiteID,
		"status", status,
		"new", newLinks,
		"lost", lostLinks,
		"correlation_id", correlationID,
	)
}
