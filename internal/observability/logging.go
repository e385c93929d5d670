package observability

import (
	"context"
	"log/slog"
)

// StoreLogger provides structured logging for document store operations.
type StoreLogger struct {
	backend string
	logger  *slog.Logger
}

// NewStoreLogger creates a StoreLogger for the given backend. A nil logger
// falls back to slog.Default().
func NewStoreLogger(backend string, logger *slog.Logger) *StoreLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreLogger{backend: backend, logger: logger}
}

// LogSave logs a successful document write.
func (l *StoreLogger) LogSave(ctx context.Context, size int) {
	l.logger.InfoContext(ctx, "document saved",
		slog.String("backend", l.backend),
		slog.Int("bytes", size),
	)
}

// LogSeed logs the creation of the default document.
func (l *StoreLogger) LogSeed(ctx context.Context) {
	l.logger.InfoContext(ctx, "document seeded with defaults",
		slog.String("backend", l.backend),
	)
}

// LogError logs a failed store operation.
func (l *StoreLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "store error",
		slog.String("backend", l.backend),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// WSLogger provides structured logging for live-counter WebSocket events.
type WSLogger struct {
	hubName string
	logger  *slog.Logger
}

// NewWSLogger creates a WSLogger for the given hub.
func NewWSLogger(hubName string, logger *slog.Logger) *WSLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSLogger{hubName: hubName, logger: logger}
}

// LogConnect logs a WebSocket connection event.
func (l *WSLogger) LogConnect(ctx context.Context, videoID int) {
	LiveCounterEvents.WithLabelValues("connect").Inc()
	l.logger.InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hubName),
		slog.Int("video_id", videoID),
	)
}

// LogDisconnect logs a WebSocket disconnection event.
func (l *WSLogger) LogDisconnect(ctx context.Context, videoID int, reason string) {
	LiveCounterEvents.WithLabelValues("disconnect").Inc()
	l.logger.InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hubName),
		slog.Int("video_id", videoID),
		slog.String("reason", reason),
	)
}

// LogError logs a WebSocket error event.
func (l *WSLogger) LogError(ctx context.Context, videoID int, err error, eventType string) {
	LiveCounterEvents.WithLabelValues("error").Inc()
	l.logger.ErrorContext(ctx, "websocket error",
		slog.String("hub", l.hubName),
		slog.Int("video_id", videoID),
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}
