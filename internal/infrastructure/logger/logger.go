package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/marvelguide/core/internal/infrastructure/config"
)

// Logger wraps zap.SugaredLogger to provide application-specific logging
type Logger struct {
	*zap.SugaredLogger
}

// New creates a new logger instance
func New(cfg config.LoggerConfig) (*Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if cfg.Output == "file" && cfg.Filename != "" {
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	} else {
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

// NewNop returns a logger that discards everything. Used by tests and CLI
// commands that print their own output.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger
func FromZap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// WithFields adds structured fields to the logger
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(fields...),
	}
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// WithRequestID adds a request ID field to the logger
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.WithFields("request_id", requestID)
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// LogHTTPRequest logs a finished request at info, or at error when it failed.
func (l *Logger) LogHTTPRequest(method, uri, requestID, ip string, status int, latencyMs float64, err error) {
	fields := []interface{}{
		"method", method,
		"uri", uri,
		"status", status,
		"latency_ms", latencyMs,
		"remote_ip", ip,
		"request_id", requestID,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		l.Errorw("HTTP request failed", fields...)
		return
	}
	l.Infow("HTTP request", fields...)
}

// LogWatchedChange records a watched flag update on the data file.
func (l *Logger) LogWatchedChange(movieID int, watched, matched bool, dataFile string) {
	fields := []interface{}{
		"movie_id", movieID,
		"watched", watched,
		"matched", matched,
		"data_file", dataFile,
	}

	if !matched {
		l.Warnw("Watched update matched no movie", fields...)
		return
	}
	l.Infow("Watched flag updated", fields...)
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
