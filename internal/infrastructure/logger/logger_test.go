package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marvelguide/core/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggerConfig
		wantErr bool
	}{
		{name: "json", cfg: config.LoggerConfig{Level: "info", Format: "json"}},
		{name: "console debug", cfg: config.LoggerConfig{Level: "debug", Format: "console"}},
		{name: "bad level", cfg: config.LoggerConfig{Level: "loud", Format: "json"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogWatchedChange(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.LogWatchedChange(1, true, true, "movies.json")
	l.LogWatchedChange(999, true, false, "movies.json")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0].Level != zap.InfoLevel {
		t.Errorf("matched update logged at %v, want info", entries[0].Level)
	}
	if entries[1].Level != zap.WarnLevel {
		t.Errorf("unmatched update logged at %v, want warn", entries[1].Level)
	}
	if got := entries[1].ContextMap()["movie_id"]; got != int64(999) {
		t.Errorf("movie_id field = %v, want 999", got)
	}
}

func TestLogHTTPRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.LogHTTPRequest("GET", "/api/movies", "req-1", "127.0.0.1", 200, 1.5, nil)
	l.LogHTTPRequest("GET", "/api/movies", "req-2", "127.0.0.1", 500, 1.5, errors.New("boom"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[1].Level != zap.ErrorLevel {
		t.Errorf("failed request logged at %v, want error", entries[1].Level)
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
		t.Errorf("request_id field = %v, want req-1", got)
	}
}
