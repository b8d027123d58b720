package logging

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitializeLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
		{"bogus", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if err := Initialize(tt.level); err != nil {
				t.Fatalf("Initialize(%q) error = %v", tt.level, err)
			}
			core := GetLogger().Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("level %v should be enabled for %q", tt.enabled, tt.level)
			}
			if core.Enabled(tt.muted) {
				t.Errorf("level %v should be muted for %q", tt.muted, tt.level)
			}
		})
	}
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	if !GetLogger().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn level should be enabled from environment")
	}
}

func TestLogCommit(t *testing.T) {
	logs := observe(t)

	LogCommit("thermostat.target", 53, nil)
	LogCommit("wifi.mode", "XX", errors.New("invalid"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("successful commit level = %v, want info", entries[0].Level)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("failed commit level = %v, want warn", entries[1].Level)
	}
	if got := entries[0].ContextMap()["path"]; got != "thermostat.target" {
		t.Errorf("path field = %v, want thermostat.target", got)
	}
}

func TestLogWebSocketMessageTruncates(t *testing.T) {
	logs := observe(t)

	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = 'a'
	}
	LogWebSocketMessage("127.0.0.1:1", "sent", 1, payload)

	content, _ := logs.All()[0].ContextMap()["content"].(string)
	if len(content) != 259 {
		t.Errorf("content length = %d, want 259", len(content))
	}
}

func TestWsMessageTypeName(t *testing.T) {
	if got := wsMessageTypeName(9); got != "ping" {
		t.Errorf("wsMessageTypeName(9) = %v, want ping", got)
	}
	if got := wsMessageTypeName(42); got != "unknown(42)" {
		t.Errorf("wsMessageTypeName(42) = %v, want unknown(42)", got)
	}
}
