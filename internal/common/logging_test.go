package common

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/bobmcallan/firstrade-mcp/internal/config"
)

func TestNewLogger_FluentAPI(t *testing.T) {
	// Must not panic
	logger := NewLogger("error")
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Int64("duration_ms", 3).Msg("debug")
}

func TestNewLoggerFromConfig_UnknownLevelFallsBack(t *testing.T) {
	logger := NewLoggerFromConfig(config.LoggingConfig{Level: "verbose"})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("this should NOT appear")
	silent.Error().Msg("this should NOT appear either")

	if buf.Len() > 0 {
		t.Errorf("Silent logger wrote %d bytes to global writer: %s", buf.Len(), buf.String())
	}
}

func TestNewLogger_DoesNotWriteToStdout(t *testing.T) {
	// stdout carries the MCP stdio protocol; console output must go to stderr.
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLogger("debug")
	logger.Info().Str("tool", "get_user_info").Msg("this must not go to stdout")
	logger.Debug().Str("url", "localhost:3001/user-info").Msg("neither should this")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("Logger wrote %d bytes to stdout (would corrupt MCP stdio): %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLogger("info")
	correlated := logger.WithCorrelationId("call-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance, not the same one")
	}
}

func TestLogLevel_DebugFilteredAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Debug().Msg("debug message should not appear")

	if strings.Contains(buf.String(), "debug message should not appear") {
		t.Error("Debug message appeared at info level")
	}
}

func TestLogLevel_InfoFilteredAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Msg("info message should not appear at warn level")

	if strings.Contains(buf.String(), "info message should not appear") {
		t.Error("Info message appeared at warn level")
	}
}

func TestOutputFormat_ContainsExpectedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Info().
		Str("method", "GET").
		Str("url", "localhost:3001/balances").
		Msg("backend request")

	output := buf.String()
	if !strings.Contains(output, "backend request") {
		t.Errorf("Output missing message, got: %s", output)
	}
	if !strings.Contains(output, "localhost:3001/balances") {
		t.Errorf("Output missing url value, got: %s", output)
	}
}

func TestGetFullVersion(t *testing.T) {
	got := GetFullVersion()
	if !strings.Contains(got, GetVersion()) || !strings.Contains(got, "build:") {
		t.Errorf("unexpected full version %q", got)
	}
}
