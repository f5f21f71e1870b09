package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{
			name: "json format",
			config: &Config{
				Level:  LevelInfo,
				Format: "json",
				Output: &bytes.Buffer{},
			},
		},
		{
			name: "text format",
			config: &Config{
				Level:  LevelDebug,
				Format: "text",
				Output: &bytes.Buffer{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("NewLogger() returned nil")
			}
		})
	}
}

func TestLoggerWithScanAndNetwork(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{Level: LevelDebug, Format: "text", Output: &buf}

	logger := NewLogger(config)

	scanLogger := logger.WithScan(7)
	scanLogger.Info("scan complete")

	output := buf.String()
	if !strings.Contains(output, "scan=7") {
		t.Errorf("Expected scan=7 in output, got: %s", output)
	}

	buf.Reset()
	networkLogger := scanLogger.WithNetwork("N1")
	networkLogger.Info("network evaluated")

	output = buf.String()
	if !strings.Contains(output, "scan=7") {
		t.Errorf("Expected scan=7 in network logger output, got: %s", output)
	}
	if !strings.Contains(output, "network=N1") {
		t.Errorf("Expected network=N1 in output, got: %s", output)
	}
}

func TestLoggerWithTag(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Format: "text", Output: &buf})

	tagLogger := logger.WithTag("motor_output")
	tagLogger.Debug("write pending")

	output := buf.String()
	if !strings.Contains(output, "tag=motor_output") {
		t.Errorf("Expected tag=motor_output in output, got: %s", output)
	}
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Format: "text", Output: &buf})

	testErr := errors.New("division by zero")
	errorLogger := logger.WithError(testErr)
	errorLogger.Error("scan aborted")

	output := buf.String()
	if !strings.Contains(output, "division by zero") {
		t.Errorf("Expected 'division by zero' in output, got: %s", output)
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{Level: LevelDebug, Format: "text", Output: &buf}

	SetDefault(NewLogger(config))

	Debug("debug message", "key", "value")
	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("Expected debug message, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value, got: %s", output)
	}

	buf.Reset()
	Info("info message")
	output = buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message, got: %s", output)
	}

	buf.Reset()
	Warn("warning message")
	output = buf.String()
	if !strings.Contains(output, "warning message") {
		t.Errorf("Expected warning message, got: %s", output)
	}

	buf.Reset()
	Error("error message")
	output = buf.String()
	if !strings.Contains(output, "error message") {
		t.Errorf("Expected error message, got: %s", output)
	}
}

func TestLevelBelowThresholdIsSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Format: "text", Output: &buf})

	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output below threshold, got: %s", buf.String())
	}

	logger.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("expected warn output, got: %s", buf.String())
	}
}
