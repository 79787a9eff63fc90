package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/yatube/yatube/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{
			name:   "json info",
			level:  "INFO",
			format: "json",
		},
		{
			name:   "text debug",
			level:  "DEBUG",
			format: "text",
		},
		{
			name:   "unknown level falls back to info",
			level:  "bogus",
			format: "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldLogger := Logger
			defer func() { Logger = oldLogger }()

			cfg := &config.LoggingConfig{
				Level:  tt.level,
				Format: tt.format,
			}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	Logger = nil
	logger := GetLogger()
	if logger == nil {
		t.Fatal("GetLogger should never return nil")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("Fallback logger should log at info level")
	}
}
