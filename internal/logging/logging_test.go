package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfig_Levels(t *testing.T) {
	if got := Config(false).Level.Level(); got != zapcore.InfoLevel {
		t.Errorf("default level = %s, want info", got)
	}
	if got := Config(true).Level.Level(); got != zapcore.DebugLevel {
		t.Errorf("verbose level = %s, want debug", got)
	}
}

func TestConfig_WritesToStderr(t *testing.T) {
	cfg := Config(false)
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
		t.Errorf("OutputPaths = %v, want [stderr]", cfg.OutputPaths)
	}
}

func TestNew_Builds(t *testing.T) {
	l, err := New(true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}
}
