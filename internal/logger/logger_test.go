package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"camrelay/internal/config"
)

func TestLogger_WritesPerLevelFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewLogger(&config.Config{LogDirectory: dir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer l.Close()

	l.Info("stored %s", "image_1.jpg")
	l.Warning("unknown event %q", "ping")
	l.Error("write failed: %v", os.ErrPermission)

	tests := []struct {
		level    string
		contains string
	}{
		{LevelInfo, "stored image_1.jpg"},
		{LevelWarning, `unknown event "ping"`},
		{LevelError, "write failed: permission denied"},
	}

	for _, tt := range tests {
		data, err := os.ReadFile(filepath.Join(dir, tt.level+".log"))
		if err != nil {
			t.Fatalf("Failed to read %s log: %v", tt.level, err)
		}
		if !strings.Contains(string(data), tt.contains) {
			t.Errorf("%s log should contain %q, got %q", tt.level, tt.contains, data)
		}
		if !strings.Contains(string(data), "logger_test.go") {
			t.Errorf("%s log should reference the caller file, got %q", tt.level, data)
		}
	}
}

func TestLogger_CleanLogs(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(&config.Config{LogDirectory: dir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer l.Close()

	l.Error("something broke")
	if err := l.CleanLogs(LevelError); err != nil {
		t.Fatalf("CleanLogs failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "error.log"))
	if len(data) != 0 {
		t.Errorf("Expected empty error log, got %q", data)
	}

	if err := l.CleanLogs("debug"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
