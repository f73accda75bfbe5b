package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_LevelAndFallback(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(Options{Level: "warn", Fallback: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closeFn()

	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ganttboard.log")
	l, closeFn, err := New(Options{File: path, JSON: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.WithField("task", "1").Info("task updated")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"task":"1"`) || !strings.Contains(string(b), `"msg":"task updated"`) {
		t.Fatalf("unexpected log file: %s", b)
	}
}
