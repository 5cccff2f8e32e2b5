package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/winbridge/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Format: "json", Stderr: &buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "window", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["window"] != float64(7) {
		t.Fatalf("record = %v", rec)
	}
}

func TestFromConfigWritesFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "winbridge.log")

	logger, closer, err := New(FromConfig(cfg))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Fatalf("log = %q", data)
	}
	info, err := os.Stat(cfg.LogFile)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestRotatingFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	r, err := OpenRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for i := 0; i < 4; i++ {
		if _, err := r.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	for _, name := range []string{"app.log", "app.log.1", "app.log.2"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(path), name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected at most 2 rotated files, stat .3: %v", err)
	}
}

func TestRotatingFileClosed(t *testing.T) {
	r, err := OpenRotatingFile(filepath.Join(t.TempDir(), "app.log"), 1, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r.Close()
	if _, err := r.Write([]byte("x")); err == nil {
		t.Fatal("write after close succeeded")
	}
}
