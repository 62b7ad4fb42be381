package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Init(Options{Level: "debug", Format: "json", Console: true, ConsoleWriter: &buf})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _, _ = Init(Options{}) })

	logger.Debug("ply applied", zap.String("move_uci", "e2e4"))
	if L() != logger {
		t.Fatalf("global logger not replaced")
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "ply applied" || entry["move_uci"] != "e2e4" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestInitFileLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "game.log")
	logger, err := Init(Options{Level: "warn", FilePath: path})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _, _ = Init(Options{}) })

	logger.Info("dropped")
	logger.Warn("stale automated move discarded")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "WARN | ") || !strings.Contains(out, "stale automated move discarded") {
		t.Fatalf("expected legacy formatted warn line, got %q", out)
	}
}

func TestInitWithoutOutputsIsNop(t *testing.T) {
	logger, err := Init(Options{Level: "info"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected a nop logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
