package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, key := range []string{"outcome.checkmate", "outcome.stalemate", "outcome.draw", "status.turn", "cli.help"} {
		if !c.Has(key) {
			t.Fatalf("missing default key %s", key)
		}
	}
	got, err := c.Render("outcome.checkmate", map[string]string{"Winner": "Black"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "Black") {
		t.Fatalf("winner not rendered: %q", got)
	}
}

func TestRequireListsMissingKeys(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Require("outcome.checkmate", "cli.new_game"); err != nil {
		t.Fatalf("Require on defaults: %v", err)
	}
	err = c.Require("outcome.draw", "outcome.resign", "cli.undo")
	if err == nil {
		t.Fatalf("expected missing keys to fail")
	}
	if !strings.Contains(err.Error(), "outcome.resign, cli.undo") || strings.Contains(err.Error(), "outcome.draw") {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestRenderErrors(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := c.Render("status.turn", map[string]any{"Side": "White"}); err == nil {
		t.Fatalf("expected error for missing template data")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	body := "outcome:\n  draw: \"drawn game\"\nextra:\n  note: \"hi {{.Name}}\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-custom.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, _ := c.Render("outcome.draw", nil); got != "drawn game" {
		t.Fatalf("override not applied: %q", got)
	}
	if got, _ := c.Render("extra.note", map[string]string{"Name": "kim"}); got != "hi kim" {
		t.Fatalf("new key not rendered: %q", got)
	}
	if !c.Has("outcome.stalemate") {
		t.Fatalf("untouched defaults should survive overrides")
	}
}

func TestOverrideDirRejectsDuplicatesAndBadValues(t *testing.T) {
	dup := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dup, name), []byte("outcome:\n  draw: x\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dup); err == nil {
		t.Fatalf("expected duplicate key error")
	}

	bad := t.TempDir()
	if err := os.WriteFile(filepath.Join(bad, "a.yaml"), []byte("outcome:\n  draw: [1, 2]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(bad); err == nil {
		t.Fatalf("expected error for a non-string value")
	}

	if _, err := New(filepath.Join(bad, "missing")); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
}
