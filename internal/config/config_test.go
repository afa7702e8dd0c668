package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if cfg.Theme != "default" || cfg.ClipboardMaxItems != 10000 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesKnownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pane.toml")
	contents := "theme = \"midnight\"\ncache_max_entries = 128\nunknown_field = \"ignored\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Load(path)
	if cfg.Theme != "midnight" || cfg.CacheMaxEntries != 128 {
		t.Fatalf("expected overrides applied, got %+v", cfg)
	}
	if cfg.ClipboardMaxItems != 10000 {
		t.Fatalf("expected unset fields to keep defaults, got %+v", cfg)
	}
}

func TestLoadMalformedFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pane.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Load(path)
	if cfg.Theme != "default" {
		t.Fatalf("expected defaults on malformed config, got %+v", cfg)
	}
}
