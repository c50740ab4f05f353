package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_explicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "debug: true\n")
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if !cfg.Debug {
		t.Error("debug not loaded")
	}
}

func TestLoadConfig_cwdFallback(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "debug: true\n")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(resolved) != "config.yaml" || filepath.Dir(resolved) != dir {
		// Symlinked temp dirs (macOS) make exact comparison unreliable.
		if _, statErr := os.Stat(resolved); statErr != nil {
			t.Errorf("resolved = %q", resolved)
		}
	}
	if !cfg.Debug {
		t.Error("fallback config not loaded")
	}
}

func TestLoadConfig_missingFile(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}
