package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
notion:
  parent_page_id: "abc123"
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Notion.ParentPageID != "abc123" {
		t.Errorf("parent_page_id = %q", cfg.Notion.ParentPageID)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_limitDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l := cfg.Limits
	if l.MaxTextLen != 2000 || l.ChunkStride != 1800 {
		t.Errorf("text limits: %+v", l)
	}
	if l.MaxBlocksPerPage != 90 || l.AppendBatchSize != 50 {
		t.Errorf("block limits: %+v", l)
	}
	if l.MinParagraphLen != 50 || l.MinListItemLen != 10 || l.CalloutTextLimit != 1900 {
		t.Errorf("thresholds: %+v", l)
	}
	if l.ChunkStride >= l.MaxTextLen {
		t.Error("chunk stride must stay below max text length")
	}
	if l.AppendBatchSize > l.MaxBlocksPerPage {
		t.Error("append batch must not exceed page ceiling")
	}
}

func TestLoad_tokenFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
notion:
  token: "from-file"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOTION_TOKEN", "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Notion.Token != "from-env" {
		t.Errorf("env token should win, got %q", cfg.Notion.Token)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/imports.db"
watch:
  directories: ["./inbox"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "imports.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %q, want %q", cfg.Storage.DatabasePath, wantDB)
	}
	wantInbox := filepath.Join(dir, "inbox")
	if len(cfg.Watch.Directories) != 1 || cfg.Watch.Directories[0] != wantInbox {
		t.Errorf("watch directories = %v", cfg.Watch.Directories)
	}
}

func TestRecursiveOrDefault(t *testing.T) {
	var w WatchConfig
	if !w.RecursiveOrDefault() {
		t.Error("recursive should default to true")
	}
	f := false
	w.Recursive = &f
	if w.RecursiveOrDefault() {
		t.Error("explicit false should be honored")
	}
}
