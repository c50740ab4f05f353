// Package config provides configuration loading and structs for the wikiport importer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Notion  NotionConfig  `yaml:"notion"`
	Wiki    WikiConfig    `yaml:"wiki"`
	Limits  LimitsConfig  `yaml:"limits"`
	Storage StorageConfig `yaml:"storage"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// NotionConfig holds destination workspace settings. Token can be left empty
// in the file and supplied through the NOTION_TOKEN environment variable.
type NotionConfig struct {
	Token        string `yaml:"token"`
	ParentPageID string `yaml:"parent_page_id"`
}

// WikiConfig holds source fetch settings.
type WikiConfig struct {
	// Endpoint is the REST HTML endpoint; the URL-encoded article title is
	// appended to it.
	Endpoint  string `yaml:"endpoint"`
	UserAgent string `yaml:"user_agent"`
	// TimeoutSeconds bounds a single fetch request. 0 uses the default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LimitsConfig holds the destination store's structural limits and the
// encoder's noise thresholds. These are explicit configuration, not hidden
// magic numbers: the defaults mirror the Notion API's published limits.
type LimitsConfig struct {
	// MaxTextLen is the maximum character length of one rich-text block.
	MaxTextLen int `yaml:"max_text_len"`
	// ChunkStride is the split stride for over-length text; kept below
	// MaxTextLen to leave headroom for formatting.
	ChunkStride int `yaml:"chunk_stride"`
	// MaxBlocksPerPage is the per-record child ceiling at creation time.
	MaxBlocksPerPage int `yaml:"max_blocks_per_page"`
	// AppendBatchSize is the per-call block ceiling on the write path during
	// reassembly. This is a payload-size limit, distinct from MaxBlocksPerPage.
	AppendBatchSize int `yaml:"append_batch_size"`
	// MinParagraphLen drops shorter paragraphs as noise.
	MinParagraphLen int `yaml:"min_paragraph_len"`
	// MinListItemLen drops shorter list items as noise.
	MinListItemLen int `yaml:"min_list_item_len"`
	// CalloutTextLimit is the truncation point for serialized tables, leaving
	// room for the callout prefix and truncation marker.
	CalloutTextLimit int `yaml:"callout_text_limit"`
}

// StorageConfig holds the local import ledger path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig holds drop-directory watch settings. Files with a matching
// extension dropped into a watched directory are read as article URL lists.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, applies defaults, expands
// paths, and overlays the NOTION_TOKEN environment variable when set.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		cfg.Notion.Token = token
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
