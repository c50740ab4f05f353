package config

// ApplyDefaults sets default values for any zero values in cfg.
// Limit defaults mirror the Notion API: 100 children per page (90 leaves
// headroom), 2000 characters per rich text, and small append batches to stay
// under the request payload ceiling.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Wiki.Endpoint == "" {
		cfg.Wiki.Endpoint = "https://en.wikipedia.org/api/rest_v1/page/html/"
	}
	if cfg.Wiki.UserAgent == "" {
		cfg.Wiki.UserAgent = "wikiport/1.0 (article importer)"
	}
	if cfg.Wiki.TimeoutSeconds == 0 {
		cfg.Wiki.TimeoutSeconds = 30
	}
	if cfg.Limits.MaxTextLen == 0 {
		cfg.Limits.MaxTextLen = 2000
	}
	if cfg.Limits.ChunkStride == 0 {
		cfg.Limits.ChunkStride = 1800
	}
	if cfg.Limits.MaxBlocksPerPage == 0 {
		cfg.Limits.MaxBlocksPerPage = 90
	}
	if cfg.Limits.AppendBatchSize == 0 {
		cfg.Limits.AppendBatchSize = 50
	}
	if cfg.Limits.MinParagraphLen == 0 {
		cfg.Limits.MinParagraphLen = 50
	}
	if cfg.Limits.MinListItemLen == 0 {
		cfg.Limits.MinListItemLen = 10
	}
	if cfg.Limits.CalloutTextLimit == 0 {
		cfg.Limits.CalloutTextLimit = 1900
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/wikiport/data/imports.db"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".url", ".txt"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
