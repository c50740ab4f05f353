// Package main is the wikiport CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wikiport/wikiport/internal/cli"
	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/importer"
	"github.com/wikiport/wikiport/internal/ledger"
	"github.com/wikiport/wikiport/internal/notion"
	"github.com/wikiport/wikiport/internal/server"
	"github.com/wikiport/wikiport/internal/watcher"
	"github.com/wikiport/wikiport/internal/wiki"
	"github.com/wikiport/wikiport/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/wikiport/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "wikiport serve" from the project dir uses the project's
// config (including debug). Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "import":
		runImport()
	case "merge":
		runMerge()
	case "serve":
		runServe()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("wikiport version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the wired application parts.
type Components struct {
	Ledger   *ledger.Ledger
	Store    notion.Store
	Importer *importer.Importer
	Logger   *zap.Logger
}

// Close releases component resources.
func (c *Components) Close() {
	if c.Ledger != nil {
		_ = c.Ledger.Close()
	}
}

// initializeComponents wires the pipeline. dryRun swaps the workspace client
// for an in-memory store and skips the run ledger, so nothing is written
// anywhere.
func initializeComponents(cfg *config.Config, logger *zap.Logger, dryRun bool) (*Components, error) {
	c := &Components{Logger: logger}

	if dryRun {
		c.Store = notion.NewMemoryStore()
	} else {
		if cfg.Notion.Token == "" {
			return nil, fmt.Errorf("notion token not configured (set notion.token or NOTION_TOKEN)")
		}
		if cfg.Notion.ParentPageID == "" {
			return nil, fmt.Errorf("notion parent page not configured (set notion.parent_page_id)")
		}
		c.Store = notion.NewClient(&cfg.Notion, notion.WithLogger(logger))

		led, err := ledger.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		c.Ledger = led
	}

	wikiClient := wiki.NewClient(&cfg.Wiki, wiki.WithLogger(logger))
	c.Importer = importer.New(cfg, wikiClient, c.Store, c.Ledger, logger)
	return c, nil
}

func setup(configPath string, debugFlag, dryRun bool) (*config.Config, *Components, *zap.Logger) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
		zap.Bool("dry_run", dryRun),
	)
	components, err := initializeComponents(cfg, logger, dryRun)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return cfg, components, logger
}

func parseOutputFormat(raw string) cli.OutputFormat {
	switch raw {
	case "json":
		return cli.OutputJSON
	case "text":
		return cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", raw)
		os.Exit(1)
		return cli.OutputText
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	dryRun := fs.Bool("dry-run", false, "encode and paginate against an in-memory store, writing nothing")
	force := fs.Bool("force", false, "re-import even when the article was already merged")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wikiport import [flags] <article-url> [article-url ...]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	format := parseOutputFormat(*outputFormat)

	_, components, logger := setup(*configPath, *debug, *dryRun)
	defer components.Close()
	defer logger.Sync()

	failed := 0
	for _, rawURL := range fs.Args() {
		result, err := components.Importer.Run(context.Background(), rawURL, *force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import of %s failed: %v\n", rawURL, err)
			failed++
			continue
		}
		_ = cli.WriteResult(os.Stdout, result, format)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runMerge() {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	collectionID := fs.String("collection", "", "collection ID holding the record group (required)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wikiport merge -collection <id> <article-title>\n\n")
		fmt.Fprintf(fs.Output(), "Reassembles a record group left behind by an interrupted import.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	if *collectionID == "" || fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	title := fs.Arg(0)

	_, components, logger := setup(*configPath, *debug, false)
	defer components.Close()
	defer logger.Sync()

	primaryID, err := components.Importer.Merge(context.Background(), *collectionID, title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Merge of %q failed: %v\n", title, err)
		os.Exit(1)
	}
	fmt.Printf("Merged %q onto %s\n", title, primaryID)
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, components, logger := setup(*configPath, *debug, false)
	defer components.Close()
	defer logger.Sync()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watchSvc := startWatcher(watchCtx, cfg, components, logger)

	srv := server.NewServer(components.Importer, components.Ledger, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, components, logger := setup(*configPath, *debug, false)
	defer components.Close()
	defer logger.Sync()

	if len(cfg.Watch.Directories) == 0 {
		fmt.Println("No watch directories configured (set watch.directories)")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchSvc := startWatcher(ctx, cfg, components, logger)
	if watchSvc == nil {
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	watchSvc.Stop()
}

// startWatcher starts the drop-directory watcher when directories are
// configured. Each dropped file is read as a URL list and every URL is
// imported in turn.
func startWatcher(ctx context.Context, cfg *config.Config, components *Components, logger *zap.Logger) *watcher.Watcher {
	if len(cfg.Watch.Directories) == 0 {
		return nil
	}
	imp := components.Importer
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			urls, err := watcher.ReadURLList(path)
			if err != nil {
				logger.Warn("could not read drop file", zap.String("path", path), zap.Error(err))
				return
			}
			for _, rawURL := range urls {
				if _, err := imp.Run(ctx, rawURL, false); err != nil {
					logger.Warn("drop file import failed", zap.String("url", rawURL), zap.Error(err))
				}
			}
		},
		watcher.WithLogger(logger),
	)
	if err := watchSvc.Start(ctx); err != nil {
		logger.Error("Failed to start watcher", zap.Error(err))
		return nil
	}
	watchSvc.SyncExistingFiles()
	return watchSvc
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of runs to list")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := parseOutputFormat(*outputFormat)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	led, err := ledger.Open(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open ledger: %v\n", err)
		os.Exit(1)
	}
	defer led.Close()

	runs, err := led.ListRuns(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list runs: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteRuns(os.Stdout, runs, format)
}

func printUsage() {
	fmt.Println(`wikiport - Wikipedia article importer for Notion

Usage:
  wikiport <command> [flags]

Commands:
  import    Import one or more articles by URL
  merge     Reassemble a record group from an interrupted import
  serve     Run the HTTP API (plus drop-directory watcher when configured)
  watch     Watch drop directories for article URL lists
  status    Show recent import runs
  version   Show version
  help      Show this help

Run 'wikiport <command> -h' for command flags.`)
}
