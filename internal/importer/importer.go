// Package importer drives the import pipeline for one article: fetch, encode,
// paginate, upload, merge, with run state tracked in the local ledger.
package importer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/encode"
	"github.com/wikiport/wikiport/internal/ledger"
	"github.com/wikiport/wikiport/internal/merge"
	"github.com/wikiport/wikiport/internal/models"
	"github.com/wikiport/wikiport/internal/notion"
	"github.com/wikiport/wikiport/internal/wiki"
	"go.uber.org/zap"
)

// Result summarizes one import run.
type Result struct {
	RunID        string `json:"run_id,omitempty"`
	Title        string `json:"title"`
	CollectionID string `json:"collection_id,omitempty"`
	PrimaryID    string `json:"primary_id,omitempty"`
	Blocks       int    `json:"blocks"`
	Pages        int    `json:"pages"`
	Status       string `json:"status"`
	Skipped      bool   `json:"skipped,omitempty"`
}

// Importer runs the whole pipeline. Safe for concurrent use; runs for the
// same title are serialized so two imports cannot interleave writes into one
// record group.
type Importer struct {
	cfg      *config.Config
	wiki     *wiki.Client
	encoder  *encode.Encoder
	uploader *Uploader
	merger   *merge.Merger
	ledger   *ledger.Ledger // optional; nil skips run tracking (dry runs)
	logger   *zap.Logger

	mu     sync.Mutex
	titles map[string]*sync.Mutex
}

// New wires an importer from its parts. ledger may be nil, in which case runs
// are not recorded.
func New(cfg *config.Config, wikiClient *wiki.Client, store notion.Store, led *ledger.Ledger, logger *zap.Logger) *Importer {
	return &Importer{
		cfg:      cfg,
		wiki:     wikiClient,
		encoder:  encode.NewEncoder(&cfg.Limits, encode.WithLogger(logger)),
		uploader: NewUploader(store, &cfg.Limits, WithUploaderLogger(logger)),
		merger:   merge.NewMerger(store, cfg.Limits.AppendBatchSize, merge.WithLogger(logger)),
		ledger:   led,
		logger:   logger,
		titles:   make(map[string]*sync.Mutex),
	}
}

// Run imports the article at rawURL end to end and returns its result. A
// title whose latest recorded run already merged is skipped unless force is
// set. Failures are recorded in the ledger and returned.
func (imp *Importer) Run(ctx context.Context, rawURL string, force bool) (*Result, error) {
	rawTitle, err := wiki.TitleFromURL(rawURL)
	if err != nil {
		return nil, err
	}
	title := wiki.DisplayTitle(rawTitle)

	lock := imp.titleLock(title)
	lock.Lock()
	defer lock.Unlock()

	if !force && imp.ledger != nil {
		merged, err := imp.ledger.IsMerged(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("check ledger: %w", err)
		}
		if merged {
			imp.logger.Info("article already imported, skipping", zap.String("title", title))
			return &Result{Title: title, Status: models.RunMerged, Skipped: true}, nil
		}
	}

	run := &models.Run{
		ID:     uuid.New().String(),
		URL:    rawURL,
		Title:  title,
		Status: models.RunUploading,
	}
	if imp.ledger != nil {
		if err := imp.ledger.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}

	article, err := imp.wiki.Fetch(ctx, rawURL)
	if err != nil {
		return imp.fail(ctx, run, fmt.Errorf("fetch %q: %w", title, err))
	}

	blocks := imp.encoder.Encode(article)
	if len(blocks) == 0 {
		return imp.fail(ctx, run, fmt.Errorf("article %q has no importable content", title))
	}
	pages := encode.Paginate(blocks, imp.cfg.Limits.MaxBlocksPerPage)
	run.Blocks = len(blocks)
	run.Pages = len(pages)
	imp.logger.Info("article encoded",
		zap.String("title", title),
		zap.Int("blocks", len(blocks)),
		zap.Int("pages", len(pages)),
	)

	collectionID, primaryID, err := imp.uploader.Upload(ctx, article, pages)
	run.CollectionID = collectionID
	run.PrimaryID = primaryID
	if err != nil {
		return imp.fail(ctx, run, fmt.Errorf("upload %q: %w", title, err))
	}
	imp.advance(ctx, run, models.RunUploaded)

	imp.advance(ctx, run, models.RunMerging)
	if _, err := imp.merger.Merge(ctx, collectionID, title); err != nil {
		return imp.fail(ctx, run, fmt.Errorf("merge %q: %w", title, err))
	}
	imp.advance(ctx, run, models.RunMerged)

	return &Result{
		RunID:        run.ID,
		Title:        title,
		CollectionID: collectionID,
		PrimaryID:    primaryID,
		Blocks:       run.Blocks,
		Pages:        run.Pages,
		Status:       run.Status,
	}, nil
}

// Merge runs reassembly alone against an existing collection, for groups left
// behind by an interrupted run.
func (imp *Importer) Merge(ctx context.Context, collectionID, title string) (string, error) {
	lock := imp.titleLock(title)
	lock.Lock()
	defer lock.Unlock()
	return imp.merger.Merge(ctx, collectionID, title)
}

func (imp *Importer) titleLock(title string) *sync.Mutex {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	lock, ok := imp.titles[title]
	if !ok {
		lock = &sync.Mutex{}
		imp.titles[title] = lock
	}
	return lock
}

// advance moves the run to the next status and persists it. Ledger write
// failures are logged, not fatal: the import itself already happened.
func (imp *Importer) advance(ctx context.Context, run *models.Run, status string) {
	run.Status = status
	if imp.ledger == nil {
		return
	}
	if err := imp.ledger.UpdateRun(ctx, run); err != nil {
		imp.logger.Warn("could not persist run state",
			zap.String("run", run.ID),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}

// fail records the terminal failure on the run and returns it.
func (imp *Importer) fail(ctx context.Context, run *models.Run, err error) (*Result, error) {
	run.Status = models.RunFailed
	run.Error = err.Error()
	if imp.ledger != nil {
		if uerr := imp.ledger.UpdateRun(ctx, run); uerr != nil {
			imp.logger.Warn("could not persist run failure", zap.String("run", run.ID), zap.Error(uerr))
		}
	}
	imp.logger.Error("import failed", zap.String("title", run.Title), zap.Error(err))
	return nil, err
}
