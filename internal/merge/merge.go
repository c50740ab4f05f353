package merge

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wikiport/wikiport/internal/models"
	"github.com/wikiport/wikiport/internal/notion"
	"go.uber.org/zap"
)

var (
	// ErrNoRecords reports that discovery found nothing for the title.
	ErrNoRecords = errors.New("no records found for title")
	// ErrPrimaryNotFound reports that discovery found records but none with
	// the bare title. Terminal for this article, not for the whole run.
	ErrPrimaryNotFound = errors.New("primary record not found")
)

// Merger reassembles one article's record group: it finds the primary and
// auxiliary records, moves the auxiliaries' blocks onto the primary in
// bounded batches, and archives the auxiliaries.
type Merger struct {
	store     notion.Store
	batchSize int
	logger    *zap.Logger // optional; when set, logs merge progress
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithLogger sets a logger for merge progress output.
func WithLogger(l *zap.Logger) MergerOption {
	return func(m *Merger) { m.logger = l }
}

// NewMerger creates a merger appending at most batchSize blocks per store
// call. batchSize bounds the request payload, independently of the per-page
// child ceiling used at upload time.
func NewMerger(store notion.Store, batchSize int, opts ...MergerOption) *Merger {
	m := &Merger{store: store, batchSize: batchSize}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type auxiliary struct {
	record models.Record
	part   int
}

// Merge reassembles the record group of title inside collectionID and
// returns the primary record's ID. It returns ErrNoRecords or
// ErrPrimaryNotFound when the group is unusable, and propagates store
// failures during block collection or batch append; a failed append aborts
// mid-merge with the auxiliaries still in place, so a re-run can retry.
// Archival failures after a complete append are logged and swallowed:
// orphaned auxiliaries are cosmetic once their blocks are on the primary.
func (m *Merger) Merge(ctx context.Context, collectionID, title string) (string, error) {
	records, err := m.store.QueryByTitleContains(ctx, collectionID, title)
	if err != nil {
		return "", fmt.Errorf("discover records: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoRecords, title)
	}

	primary, auxiliaries := classify(records, title)
	if primary == nil {
		return "", fmt.Errorf("%w: %s", ErrPrimaryNotFound, title)
	}
	// Ascending by embedded part number, numerically: Part 10 after Part 9.
	sort.Slice(auxiliaries, func(i, j int) bool {
		return auxiliaries[i].part < auxiliaries[j].part
	})

	var collected []models.Block
	for _, aux := range auxiliaries {
		blocks, err := m.store.GetChildren(ctx, aux.record.ID)
		if err != nil {
			return "", fmt.Errorf("collect blocks of %q: %w", aux.record.DisplayName, err)
		}
		collected = append(collected, blocks...)
		if m.logger != nil {
			m.logger.Debug("collected auxiliary blocks",
				zap.String("record", aux.record.DisplayName),
				zap.Int("blocks", len(blocks)),
			)
		}
	}

	if err := m.appendBatches(ctx, primary.ID, collected); err != nil {
		return "", err
	}

	for _, aux := range auxiliaries {
		if err := m.store.SetArchived(ctx, aux.record.ID, true); err != nil && m.logger != nil {
			m.logger.Warn("could not archive auxiliary record",
				zap.String("record", aux.record.DisplayName),
				zap.Error(err),
			)
		}
	}

	if m.logger != nil {
		m.logger.Info("records merged",
			zap.String("title", title),
			zap.Int("auxiliaries", len(auxiliaries)),
			zap.Int("blocks_moved", len(collected)),
		)
	}
	return primary.ID, nil
}

// classify partitions records into the primary (display name equals title)
// and the auxiliaries (valid "(Part n)" names). Archived records are
// skipped: a previously merged group's retired auxiliaries must not be
// collected again. Records that merely contain the title as a substring
// (the store's query is "contains") fall through both buckets.
func classify(records []models.Record, title string) (*models.Record, []auxiliary) {
	var primary *models.Record
	var auxiliaries []auxiliary
	for i := range records {
		rec := records[i]
		if rec.Archived {
			continue
		}
		if rec.DisplayName == title {
			primary = &records[i]
			continue
		}
		if part, ok := PartNumber(rec.DisplayName, title); ok {
			auxiliaries = append(auxiliaries, auxiliary{record: rec, part: part})
		}
	}
	return primary, auxiliaries
}

// appendBatches appends blocks onto the primary in strict order, batchSize
// blocks per call. Batches are never issued in parallel: destination child
// order is append-order-dependent.
func (m *Merger) appendBatches(ctx context.Context, primaryID string, blocks []models.Block) error {
	total := len(blocks)
	for i := 0; i < total; i += m.batchSize {
		end := i + m.batchSize
		if end > total {
			end = total
		}
		if err := m.store.AppendChildren(ctx, primaryID, blocks[i:end]); err != nil {
			return fmt.Errorf("append batch %d/%d: %w", i/m.batchSize+1, (total+m.batchSize-1)/m.batchSize, err)
		}
		if m.logger != nil {
			m.logger.Debug("appended batch",
				zap.Int("batch", i/m.batchSize+1),
				zap.Int("blocks", end-i),
			)
		}
	}
	return nil
}
