// Package notion defines the destination store surface the pipeline writes to
// and implements it against the Notion API.
package notion

import (
	"context"

	"github.com/wikiport/wikiport/internal/models"
)

// TitleProperty is the destination's mandatory title property name.
const TitleProperty = "Name"

// Store is the destination workspace. All calls are synchronous and
// blocking; the pipeline never retries them itself. Callers must respect the
// destination's structural limits: CreateRecord children must stay within the
// per-page ceiling (the paginator's job) and AppendChildren batches within
// the write-batch ceiling (the reassembler's job).
type Store interface {
	// CreateCollection creates a collection whose schema is a title property
	// plus one text property per field key. Called at most once per import.
	CreateCollection(ctx context.Context, name string, fieldKeys []string) (string, error)

	// CreateRecord creates a record with the given display name, field
	// values, and child blocks, returning the store-assigned record ID.
	CreateRecord(ctx context.Context, collectionID, displayName string, fields map[string]string, children []models.Block) (string, error)

	// QueryByTitleContains returns all records whose display name contains
	// substring. The store's query semantics are "contains", not "equals";
	// callers classify the results themselves.
	QueryByTitleContains(ctx context.Context, collectionID, substring string) ([]models.Record, error)

	// GetChildren returns a record's child blocks in stored order.
	GetChildren(ctx context.Context, recordID string) ([]models.Block, error)

	// AppendChildren appends blocks to the end of a record's children.
	AppendChildren(ctx context.Context, recordID string, blocks []models.Block) error

	// SetArchived sets a record's archived flag. Archiving an already
	// archived record is a no-op, not an error.
	SetArchived(ctx context.Context, recordID string, archived bool) error
}
