package importer

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/merge"
	"github.com/wikiport/wikiport/internal/models"
	"github.com/wikiport/wikiport/internal/notion"
	"github.com/wikiport/wikiport/pkg/utils"
	"go.uber.org/zap"
)

// collectionPrefix names the per-article collection after its article.
const collectionPrefix = "Wikipedia: "

// PartialUploadError reports an upload that created some records before
// failing. The created records are left in place: the next run of the same
// article starts over against a fresh collection, and the stranded group can
// be cleaned up in the workspace.
type PartialUploadError struct {
	Created int
	Total   int
	Err     error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("upload incomplete: %d of %d records created: %v", e.Created, e.Total, e.Err)
}

func (e *PartialUploadError) Unwrap() error { return e.Err }

// Uploader creates an article's collection and its record group from
// paginated blocks.
type Uploader struct {
	store  notion.Store
	limits *config.LimitsConfig
	logger *zap.Logger // optional
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithUploaderLogger sets a logger for upload progress output.
func WithUploaderLogger(l *zap.Logger) UploaderOption {
	return func(u *Uploader) { u.logger = l }
}

// NewUploader creates an uploader writing through store.
func NewUploader(store notion.Store, limits *config.LimitsConfig, opts ...UploaderOption) *Uploader {
	u := &Uploader{store: store, limits: limits}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload creates the article's collection and one record per page: the first
// page becomes the primary record carrying the article title and infobox
// fields, the rest become numbered auxiliary records. Returns the collection
// and primary record IDs. A failure after the collection exists comes back as
// a *PartialUploadError.
func (u *Uploader) Upload(ctx context.Context, article *models.Article, pages []models.Page) (collectionID, primaryID string, err error) {
	if len(pages) == 0 {
		return "", "", fmt.Errorf("no pages to upload for %q", article.Title)
	}

	collectionID, err = u.store.CreateCollection(ctx, collectionPrefix+article.Title, fieldKeys(article.Infobox))
	if err != nil {
		return "", "", fmt.Errorf("create collection: %w", err)
	}

	primaryID, err = u.store.CreateRecord(ctx, collectionID, article.Title, article.Infobox, u.clampBlocks(pages[0]))
	if err != nil {
		return "", "", &PartialUploadError{Created: 0, Total: len(pages), Err: err}
	}
	if u.logger != nil {
		u.logger.Info("primary record created",
			zap.String("title", article.Title),
			zap.Int("blocks", len(pages[0])),
			zap.Int("pages", len(pages)),
		)
	}

	for i, page := range pages[1:] {
		// Page index 1 is auxiliary Part 2; the primary is the implicit part 1.
		name := merge.PartName(article.Title, i+2)
		if _, err := u.store.CreateRecord(ctx, collectionID, name, nil, u.clampBlocks(page)); err != nil {
			return collectionID, primaryID, &PartialUploadError{Created: i + 1, Total: len(pages), Err: err}
		}
		if u.logger != nil {
			u.logger.Debug("auxiliary record created",
				zap.String("record", name),
				zap.Int("blocks", len(page)),
			)
		}
	}
	return collectionID, primaryID, nil
}

// clampBlocks enforces the rich-text length ceiling right before the write.
// The encoder already splits over-length text, so a clamp here firing means a
// construction bug upstream; it is logged loudly instead of failing the run.
func (u *Uploader) clampBlocks(page models.Page) []models.Block {
	out := make([]models.Block, len(page))
	for i, b := range page {
		if utf8.RuneCountInString(b.Text) > u.limits.MaxTextLen {
			if u.logger != nil {
				u.logger.Warn("block text over limit at upload, truncating",
					zap.String("kind", string(b.Kind)),
					zap.Int("length", utf8.RuneCountInString(b.Text)),
					zap.Int("limit", u.limits.MaxTextLen),
				)
			}
			b.Text = utils.TruncateRunes(b.Text, u.limits.MaxTextLen)
		}
		out[i] = b
	}
	return out
}

// fieldKeys returns the infobox keys in deterministic order for the
// collection schema.
func fieldKeys(infobox map[string]string) []string {
	keys := make([]string, 0, len(infobox))
	for k := range infobox {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
