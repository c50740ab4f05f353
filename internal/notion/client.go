package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/models"
	"go.uber.org/zap"
)

// Client implements Store against the Notion API.
type Client struct {
	api          *notionapi.Client
	parentPageID string
	logger       *zap.Logger // optional; when set, logs store calls
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a store client from config.
func NewClient(cfg *config.NotionConfig, opts ...ClientOption) *Client {
	c := &Client{
		api:          notionapi.NewClient(notionapi.Token(cfg.Token)),
		parentPageID: cfg.ParentPageID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateCollection creates a database under the configured parent page with a
// title property plus one rich-text property per field key.
func (c *Client) CreateCollection(ctx context.Context, name string, fieldKeys []string) (string, error) {
	properties := notionapi.PropertyConfigs{
		TitleProperty: notionapi.TitlePropertyConfig{
			Type:  notionapi.PropertyConfigTypeTitle,
			Title: struct{}{},
		},
	}
	for _, key := range fieldKeys {
		properties[key] = notionapi.RichTextPropertyConfig{
			Type:     notionapi.PropertyConfigTypeRichText,
			RichText: struct{}{},
		}
	}
	db, err := c.api.Database.Create(ctx, &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(c.parentPageID),
		},
		Title:      richText(name),
		Properties: properties,
	})
	if err != nil {
		return "", fmt.Errorf("create collection: %w", err)
	}
	if c.logger != nil {
		c.logger.Debug("collection created", zap.String("name", name), zap.String("id", string(db.ID)))
	}
	return string(db.ID), nil
}

// CreateRecord creates a database page with the given title, field values,
// and child blocks.
func (c *Client) CreateRecord(ctx context.Context, collectionID, displayName string, fields map[string]string, children []models.Block) (string, error) {
	properties := notionapi.Properties{
		TitleProperty: notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(displayName),
		},
	}
	for key, value := range fields {
		properties[key] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(value),
		}
	}
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(collectionID),
		},
		Properties: properties,
		Children:   toNotionBlocks(children),
	})
	if err != nil {
		return "", fmt.Errorf("create record %q: %w", displayName, err)
	}
	if c.logger != nil {
		c.logger.Debug("record created", zap.String("name", displayName), zap.Int("children", len(children)))
	}
	return string(page.ID), nil
}

// QueryByTitleContains queries the collection for records whose title
// contains substring, following pagination cursors to exhaustion.
func (c *Client) QueryByTitleContains(ctx context.Context, collectionID, substring string) ([]models.Record, error) {
	var records []models.Record
	var cursor notionapi.Cursor
	for {
		resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(collectionID), &notionapi.DatabaseQueryRequest{
			Filter:      titleContainsFilter(substring),
			StartCursor: cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("query collection: %w", err)
		}
		for _, page := range resp.Results {
			records = append(records, models.Record{
				ID:          string(page.ID),
				DisplayName: pageTitle(&page),
				Archived:    page.Archived,
			})
		}
		if !resp.HasMore {
			return records, nil
		}
		cursor = resp.NextCursor
	}
}

// GetChildren fetches a record's child blocks, following pagination cursors,
// and converts them to domain Blocks.
func (c *Client) GetChildren(ctx context.Context, recordID string) ([]models.Block, error) {
	var blocks []models.Block
	var cursor notionapi.Cursor
	for {
		resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(recordID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, fmt.Errorf("get children of %s: %w", recordID, err)
		}
		blocks = append(blocks, fromNotionBlocks(resp.Results)...)
		if !resp.HasMore {
			return blocks, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// AppendChildren appends blocks to the record in one call. Callers keep the
// batch within the write-batch ceiling.
func (c *Client) AppendChildren(ctx context.Context, recordID string, blocks []models.Block) error {
	_, err := c.api.Block.AppendChildren(ctx, notionapi.BlockID(recordID), &notionapi.AppendBlockChildrenRequest{
		Children: toNotionBlocks(blocks),
	})
	if err != nil {
		return fmt.Errorf("append %d blocks to %s: %w", len(blocks), recordID, err)
	}
	return nil
}

// SetArchived updates the record's archived flag.
func (c *Client) SetArchived(ctx context.Context, recordID string, archived bool) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(recordID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   archived,
	})
	if err != nil {
		return fmt.Errorf("set archived on %s: %w", recordID, err)
	}
	return nil
}

// titleContainsFilter builds the query filter for a substring match on the
// title property. The filter condition is rich_text: the API applies it to
// title properties as well, and the client library models no title-specific
// condition.
func titleContainsFilter(substring string) notionapi.PropertyFilter {
	return notionapi.PropertyFilter{
		Property: TitleProperty,
		RichText: &notionapi.TextFilterCondition{Contains: substring},
	}
}

// pageTitle extracts the plain title text of a queried page.
func pageTitle(page *notionapi.Page) string {
	prop, ok := page.Properties[TitleProperty]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok {
		return ""
	}
	return plainText(title.Title)
}
