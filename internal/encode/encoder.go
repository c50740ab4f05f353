// Package encode converts parsed articles into ordered, length-bounded block
// sequences and groups them into destination-sized pages.
package encode

import (
	"strings"
	"unicode/utf8"

	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/models"
	"github.com/wikiport/wikiport/pkg/utils"
	"go.uber.org/zap"
)

const (
	summaryText = "📖 This is a comprehensive Wikipedia article imported into Notion. " +
		"Content is split across multiple pages for better organization."
	summaryIcon = "📚"

	tableIcon       = "📊"
	tablePrefix     = "📊 Table Data:\n\n"
	tableTruncation = "\n\n[Table truncated...]"

	editMarker = "[edit]"
)

// Encoder turns an Article's sections into a flat ordered Block sequence.
// Every emitted Block's text stays within the configured maximum length;
// over-length source text is split before construction.
type Encoder struct {
	limits *config.LimitsConfig
	logger *zap.Logger // optional; when set, logs dropped elements
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithLogger sets a logger for debug output (dropped headings, table truncation).
func WithLogger(l *zap.Logger) EncoderOption {
	return func(e *Encoder) { e.logger = l }
}

// NewEncoder creates an encoder with the given limits.
func NewEncoder(limits *config.LimitsConfig, opts ...EncoderOption) *Encoder {
	e := &Encoder{limits: limits}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode produces the article's Block sequence: a summary callout and divider
// first (once per article, not per page), then one or more Blocks per
// recognized section in original order. An article with no content sections
// encodes to an empty sequence.
func (e *Encoder) Encode(article *models.Article) []models.Block {
	if len(article.Sections) == 0 {
		return nil
	}
	blocks := []models.Block{
		models.Callout(summaryText, summaryIcon),
		models.Divider(),
	}
	for _, s := range article.Sections {
		switch s.Type {
		case models.SectionHeading:
			blocks = e.appendHeading(blocks, s)
		case models.SectionParagraph:
			blocks = e.appendParagraph(blocks, s.Text)
		case models.SectionList:
			blocks = e.appendList(blocks, s)
		case models.SectionTable:
			blocks = e.appendTable(blocks, s.Rows)
		}
	}
	return blocks
}

// appendHeading emits one heading Block. Editorial markup is stripped;
// headings left empty or still over-length are dropped, never chunked.
// Major headings get a preceding divider for visual separation.
func (e *Encoder) appendHeading(blocks []models.Block, s models.Section) []models.Block {
	text := utils.CollapseWhitespace(strings.ReplaceAll(s.Text, editMarker, ""))
	if text == "" || utf8.RuneCountInString(text) > e.limits.MaxTextLen {
		if e.logger != nil {
			e.logger.Debug("dropping heading", zap.Int("level", s.Level), zap.String("text", utils.Truncate(text, 80)))
		}
		return blocks
	}
	if s.Level == 2 {
		blocks = append(blocks, models.Divider())
		return append(blocks, models.Block{Kind: models.KindHeadingMajor, Text: text})
	}
	return append(blocks, models.Block{Kind: models.KindHeadingMinor, Text: text})
}

// appendParagraph drops paragraphs at or below the noise threshold and chunks
// the rest into one or more paragraph Blocks.
func (e *Encoder) appendParagraph(blocks []models.Block, text string) []models.Block {
	if utf8.RuneCountInString(text) <= e.limits.MinParagraphLen {
		return blocks
	}
	for _, piece := range chunkText(text, e.limits.ChunkStride, e.limits.MaxTextLen) {
		blocks = append(blocks, models.Paragraph(piece))
	}
	return blocks
}

// appendList emits one Block per list item of the matching kind, chunking
// over-length items and dropping items at or below the noise threshold.
func (e *Encoder) appendList(blocks []models.Block, s models.Section) []models.Block {
	kind := models.KindBulletItem
	if s.Ordered {
		kind = models.KindNumberedItem
	}
	for _, item := range s.Items {
		if utf8.RuneCountInString(item) <= e.limits.MinListItemLen {
			continue
		}
		for _, piece := range chunkText(item, e.limits.ChunkStride, e.limits.MaxTextLen) {
			blocks = append(blocks, models.Block{Kind: kind, Text: piece})
		}
	}
	return blocks
}

// appendTable serializes a table row by row into one pipe-delimited callout
// Block. Tables are never split across Blocks; an over-length blob is
// truncated with an explicit marker instead.
func (e *Encoder) appendTable(blocks []models.Block, rows [][]string) []models.Block {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteByte('\n')
	}
	blob := strings.TrimSpace(sb.String())
	if blob == "" {
		return blocks
	}
	if utf8.RuneCountInString(blob) > e.limits.CalloutTextLimit {
		if e.logger != nil {
			e.logger.Debug("truncating table blob", zap.Int("length", utf8.RuneCountInString(blob)))
		}
		blob = clampRunes(blob, e.limits.CalloutTextLimit) + tableTruncation
	}
	text := tablePrefix + blob
	// The prefix and marker leave headroom below the rich-text limit, but
	// clamp anyway so a misconfigured callout limit cannot leak through.
	if utf8.RuneCountInString(text) > e.limits.MaxTextLen {
		text = utils.TruncateRunes(text, e.limits.MaxTextLen)
	}
	return append(blocks, models.Callout(text, tableIcon))
}
