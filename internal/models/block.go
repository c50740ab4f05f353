// Package models defines core data structures for articles, blocks, and destination records.
package models

// BlockKind identifies the Notion block type a Block maps to.
type BlockKind string

const (
	KindParagraph    BlockKind = "paragraph"
	KindHeadingMajor BlockKind = "heading_2"
	KindHeadingMinor BlockKind = "heading_3"
	KindBulletItem   BlockKind = "bulleted_list_item"
	KindNumberedItem BlockKind = "numbered_list_item"
	KindCallout      BlockKind = "callout"
	KindDivider      BlockKind = "divider"
)

// Block is the atomic transfer unit. Text must never exceed the configured
// maximum rich-text length; over-length source text is split into multiple
// Blocks before construction, never truncated here.
type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text,omitempty"`
	// Icon is the emoji icon for callout blocks; empty for other kinds.
	Icon string `json:"icon,omitempty"`
}

// Paragraph returns a paragraph Block with the given text.
func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

// Callout returns a callout Block with the given text and emoji icon.
func Callout(text, icon string) Block {
	return Block{Kind: KindCallout, Text: text, Icon: icon}
}

// Divider returns a divider Block.
func Divider() Block {
	return Block{Kind: KindDivider}
}

// Page is a transient grouping of Blocks sized to the destination's
// per-record child ceiling. Pages are never persisted; they only decide how
// many destination records an article needs.
type Page []Block
