package models

// SectionType identifies the kind of content element a Section holds.
type SectionType string

const (
	SectionHeading   SectionType = "heading"
	SectionParagraph SectionType = "paragraph"
	SectionList      SectionType = "list"
	SectionTable     SectionType = "table"
)

// Section is one content element of a parsed article, in document order.
// Which fields are populated depends on Type.
type Section struct {
	Type SectionType

	// Level is the heading level (2 or 3). Headings only.
	Level int
	// Text is the heading or paragraph text. Headings and paragraphs only.
	Text string

	// Ordered reports whether a list is numbered. Lists only.
	Ordered bool
	// Items holds list item texts in list order. Lists only.
	Items []string

	// Rows holds table cell texts, row by row. Tables only.
	Rows [][]string
}

// Article is a fetched and parsed source document. It is read-only after
// parsing: the pipeline derives Blocks from it but never mutates it.
type Article struct {
	// Title is the normalized article title (underscores replaced by spaces).
	Title string
	// Sections are the article's content elements in original order.
	Sections []Section
	// Infobox holds key/value metadata extracted from the article's infobox
	// table. Empty (not nil) when the article has no infobox.
	Infobox map[string]string
}
