package notion

import (
	"strings"

	"github.com/jomei/notionapi"
	"github.com/wikiport/wikiport/internal/models"
)

// richText wraps s in a single-segment rich text array.
func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}}
}

// plainText joins a rich text array back into plain text. Fetched segments
// carry PlainText; locally built ones only Text.Content.
func plainText(rts []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			sb.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			sb.WriteString(rt.Text.Content)
		}
	}
	return sb.String()
}

func basicBlock(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: t}
}

// toNotionBlocks converts domain Blocks into fresh API blocks. Fresh is the
// point: re-appending a fetched block verbatim would carry its ID and
// timestamps, which the API rejects on write.
func toNotionBlocks(blocks []models.Block) []notionapi.Block {
	out := make([]notionapi.Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case models.KindParagraph:
			out = append(out, &notionapi.ParagraphBlock{
				BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
				Paragraph:  notionapi.Paragraph{RichText: richText(b.Text)},
			})
		case models.KindHeadingMajor:
			out = append(out, &notionapi.Heading2Block{
				BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
				Heading2:   notionapi.Heading{RichText: richText(b.Text)},
			})
		case models.KindHeadingMinor:
			out = append(out, &notionapi.Heading3Block{
				BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
				Heading3:   notionapi.Heading{RichText: richText(b.Text)},
			})
		case models.KindBulletItem:
			out = append(out, &notionapi.BulletedListItemBlock{
				BasicBlock:       basicBlock(notionapi.BlockTypeBulletedListItem),
				BulletedListItem: notionapi.ListItem{RichText: richText(b.Text)},
			})
		case models.KindNumberedItem:
			out = append(out, &notionapi.NumberedListItemBlock{
				BasicBlock:       basicBlock(notionapi.BlockTypeNumberedListItem),
				NumberedListItem: notionapi.ListItem{RichText: richText(b.Text)},
			})
		case models.KindCallout:
			emoji := notionapi.Emoji(b.Icon)
			out = append(out, &notionapi.CalloutBlock{
				BasicBlock: basicBlock(notionapi.BlockTypeCallout),
				Callout: notionapi.Callout{
					RichText: richText(b.Text),
					Icon:     &notionapi.Icon{Type: "emoji", Emoji: &emoji},
				},
			})
		case models.KindDivider:
			out = append(out, &notionapi.DividerBlock{
				BasicBlock: basicBlock(notionapi.BlockTypeDivider),
				Divider:    notionapi.Divider{},
			})
		}
	}
	return out
}

// fromNotionBlocks converts fetched API blocks back into domain Blocks.
// Block types this tool never writes (images, embeds, ...) are skipped.
func fromNotionBlocks(blocks notionapi.Blocks) []models.Block {
	out := make([]models.Block, 0, len(blocks))
	for _, block := range blocks {
		switch b := block.(type) {
		case *notionapi.ParagraphBlock:
			out = append(out, models.Paragraph(plainText(b.Paragraph.RichText)))
		case *notionapi.Heading2Block:
			out = append(out, models.Block{Kind: models.KindHeadingMajor, Text: plainText(b.Heading2.RichText)})
		case *notionapi.Heading3Block:
			out = append(out, models.Block{Kind: models.KindHeadingMinor, Text: plainText(b.Heading3.RichText)})
		case *notionapi.BulletedListItemBlock:
			out = append(out, models.Block{Kind: models.KindBulletItem, Text: plainText(b.BulletedListItem.RichText)})
		case *notionapi.NumberedListItemBlock:
			out = append(out, models.Block{Kind: models.KindNumberedItem, Text: plainText(b.NumberedListItem.RichText)})
		case *notionapi.CalloutBlock:
			icon := ""
			if b.Callout.Icon != nil && b.Callout.Icon.Emoji != nil {
				icon = string(*b.Callout.Icon.Emoji)
			}
			out = append(out, models.Callout(plainText(b.Callout.RichText), icon))
		case *notionapi.DividerBlock:
			out = append(out, models.Divider())
		}
	}
	return out
}
