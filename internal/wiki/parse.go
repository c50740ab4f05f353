package wiki

import (
	"fmt"
	"io"
	"strings"

	"github.com/wikiport/wikiport/internal/models"
	"github.com/wikiport/wikiport/pkg/utils"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseArticle parses article HTML into an Article: content sections in
// document order plus infobox metadata. Parsing is best-effort; markup with
// no recognized content elements yields an article with zero sections, not
// an error.
func ParseArticle(title string, r io.Reader) (*models.Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	article := &models.Article{
		Title:   title,
		Infobox: extractInfobox(doc),
	}
	collectSections(doc, &article.Sections)
	return article, nil
}

// collectSections walks the DOM tree and appends one Section per recognized
// content element (h2, h3, p, ul, ol, table). Matched elements are not
// descended into, so a list yields one Section rather than one per nesting
// level.
func collectSections(n *html.Node, sections *[]models.Section) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript:
			return

		case atom.H2, atom.H3:
			level := 2
			if n.DataAtom == atom.H3 {
				level = 3
			}
			if text := collectText(n); text != "" {
				*sections = append(*sections, models.Section{
					Type:  models.SectionHeading,
					Level: level,
					Text:  text,
				})
			}
			return

		case atom.P:
			if text := collectText(n); text != "" {
				*sections = append(*sections, models.Section{
					Type: models.SectionParagraph,
					Text: text,
				})
			}
			return

		case atom.Ul, atom.Ol:
			items := collectListItems(n)
			if len(items) > 0 {
				*sections = append(*sections, models.Section{
					Type:    models.SectionList,
					Ordered: n.DataAtom == atom.Ol,
					Items:   items,
				})
			}
			return

		case atom.Table:
			rows := collectTableRows(n)
			if len(rows) > 0 {
				*sections = append(*sections, models.Section{
					Type: models.SectionTable,
					Rows: rows,
				})
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectSections(c, sections)
	}
}

// collectListItems returns the text of every li under the list node, in
// document order.
func collectListItems(list *html.Node) []string {
	var items []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li {
			if text := collectText(n); text != "" {
				items = append(items, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return items
}

// collectTableRows returns cell texts row by row. Cells are the direct
// th/td children of each tr.
func collectTableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
					cells = append(cells, collectText(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return rows
}

// collectText extracts all visible text from a node subtree, with
// whitespace collapsed and text nodes joined by single spaces.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return utils.CollapseWhitespace(sb.String())
}
