package wiki

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractInfobox finds the article's infobox table and returns its two-column
// rows as a key/value map. Rows missing either column are skipped. Duplicate
// keys resolve last-write-wins: the lowest row in the table wins. Returns an
// empty map when the article has no infobox.
func extractInfobox(doc *html.Node) map[string]string {
	fields := make(map[string]string)
	infobox := findInfoboxTable(doc)
	if infobox == nil {
		return fields
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			key, value := infoboxRow(n)
			if key != "" && value != "" {
				fields[key] = value
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(infobox)
	return fields
}

// findInfoboxTable returns the first table whose class contains "infobox".
func findInfoboxTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		for _, a := range n.Attr {
			if a.Key == "class" && strings.Contains(a.Val, "infobox") {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findInfoboxTable(c); t != nil {
			return t
		}
	}
	return nil
}

// infoboxRow returns the (th text, td text) pair of a row, or empty strings
// when the row does not have both cells.
func infoboxRow(tr *html.Node) (string, string) {
	var key, value string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			if key == "" {
				key = collectText(c)
			}
		case atom.Td:
			if value == "" {
				value = collectText(c)
			}
		}
	}
	return key, value
}
