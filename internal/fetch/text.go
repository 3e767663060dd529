package fetch

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// TextResult is the outcome of plain-text extraction from HTML.
type TextResult struct {
	// Title is the content of the first <title> element, if any.
	Title string

	// Text is the visible text with scripts, styles, and markup
	// stripped, whitespace collapsed, and Unicode NFC-normalized.
	Text string
}

// blockElements are elements whose end implies a line break in the
// extracted text, so words from adjacent blocks never run together.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"header": true, "footer": true, "aside": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "dl": true, "dt": true, "dd": true,
	"table": true, "tr": true, "td": true, "th": true,
	"blockquote": true, "pre": true, "figure": true, "figcaption": true,
	"br": true, "hr": true, "form": true, "nav": true,
}

// skippedElements are elements whose subtree contributes no visible text.
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "object": true, "svg": true, "template": true,
}

// ExtractText reduces an HTML document to its visible text.
//
// Token budgets should be spent on content, not markup: for typical
// pages the extracted text estimates at a fraction of the raw HTML.
// Malformed input degrades gracefully because the parser repairs it;
// if parsing fails outright the source is returned unchanged.
func ExtractText(src string) TextResult {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return TextResult{Text: src}
	}

	var (
		b     strings.Builder
		title string
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			if n.Data == "title" {
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}

		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return TextResult{
		Title: title,
		Text:  norm.NFC.String(collapseWhitespace(b.String())),
	}
}

// collapseWhitespace squeezes runs of spaces within lines and drops
// blank lines, keeping one newline between blocks.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, "\n")
}
