package extract

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// skipped elements never contribute text
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Head:     true,
	atom.Iframe:   true,
}

// block elements end a line
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.Tr: true, atom.Table: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Dd: true, atom.Dt: true, atom.Dl: true, atom.Header: true, atom.Footer: true,
	atom.Main: true, atom.Aside: true, atom.Blockquote: true, atom.Pre: true,
	atom.Figcaption: true, atom.Hr: true,
}

// HTMLExtractor flattens HTML into lines, one per block element.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (HTMLExtractor) Name() string { return "html" }

// CanHandle accepts HTML-tagged content and untagged markup.
func (HTMLExtractor) CanHandle(raw menu.RawMenuText) bool {
	switch raw.ContentType {
	case menu.ContentHTML:
		return true
	case "":
		return LooksLikeHTML(raw.Text)
	}
	return false
}

// Extract parses the markup and writes the visible text. Table cells are
// separated by a double space so wide rows split back into items later.
func (HTMLExtractor) Extract(ctx context.Context, raw menu.RawMenuText) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := html.Parse(strings.NewReader(raw.Text))
	if err != nil {
		return "", &Error{Extractor: "html", Message: "parse failed", Cause: err}
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(collapseInline(n.Data))
			return
		case html.ElementNode:
			if skipped[n.DataAtom] {
				return
			}
			switch n.DataAtom {
			case atom.Br:
				buf.WriteByte('\n')
				return
			case atom.Td, atom.Th:
				buf.WriteString("  ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && block[n.DataAtom] {
			buf.WriteByte('\n')
		}
	}
	walk(doc)

	return tidyLines(buf.String()), nil
}

// collapseInline folds source formatting whitespace inside a text node.
func collapseInline(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r' || b == '\f'
}

// tidyLines trims every line and drops empty ones.
func tidyLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
