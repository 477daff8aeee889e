package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docchat"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	_ docchat.Extractor = (*Extractor)(nil)
	_ docchat.Converter = (*TextConverter)(nil)
)

// Extractor keeps the whole page as content and reads the title from <title>.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and the unmodified page HTML.
func (e *Extractor) Extract(body string) (*docchat.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "failed to parse HTML: %v", err)
	}
	return &docchat.ExtractResult{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		ContentHTML: body,
	}, nil
}

// invisible elements never contribute text.
const invisible = "head, script, style, noscript, template, svg, iframe"

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// TextConverter renders HTML as its visible text, one block element per line.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert strips markup, scripts and styles and returns the remaining text
// with whitespace collapsed inside each line and blank lines dropped.
func (c *TextConverter) Convert(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", docchat.Errorf(docchat.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find(invisible).Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		writeText(&b, n, false)
	}

	var lines []string
	for line := range strings.SplitSeq(b.String(), "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// writeText writes the text under n. Line breaks come from block
// boundaries, except inside <pre> where the source lines are kept.
func writeText(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(n.Data)
			return
		}
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
	case html.ElementNode, html.DocumentNode:
		block := blockElements[n.DataAtom]
		if block {
			b.WriteByte('\n')
		}
		pre = pre || n.DataAtom == atom.Pre
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(b, c, pre)
		}
		if block {
			b.WriteByte('\n')
		}
	}
}
