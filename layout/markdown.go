package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown converts markdown content to blocks. Headings scale the base
// size, list items become bullet blocks, emphasis maps to span styling.
func ParseMarkdown(source string, baseSize float64) []Block {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []Block
	walkMarkdown(doc, src, baseSize, &blocks)
	return blocks
}

func walkMarkdown(node ast.Node, src []byte, baseSize float64, blocks *[]Block) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			*blocks = append(*blocks, Block{
				Spans: inlineSpans(n, src, Span{Size: headingSize(baseSize, n.Level), Bold: true}),
			})
		case *ast.Paragraph:
			*blocks = append(*blocks, Block{
				Spans: inlineSpans(n, src, Span{Size: baseSize}),
			})
		case *ast.List:
			walkMarkdown(n, src, baseSize, blocks)
		case *ast.ListItem:
			block := Block{Bullet: true}
			for inner := n.FirstChild(); inner != nil; inner = inner.NextSibling() {
				block.Spans = append(block.Spans, inlineSpans(inner, src, Span{Size: baseSize})...)
			}
			*blocks = append(*blocks, block)
		}
	}
}

func headingSize(base float64, level int) float64 {
	switch {
	case level == 1:
		return base * 2.0
	case level == 2:
		return base * 1.5
	default:
		return base * 1.25
	}
}

// inlineSpans flattens a block's inline children into styled spans. Nested
// emphasis accumulates: bold inside italic yields bold italic.
func inlineSpans(node ast.Node, src []byte, style Span) []Span {
	var spans []Span
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			s := style
			s.Text = string(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				s.Text += " "
			}
			spans = append(spans, s)
		case *ast.Emphasis:
			inner := style
			if n.Level >= 2 {
				inner.Bold = true
			} else {
				inner.Italic = true
			}
			spans = append(spans, inlineSpans(n, src, inner)...)
		case *ast.CodeSpan:
			s := style
			s.Text = string(n.Text(src))
			spans = append(spans, s)
		case *ast.Link:
			spans = append(spans, inlineSpans(n, src, style)...)
		default:
			if text := strings.TrimSpace(string(child.Text(src))); text != "" {
				s := style
				s.Text = text
				spans = append(spans, s)
			}
		}
	}
	return spans
}
