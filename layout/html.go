package layout

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML converts pasted HTML to blocks. Only a small structural subset
// is honored (headings, paragraphs, lists, inline emphasis, line breaks);
// script and style subtrees are dropped entirely.
func ParseHTML(source string, baseSize float64) []Block {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		// html.Parse only fails on reader errors; a string reader cannot
		// produce one, but fall back to plain text if it ever does.
		return parsePlain(source, baseSize)
	}
	w := &htmlWalker{baseSize: baseSize}
	w.walk(doc)
	w.endBlock()
	return w.blocks
}

type htmlWalker struct {
	baseSize float64
	blocks   []Block
	current  *Block
}

func (w *htmlWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head:
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			w.endBlock()
			w.blocks = append(w.blocks, Block{
				Spans: []Span{{
					Text: extractText(n),
					Size: headingSize(w.baseSize, headingLevel(n.DataAtom)),
					Bold: true,
				}},
			})
			return
		case atom.P, atom.Div:
			w.endBlock()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.inline(c, Span{Size: w.baseSize})
			}
			w.endBlock()
			return
		case atom.Li:
			w.endBlock()
			w.current = &Block{Bullet: true}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.inline(c, Span{Size: w.baseSize})
			}
			w.endBlock()
			return
		case atom.Br:
			w.endBlock()
			return
		}
	}
	if n.Type == html.TextNode {
		w.inline(n, Span{Size: w.baseSize})
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// inline appends an inline subtree to the current block, carrying emphasis
// styling down.
func (w *htmlWalker) inline(n *html.Node, style Span) {
	switch n.Type {
	case html.TextNode:
		text := collapseSpace(n.Data)
		if strings.TrimSpace(text) == "" {
			return
		}
		if w.current == nil {
			w.current = &Block{}
		}
		style.Text = text
		w.current.Spans = append(w.current.Spans, style)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.B, atom.Strong:
			style.Bold = true
		case atom.I, atom.Em:
			style.Italic = true
		case atom.Br:
			w.endBlock()
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.inline(c, style)
	}
}

func (w *htmlWalker) endBlock() {
	if w.current != nil && len(w.current.Spans) > 0 {
		w.blocks = append(w.blocks, *w.current)
	}
	w.current = nil
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	default:
		return 3
	}
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(collapseSpace(sb.String()))
}

// collapseSpace folds whitespace runs to single spaces, keeping boundary
// spaces so adjacent text nodes stay separated.
func collapseSpace(s string) string {
	out := strings.Join(strings.Fields(s), " ")
	if out == "" {
		return out
	}
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		out = " " + out
	}
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	return out
}
