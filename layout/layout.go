// Package layout turns a text annotation's content into positioned lines.
// Plain text, markdown and pasted HTML all reduce to the same block/span
// model before wrapping, so the renderer and the export path share one
// line-breaking implementation.
package layout

import (
	"strings"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/fonts"
)

// Span is a run of text with uniform styling. Size is absolute, already
// scaled for headings.
type Span struct {
	Text   string
	Size   float64
	Bold   bool
	Italic bool
}

// Block is a paragraph-level unit: spans plus block styling.
type Block struct {
	Spans  []Span
	Indent float64
	Bullet bool
}

// Line is one wrapped output line in annotation-local coordinates.
type Line struct {
	Spans  []Span
	X      float64
	Y      float64 // top edge of the line box
	Width  float64
	Height float64
}

const bulletIndent = 15

// Engine wraps annotation content into lines using real font metrics.
type Engine struct {
	registry   *fonts.Registry
	lineHeight float64 // multiplier over font size
}

// Option configures an Engine.
type Option func(*Engine)

// WithLineHeight sets the line height multiplier.
func WithLineHeight(h float64) Option {
	return func(e *Engine) {
		if h > 0 {
			e.lineHeight = h
		}
	}
}

// NewEngine creates a layout engine backed by the given font registry.
func NewEngine(registry *fonts.Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, lineHeight: 1.2}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout converts a text annotation into wrapped lines no wider than
// maxWidth. The annotation's Format selects the parser.
func (e *Engine) Layout(a *annotation.TextAnnotation, maxWidth float64) []Line {
	size := a.FontSize
	if size <= 0 {
		size = 11
	}
	var blocks []Block
	switch a.Format {
	case annotation.FormatMarkdown:
		blocks = ParseMarkdown(a.Content, size)
	case annotation.FormatHTML:
		blocks = ParseHTML(a.Content, size)
	default:
		blocks = parsePlain(a.Content, size)
	}
	return e.wrap(blocks, a.FontFamily, maxWidth)
}

// Height returns the total height of a line set.
func Height(lines []Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	last := lines[len(lines)-1]
	return last.Y + last.Height
}

func parsePlain(content string, size float64) []Block {
	var blocks []Block
	for _, line := range strings.Split(content, "\n") {
		blocks = append(blocks, Block{Spans: []Span{{Text: line, Size: size}}})
	}
	return blocks
}

// wrap breaks each block into lines that fit maxWidth, measuring words with
// the family's face. Words wider than a full line are split at character
// granularity.
func (e *Engine) wrap(blocks []Block, family string, maxWidth float64) []Line {
	face := e.registry.Lookup(family)
	var lines []Line
	y := 0.0

	for _, block := range blocks {
		x := block.Indent
		if block.Bullet {
			x += bulletIndent
		}
		width := maxWidth - x
		if width <= 0 {
			width = maxWidth
		}

		blockSize := maxSpanSize(block.Spans)
		lineHeight := blockSize * e.lineHeight

		var current []Span
		currentWidth := 0.0
		flush := func() {
			lines = append(lines, Line{
				Spans:  current,
				X:      x,
				Y:      y,
				Width:  currentWidth,
				Height: lineHeight,
			})
			y += lineHeight
			current = nil
			currentWidth = 0
		}

		empty := true
		for _, span := range block.Spans {
			for _, token := range tokenize(span.Text) {
				empty = false
				w := face.Measure(token, span.Size).Width
				if token == " " {
					if currentWidth+w > width {
						flush()
					} else if len(current) > 0 {
						current = appendSpan(current, span, " ", &currentWidth, w)
					}
					continue
				}
				if currentWidth+w > width && len(current) > 0 {
					flush()
				}
				if w > width {
					// Character-level fallback for single oversized words.
					for _, part := range splitToWidth(face, token, span.Size, width) {
						pw := face.Measure(part, span.Size).Width
						if currentWidth+pw > width && len(current) > 0 {
							flush()
						}
						current = appendSpan(current, span, part, &currentWidth, pw)
					}
					continue
				}
				current = appendSpan(current, span, token, &currentWidth, w)
			}
		}
		if len(current) > 0 || empty {
			flush()
		}
	}
	return lines
}

func appendSpan(line []Span, style Span, text string, lineWidth *float64, w float64) []Span {
	*lineWidth += w
	if n := len(line); n > 0 && line[n-1].sameStyle(style) {
		line[n-1].Text += text
		return line
	}
	style.Text = text
	return append(line, style)
}

func (s Span) sameStyle(o Span) bool {
	return s.Size == o.Size && s.Bold == o.Bold && s.Italic == o.Italic
}

func maxSpanSize(spans []Span) float64 {
	size := 0.0
	for _, s := range spans {
		if s.Size > size {
			size = s.Size
		}
	}
	if size == 0 {
		size = 11
	}
	return size
}

// tokenize splits text into words and single-space tokens, collapsing runs
// of whitespace.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	space := false
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if word.Len() > 0 {
				tokens = append(tokens, word.String())
				word.Reset()
			}
			space = true
			continue
		}
		if space {
			tokens = append(tokens, " ")
			space = false
		}
		word.WriteRune(r)
	}
	if word.Len() > 0 {
		tokens = append(tokens, word.String())
	}
	return tokens
}

func splitToWidth(face *fonts.Face, word string, size, width float64) []string {
	var parts []string
	var part strings.Builder
	partWidth := 0.0
	for _, r := range word {
		rw := face.Measure(string(r), size).Width
		if partWidth+rw > width && part.Len() > 0 {
			parts = append(parts, part.String())
			part.Reset()
			partWidth = 0
		}
		part.WriteRune(r)
		partWidth += rw
	}
	if part.Len() > 0 {
		parts = append(parts, part.String())
	}
	return parts
}
