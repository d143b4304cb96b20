package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/observability"
)

// Flattener converts annotations into content stream operations. Annotation
// coordinates are top-left origin; content streams are bottom-left origin, so
// every y coordinate is flipped against the page height.
//
// The flattener assigns resource names (/F1, /Im1, ...) as it encounters
// fonts and image URLs; callers bind those names to actual resources when
// assembling the page.
type Flattener struct {
	logger     observability.Logger
	pageHeight float64

	fonts  map[string]Name
	images map[string]Name
}

// Option configures a Flattener.
type Option func(*Flattener)

func WithLogger(l observability.Logger) Option {
	return func(f *Flattener) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFlattener creates a flattener for pages of the given height in document
// units.
func NewFlattener(pageHeight float64, opts ...Option) *Flattener {
	f := &Flattener{
		logger:     observability.NopLogger{},
		pageHeight: pageHeight,
		fonts:      map[string]Name{},
		images:     map[string]Name{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FlattenPage renders every annotation in the list into one operation
// sequence, in list order. Annotations from other pages must be filtered out
// by the caller.
func (f *Flattener) FlattenPage(annots []annotation.Annotation) []Op {
	start := time.Now()
	var ops []Op
	for _, a := range annots {
		switch v := a.(type) {
		case *annotation.TextAnnotation:
			ops = append(ops, f.textOps(v)...)
		case *annotation.DrawingAnnotation:
			ops = append(ops, f.drawingOps(v)...)
		case *annotation.SignatureAnnotation:
			ops = append(ops, f.signatureOps(v)...)
		case *annotation.ImageAnnotation:
			ops = append(ops, f.imageOps(v)...)
		}
	}
	f.logger.Debug("page flattened",
		observability.Int("annotations", len(annots)),
		observability.Int("operations", len(ops)),
		observability.Float64(observability.MetricFlattenTime, time.Since(start).Seconds()),
	)
	return ops
}

// FontNames returns the font family to resource name mapping accumulated so
// far, sorted by resource name.
func (f *Flattener) FontNames() map[string]Name { return f.fonts }

// ImageNames returns the image URL to resource name mapping accumulated so
// far.
func (f *Flattener) ImageNames() map[string]Name { return f.images }

// ResourceOrder returns image URLs in stable /Im1, /Im2, ... order so the
// caller can embed XObjects deterministically.
func (f *Flattener) ResourceOrder() []string {
	urls := make([]string, 0, len(f.images))
	for url := range f.images {
		urls = append(urls, url)
	}
	sort.Slice(urls, func(i, j int) bool { return f.images[urls[i]] < f.images[urls[j]] })
	return urls
}

func (f *Flattener) fontName(family string) Name {
	if name, ok := f.fonts[family]; ok {
		return name
	}
	name := Name(fmt.Sprintf("F%d", len(f.fonts)+1))
	f.fonts[family] = name
	return name
}

func (f *Flattener) imageName(url string) Name {
	if name, ok := f.images[url]; ok {
		return name
	}
	name := Name(fmt.Sprintf("Im%d", len(f.images)+1))
	f.images[url] = name
	return name
}

func (f *Flattener) flipY(y float64) float64 { return f.pageHeight - y }

func (f *Flattener) textOps(a *annotation.TextAnnotation) []Op {
	size := a.FontSize
	if size <= 0 {
		size = 11
	}
	font := f.fontName(a.FontFamily)
	// First baseline sits one font size below the annotation's top edge.
	baseline := f.flipY(a.Position.Y + size)
	ops := []Op{
		op("BT"),
		op("Tf", font, Number(size)),
		op("rg", Number(a.Color.R), Number(a.Color.G), Number(a.Color.B)),
		op("Tm", Number(1), Number(0), Number(0), Number(1), Number(a.Position.X), Number(baseline)),
	}
	first := true
	for _, line := range splitLines(a.Content) {
		if !first {
			ops = append(ops, op("Td", Number(0), Number(-size*1.2)))
		}
		ops = append(ops, op("Tj", String(line)))
		first = false
	}
	return append(ops, op("ET"))
}

func (f *Flattener) drawingOps(a *annotation.DrawingAnnotation) []Op {
	var ops []Op
	for _, stroke := range a.Paths {
		if len(stroke.Points) < 2 {
			continue
		}
		ops = append(ops,
			op("q"),
			op("w", Number(stroke.Thickness)),
			op("J", Number(1)),
			op("j", Number(1)),
			op("RG", Number(stroke.Color.R), Number(stroke.Color.G), Number(stroke.Color.B)),
		)
		ops = append(ops, f.pathOps(stroke.Points)...)
		ops = append(ops, op("S"), op("Q"))
	}
	return ops
}

func (f *Flattener) signatureOps(a *annotation.SignatureAnnotation) []Op {
	if len(a.Path) < 2 {
		return nil
	}
	ops := []Op{
		op("q"),
		op("w", Number(1.5)),
		op("J", Number(1)),
		op("j", Number(1)),
		op("RG", Number(0), Number(0), Number(0)),
	}
	ops = append(ops, f.pathOps(a.Path)...)
	return append(ops, op("S"), op("Q"))
}

func (f *Flattener) imageOps(a *annotation.ImageAnnotation) []Op {
	if a.URL == "" {
		return nil
	}
	name := f.imageName(a.URL)
	// cm scales the unit image square to the annotation box; the translation
	// targets the box's bottom-left corner in page space.
	return []Op{
		op("q"),
		op("cm",
			Number(a.Size.Width), Number(0), Number(0), Number(a.Size.Height),
			Number(a.Position.X), Number(f.flipY(a.Position.Y+a.Size.Height)),
		),
		op("Do", name),
		op("Q"),
	}
}

func (f *Flattener) pathOps(points []annotation.Position) []Op {
	ops := make([]Op, 0, len(points))
	ops = append(ops, op("m", Number(points[0].X), Number(f.flipY(points[0].Y))))
	for _, p := range points[1:] {
		ops = append(ops, op("l", Number(p.X), Number(f.flipY(p.Y))))
	}
	return ops
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
