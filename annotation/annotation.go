// Package annotation defines the markup objects a user places on top of a
// rendered PDF page: text boxes, freehand drawings, signatures and images.
// All coordinates are unscaled document coordinates, independent of the
// current display zoom.
package annotation

import "time"

// Kind identifies an annotation variant.
type Kind string

const (
	KindText      Kind = "text"
	KindDrawing   Kind = "drawing"
	KindSignature Kind = "signature"
	KindImage     Kind = "image"
)

// Position is a point in document coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an extent in document coordinates.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned box in document coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies within the rectangle, borders included.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Stroke is one committed freehand path: an ordered point sequence with its
// paint attributes. Strokes are immutable once committed.
type Stroke struct {
	Points    []Position `json:"points"`
	Color     Color      `json:"color"`
	Thickness float64    `json:"thickness"`
}

// Annotation represents a page markup object.
type Annotation interface {
	Kind() Kind
	ID() string
	Page() int
	Bounds() Rect
	Base() *BaseAnnotation
	Clone() Annotation
}

// BaseAnnotation provides the fields shared by all variants. ID, PageNumber
// and CreatedAt are assigned at creation and never change afterwards.
type BaseAnnotation struct {
	AnnotationID string
	PageNumber   int
	Position     Position
	Size         Size
	CreatedAt    time.Time
}

func (a *BaseAnnotation) ID() string   { return a.AnnotationID }
func (a *BaseAnnotation) Page() int    { return a.PageNumber }
func (a *BaseAnnotation) Bounds() Rect {
	return Rect{X: a.Position.X, Y: a.Position.Y, Width: a.Size.Width, Height: a.Size.Height}
}
func (a *BaseAnnotation) Base() *BaseAnnotation { return a }

// ContentFormat identifies how a text annotation's content is encoded.
type ContentFormat string

const (
	FormatPlain    ContentFormat = "plain"
	FormatMarkdown ContentFormat = "markdown"
	FormatHTML     ContentFormat = "html"
)

// TextAnnotation is an editable text box.
type TextAnnotation struct {
	BaseAnnotation
	Content    string
	Format     ContentFormat
	Color      Color
	FontSize   float64
	FontFamily string
}

func (a *TextAnnotation) Kind() Kind { return KindText }

func (a *TextAnnotation) Clone() Annotation {
	dup := *a
	return &dup
}

// DrawingAnnotation is a committed freehand drawing. Paths are append-only
// during a single draw gesture and immutable afterwards.
type DrawingAnnotation struct {
	BaseAnnotation
	Paths []Stroke
}

func (a *DrawingAnnotation) Kind() Kind { return KindDrawing }

func (a *DrawingAnnotation) Clone() Annotation {
	dup := *a
	dup.Paths = make([]Stroke, len(a.Paths))
	for i, s := range a.Paths {
		dup.Paths[i] = Stroke{
			Points:    append([]Position(nil), s.Points...),
			Color:     s.Color,
			Thickness: s.Thickness,
		}
	}
	return &dup
}

// SignatureAnnotation is a single captured signature stroke.
type SignatureAnnotation struct {
	BaseAnnotation
	Path []Position
}

func (a *SignatureAnnotation) Kind() Kind { return KindSignature }

func (a *SignatureAnnotation) Clone() Annotation {
	dup := *a
	dup.Path = append([]Position(nil), a.Path...)
	return &dup
}

// ImageAnnotation references an externally-owned image resource.
type ImageAnnotation struct {
	BaseAnnotation
	URL           string
	NaturalWidth  int
	NaturalHeight int
}

func (a *ImageAnnotation) Kind() Kind { return KindImage }

func (a *ImageAnnotation) Clone() Annotation {
	dup := *a
	return &dup
}

// PathBounds returns the bounding box of a point sequence. The zero Rect is
// returned for an empty sequence.
func PathBounds(points []Position) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
