// Package coords maps between screen space (CSS pixels inside the rendered
// page canvas) and document space (unscaled page coordinates annotations are
// stored in). All transforms are affine.
package coords

import (
	"errors"
	"math"

	"github.com/DomEscobar/PDF-Simple/annotation"
)

// Matrix is an affine transform [a b c d e f] applied as
// x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix [6]float64

func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

func Rotate(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// Multiply returns m followed by o.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

func (m Matrix) Transform(p annotation.Position) annotation.Position {
	return annotation.Position{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("matrix singular")
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

// Mapper converts pointer events to document coordinates and annotation
// geometry back to screen coordinates for one rendered page at a fixed zoom.
// The origin offset is the page canvas position within the viewport.
type Mapper struct {
	toScreen Matrix
	toDoc    Matrix
}

// NewMapper builds a mapper for the given zoom factor and canvas origin.
// Zoom must be positive; a non-positive zoom falls back to 1.
func NewMapper(zoom float64, origin annotation.Position) Mapper {
	if zoom <= 0 {
		zoom = 1
	}
	toScreen := Scale(zoom, zoom).Multiply(Translate(origin.X, origin.Y))
	toDoc, _ := toScreen.Inverse()
	return Mapper{toScreen: toScreen, toDoc: toDoc}
}

// ToDocument converts a screen point to document coordinates.
func (m Mapper) ToDocument(p annotation.Position) annotation.Position {
	return m.toDoc.Transform(p)
}

// ToScreen converts a document point to screen coordinates.
func (m Mapper) ToScreen(p annotation.Position) annotation.Position {
	return m.toScreen.Transform(p)
}

// RectToScreen projects a document-space rectangle into screen space.
func (m Mapper) RectToScreen(r annotation.Rect) annotation.Rect {
	tl := m.toScreen.Transform(annotation.Position{X: r.X, Y: r.Y})
	br := m.toScreen.Transform(annotation.Position{X: r.X + r.Width, Y: r.Y + r.Height})
	return annotation.Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}
