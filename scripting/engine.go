// Package scripting runs user automation scripts against the annotation
// editor through a narrow proxy API.
package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute runs a script in the context of the registered editor.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDOM registers the editor object model with the engine.
	RegisterDOM(dom EditorDOM) error
}

// Point is a script-space coordinate pair.
type Point struct {
	X, Y float64
}

// EditorDOM exposes the annotation editor to scripts. It provides a safe,
// controlled API: invalid operations return nil or false, never panic.
type EditorDOM interface {
	// CreateText places a text annotation and returns its proxy, or nil
	// when the arguments are invalid.
	CreateText(page int, x, y float64, content string) AnnotationProxy

	// CreateStroke commits a freehand stroke and returns its proxy, or nil
	// when fewer than two points are given.
	CreateStroke(page int, points []Point) AnnotationProxy

	// Annotations returns proxies for every annotation on the page.
	Annotations(page int) []AnnotationProxy

	// DeleteAnnotation removes an annotation by id.
	DeleteAnnotation(id string) bool

	// SelectAnnotation moves the selection, or clears it with "".
	SelectAnnotation(id string) bool

	Undo() bool
	Redo() bool

	// Alert shows an alert dialog (if supported by the host).
	Alert(message string)
}

// AnnotationProxy represents one annotation exposed to scripts.
type AnnotationProxy interface {
	GetID() string
	GetKind() string
	GetPage() int

	// GetContent and SetContent operate on text annotations; other kinds
	// read as empty and ignore writes.
	GetContent() string
	SetContent(content string)
}
