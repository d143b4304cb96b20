// Package dom adapts the editor store to the scripting engine's object
// model.
package dom

import (
	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/editor"
	"github.com/DomEscobar/PDF-Simple/scripting"
)

// Adapter implements scripting.EditorDOM on top of an editor store. Alerts
// are forwarded to an optional callback so the host UI can surface them.
type Adapter struct {
	store   *editor.Store
	onAlert func(string)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithAlertHandler routes app.alert calls to fn.
func WithAlertHandler(fn func(string)) Option {
	return func(a *Adapter) {
		if fn != nil {
			a.onAlert = fn
		}
	}
}

func New(store *editor.Store, opts ...Option) *Adapter {
	a := &Adapter{store: store, onAlert: func(string) {}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) CreateText(page int, x, y float64, content string) scripting.AnnotationProxy {
	created := a.store.CreateText(page, annotation.Position{X: x, Y: y}, annotation.Size{}, editor.TextOptions{
		Content: content,
	})
	if created == nil {
		return nil
	}
	return &annotationProxy{store: a.store, id: created.ID()}
}

func (a *Adapter) CreateStroke(page int, points []scripting.Point) scripting.AnnotationProxy {
	path := make([]annotation.Position, len(points))
	for i, p := range points {
		path[i] = annotation.Position{X: p.X, Y: p.Y}
	}
	defaults := a.store.StyleDefaults()
	created := a.store.CreateDrawingStroke(page, path, defaults.Color, defaults.Thickness)
	if created == nil {
		return nil
	}
	return &annotationProxy{store: a.store, id: created.ID()}
}

func (a *Adapter) Annotations(page int) []scripting.AnnotationProxy {
	annots := a.store.ForPage(page)
	proxies := make([]scripting.AnnotationProxy, len(annots))
	for i, ann := range annots {
		proxies[i] = &annotationProxy{store: a.store, id: ann.ID()}
	}
	return proxies
}

func (a *Adapter) DeleteAnnotation(id string) bool { return a.store.Delete(id) }

func (a *Adapter) SelectAnnotation(id string) bool { return a.store.Select(id) }

func (a *Adapter) Undo() bool { return a.store.Undo() }

func (a *Adapter) Redo() bool { return a.store.Redo() }

func (a *Adapter) Alert(message string) { a.onAlert(message) }

// annotationProxy resolves its annotation by id on every access, so a proxy
// held across undo/redo never reads a stale snapshot.
type annotationProxy struct {
	store *editor.Store
	id    string
}

func (p *annotationProxy) resolve() annotation.Annotation {
	for _, a := range p.store.Present() {
		if a.ID() == p.id {
			return a
		}
	}
	return nil
}

func (p *annotationProxy) GetID() string { return p.id }

func (p *annotationProxy) GetKind() string {
	if a := p.resolve(); a != nil {
		return string(a.Kind())
	}
	return ""
}

func (p *annotationProxy) GetPage() int {
	if a := p.resolve(); a != nil {
		return a.Page()
	}
	return 0
}

func (p *annotationProxy) GetContent() string {
	if text, ok := p.resolve().(*annotation.TextAnnotation); ok {
		return text.Content
	}
	return ""
}

func (p *annotationProxy) SetContent(content string) {
	text, ok := p.resolve().(*annotation.TextAnnotation)
	if !ok {
		return
	}
	updated := text.Clone().(*annotation.TextAnnotation)
	updated.Content = content
	p.store.Update(updated)
}
