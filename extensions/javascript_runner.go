package extensions

import (
	"context"

	"github.com/DomEscobar/PDF-Simple/editor"
	"github.com/DomEscobar/PDF-Simple/extensions/dom"
	"github.com/DomEscobar/PDF-Simple/scripting"
	"github.com/DomEscobar/PDF-Simple/session"
)

// JavaScriptRunner is a Transform extension that executes user automation
// scripts against the session. Each script runs in registration order
// against one shared editor store seeded from the session; the resulting
// annotation list is written back when every script has finished.
type JavaScriptRunner struct {
	engine  scripting.Engine
	scripts []string
	onAlert func(string)
}

// RunnerOption configures a JavaScriptRunner.
type RunnerOption func(*JavaScriptRunner)

// WithAlertHandler routes app.alert calls from scripts to fn.
func WithAlertHandler(fn func(string)) RunnerOption {
	return func(r *JavaScriptRunner) {
		if fn != nil {
			r.onAlert = fn
		}
	}
}

func NewJavaScriptRunner(engine scripting.Engine, scripts []string, opts ...RunnerOption) *JavaScriptRunner {
	r := &JavaScriptRunner{
		engine:  engine,
		scripts: scripts,
		onAlert: func(string) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *JavaScriptRunner) Name() string  { return "JavaScriptRunner" }
func (r *JavaScriptRunner) Phase() Phase  { return PhaseTransform }
func (r *JavaScriptRunner) Priority() int { return 100 }

func (r *JavaScriptRunner) Execute(ctx context.Context, doc *session.Document) error {
	return r.run(ctx, doc)
}

func (r *JavaScriptRunner) run(ctx context.Context, doc *session.Document) error {
	if r.engine == nil || len(r.scripts) == 0 {
		return nil
	}

	store := editor.NewStore()
	store.LoadSnapshot(doc.Annotations)
	adapter := dom.New(store, dom.WithAlertHandler(r.onAlert))
	if err := r.engine.RegisterDOM(adapter); err != nil {
		return err
	}

	for _, script := range r.scripts {
		if _, err := r.engine.Execute(ctx, script); err != nil {
			return err
		}
	}
	doc.Annotations = store.Present()
	return nil
}
