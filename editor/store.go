// Package editor implements the annotation history engine: a store holding
// the annotation list for the open document together with its undo/redo
// stacks, and the command dispatcher that is the single mutation path into
// that state. Commands run synchronously to completion; the store is meant
// to be driven from a single event-handling goroutine.
package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/observability"
)

// Tool is the active input tool. Exactly one tool is active at a time; it
// determines which commands pointer input may dispatch.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolText      Tool = "text"
	ToolDraw      Tool = "draw"
	ToolSignature Tool = "signature"
	ToolEraser    Tool = "eraser"
	ToolImage     Tool = "image"
)

func validTool(t Tool) bool {
	switch t {
	case ToolSelect, ToolText, ToolDraw, ToolSignature, ToolEraser, ToolImage:
		return true
	}
	return false
}

// Change describes a completed mutating command, delivered to subscribers.
type Change struct {
	Command  string
	Revision uint64
}

// Defaults carries the style values applied to newly created annotations.
type Defaults struct {
	Color      annotation.Color
	Thickness  float64
	FontFamily string
	FontSize   float64
}

// Store owns the annotation state of one open document. All mutation goes
// through the command methods; observers see every state change through
// Subscribe. The store is not safe for concurrent use.
type Store struct {
	logger observability.Logger
	tracer observability.Tracer

	history    History
	selectedID string
	activeTool Tool
	defaults   Defaults

	stroke *strokeGesture

	nextID    int
	revision  uint64
	listeners map[int]func(Change)
	nextSub   int

	now func() time.Time
}

// Option configures a Store during creation.
type Option func(*Store)

// WithLogger sets the structured logger used by the dispatcher.
func WithLogger(l observability.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used by the dispatcher.
func WithTracer(tr observability.Tracer) Option {
	return func(s *Store) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

// WithDefaults sets the initial style defaults.
func WithDefaults(d Defaults) Option {
	return func(s *Store) { s.defaults = normalizeDefaults(d) }
}

// WithClock overrides the timestamp source for created annotations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func normalizeDefaults(d Defaults) Defaults {
	if d.Thickness <= 0 {
		d.Thickness = 2
	}
	if d.FontFamily == "" {
		d.FontFamily = "Helvetica"
	}
	if d.FontSize <= 0 {
		d.FontSize = 11
	}
	return d
}

// NewStore creates an empty store with the select tool active.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger:     observability.NopLogger{},
		tracer:     observability.NopTracer(),
		activeTool: ToolSelect,
		defaults:   normalizeDefaults(Defaults{Color: annotation.Black}),
		listeners:  map[int]func(Change){},
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Present returns the current annotation list. The slice is a fresh copy;
// the annotation values are shared and must not be mutated by callers.
func (s *Store) Present() []annotation.Annotation {
	return append([]annotation.Annotation(nil), s.history.Present()...)
}

// Revision reports the number of state changes applied so far.
func (s *Store) Revision() uint64 { return s.revision }

// ActiveTool returns the currently selected tool.
func (s *Store) ActiveTool() Tool { return s.activeTool }

// SelectedID returns the id of the selected annotation, or "".
func (s *Store) SelectedID() string { return s.selectedID }

// StyleDefaults returns the current style defaults.
func (s *Store) StyleDefaults() Defaults { return s.defaults }

func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// HistoryDepth reports how many undo and redo steps are available.
func (s *Store) HistoryDepth() (past, future int) { return s.history.Depth() }

// Subscribe registers fn to run synchronously after every state change. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// bump advances the revision counter and notifies subscribers.
func (s *Store) bump(command string) {
	s.revision++
	past, future := s.history.Depth()
	s.logger.Debug("state changed",
		observability.String("command", command),
		observability.Uint64("revision", s.revision),
		observability.Int("annotations", len(s.history.Present())),
		observability.Int("undo_depth", past),
		observability.Int("redo_depth", future),
	)
	change := Change{Command: command, Revision: s.revision}
	for _, fn := range s.listeners {
		fn(change)
	}
}

// apply runs the shared mutation protocol: compute the next snapshot, push
// the prior present onto the past stack, clear the redo stack, notify.
// Transforms that return ok=false leave the store untouched.
func (s *Store) apply(command string, transform func(Snapshot) (Snapshot, bool)) bool {
	_, span := s.tracer.StartSpan(context.Background(), "editor."+command)
	defer span.Finish()

	next, ok := transform(s.history.Present())
	if !ok {
		span.SetTag("ignored", true)
		s.logger.Debug("command ignored", observability.String("command", command))
		return false
	}
	s.history.Push(next)
	span.SetTag("annotations", len(next))
	s.bump(command)
	return true
}

func (s *Store) newID() string {
	s.nextID++
	return fmt.Sprintf("ann-%d", s.nextID)
}

func (s *Store) newBase(page int, pos annotation.Position, size annotation.Size) annotation.BaseAnnotation {
	return annotation.BaseAnnotation{
		AnnotationID: s.newID(),
		PageNumber:   page,
		Position:     pos,
		Size:         size,
		CreatedAt:    s.now(),
	}
}
