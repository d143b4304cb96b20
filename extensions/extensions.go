// Package extensions runs pluggable maintenance passes over a loaded
// session: inspection, sanitization of imported annotation lists, script
// execution and validation.
package extensions

import (
	"context"
	"sort"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/session"
)

type Phase int

const (
	PhaseInspect Phase = iota
	PhaseSanitize
	PhaseTransform
	PhaseValidate
)

func (p Phase) String() string {
	return []string{"Inspect", "Sanitize", "Transform", "Validate"}[p]
}

type Extension interface {
	Name() string
	Phase() Phase
	Priority() int
	Execute(ctx context.Context, doc *session.Document) error
}

// Inspector is an extension that examines the session and produces a report.
type Inspector interface {
	Extension
	Inspect(ctx context.Context, doc *session.Document) (*InspectionReport, error)
}

// Sanitizer is an extension that cleans up the annotation list.
type Sanitizer interface {
	Extension
	Sanitize(ctx context.Context, doc *session.Document) (*SanitizationReport, error)
}

// Validator is an extension that checks the session against its invariants.
type Validator interface {
	Extension
	Validate(ctx context.Context, doc *session.Document) (*ValidationReport, error)
}

type InspectionReport struct {
	PageCount       int
	AnnotationCount int
	KindCounts      map[annotation.Kind]int
	AnnotatedPages  []int
}

type SanitizationReport struct {
	ItemsRemoved int
	Actions      []SanitizationAction
}

type SanitizationAction struct {
	Type        string
	Description string
	ID          string
}

type ValidationReport struct {
	Valid  bool
	Errors []ValidationError
}

type ValidationError struct {
	Code    string
	Message string
	ID      string
}

type Hub interface {
	Register(ext Extension) error
	Execute(ctx context.Context, doc *session.Document) error
	Extensions(phase Phase) []Extension
}

type HubImpl struct {
	exts map[Phase][]Extension
}

func NewHub() *HubImpl { return &HubImpl{exts: make(map[Phase][]Extension)} }

func (h *HubImpl) Register(ext Extension) error {
	ph := ext.Phase()
	h.exts[ph] = append(h.exts[ph], ext)
	sort.Slice(h.exts[ph], func(i, j int) bool { return h.exts[ph][i].Priority() < h.exts[ph][j].Priority() })
	return nil
}

func (h *HubImpl) Execute(ctx context.Context, doc *session.Document) error {
	phases := []Phase{PhaseInspect, PhaseSanitize, PhaseTransform, PhaseValidate}
	for _, ph := range phases {
		for _, e := range h.exts[ph] {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.Execute(ctx, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *HubImpl) Extensions(phase Phase) []Extension {
	return append([]Extension(nil), h.exts[phase]...)
}
