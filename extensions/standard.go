package extensions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/session"
)

// BasicInspector summarizes a loaded session.
type BasicInspector struct{}

func (i *BasicInspector) Name() string  { return "BasicInspector" }
func (i *BasicInspector) Phase() Phase  { return PhaseInspect }
func (i *BasicInspector) Priority() int { return 100 }
func (i *BasicInspector) Execute(ctx context.Context, doc *session.Document) error {
	_, err := i.Inspect(ctx, doc)
	return err
}

func (i *BasicInspector) Inspect(ctx context.Context, doc *session.Document) (*InspectionReport, error) {
	report := &InspectionReport{
		PageCount:       doc.PageCount,
		AnnotationCount: len(doc.Annotations),
		KindCounts:      make(map[annotation.Kind]int),
	}
	seen := map[int]bool{}
	for _, a := range doc.Annotations {
		report.KindCounts[a.Kind()]++
		if !seen[a.Page()] {
			seen[a.Page()] = true
			report.AnnotatedPages = append(report.AnnotatedPages, a.Page())
		}
	}
	sort.Ints(report.AnnotatedPages)
	return report, nil
}

// ImportSanitizer drops annotations that cannot render: empty text boxes,
// strokes with fewer than two points, images without a resource URL, and
// image URLs with a script scheme.
type ImportSanitizer struct{}

func (s *ImportSanitizer) Name() string  { return "ImportSanitizer" }
func (s *ImportSanitizer) Phase() Phase  { return PhaseSanitize }
func (s *ImportSanitizer) Priority() int { return 100 }
func (s *ImportSanitizer) Execute(ctx context.Context, doc *session.Document) error {
	_, err := s.Sanitize(ctx, doc)
	return err
}

func (s *ImportSanitizer) Sanitize(ctx context.Context, doc *session.Document) (*SanitizationReport, error) {
	report := &SanitizationReport{}
	var clean []annotation.Annotation
	for _, a := range doc.Annotations {
		if reason := rejectReason(a); reason != "" {
			report.ItemsRemoved++
			report.Actions = append(report.Actions, SanitizationAction{
				Type:        "RemoveAnnotation",
				Description: fmt.Sprintf("removed %s on page %d: %s", a.Kind(), a.Page(), reason),
				ID:          a.ID(),
			})
			continue
		}
		clean = append(clean, a)
	}
	doc.Annotations = clean
	return report, nil
}

func rejectReason(a annotation.Annotation) string {
	switch v := a.(type) {
	case *annotation.TextAnnotation:
		if strings.TrimSpace(v.Content) == "" {
			return "empty content"
		}
	case *annotation.DrawingAnnotation:
		for _, stroke := range v.Paths {
			if len(stroke.Points) >= 2 {
				return ""
			}
		}
		return "no drawable stroke"
	case *annotation.SignatureAnnotation:
		if len(v.Path) < 2 {
			return "degenerate path"
		}
	case *annotation.ImageAnnotation:
		if v.URL == "" {
			return "missing url"
		}
		if strings.HasPrefix(strings.ToLower(v.URL), "javascript:") {
			return "script url"
		}
	}
	return ""
}

// SessionValidator checks session invariants: positive page numbers within
// the document's page count and unique annotation ids.
type SessionValidator struct{}

func (v *SessionValidator) Name() string  { return "SessionValidator" }
func (v *SessionValidator) Phase() Phase  { return PhaseValidate }
func (v *SessionValidator) Priority() int { return 100 }
func (v *SessionValidator) Execute(ctx context.Context, doc *session.Document) error {
	_, err := v.Validate(ctx, doc)
	return err
}

func (v *SessionValidator) Validate(ctx context.Context, doc *session.Document) (*ValidationReport, error) {
	report := &ValidationReport{Valid: true}
	fail := func(code, message, id string) {
		report.Valid = false
		report.Errors = append(report.Errors, ValidationError{Code: code, Message: message, ID: id})
	}

	ids := map[string]bool{}
	for _, a := range doc.Annotations {
		if a.ID() == "" {
			fail("missing-id", "annotation has no id", "")
		} else if ids[a.ID()] {
			fail("duplicate-id", fmt.Sprintf("id %s used more than once", a.ID()), a.ID())
		}
		ids[a.ID()] = true

		if a.Page() < 1 {
			fail("bad-page", fmt.Sprintf("page %d is not positive", a.Page()), a.ID())
		} else if doc.PageCount > 0 && a.Page() > doc.PageCount {
			fail("bad-page", fmt.Sprintf("page %d exceeds document page count %d", a.Page(), doc.PageCount), a.ID())
		}
	}
	return report, nil
}
