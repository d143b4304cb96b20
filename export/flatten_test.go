package export

import (
	"strings"
	"testing"

	"github.com/DomEscobar/PDF-Simple/annotation"
)

func operators(ops []Op) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.Operator
	}
	return out
}

func expectOperators(t *testing.T, ops []Op, want []string) {
	t.Helper()
	got := operators(ops)
	if len(got) != len(want) {
		t.Fatalf("operator count = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operation %d = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestFlattenText(t *testing.T) {
	f := NewFlattener(800)
	ops := f.FlattenPage([]annotation.Annotation{
		&annotation.TextAnnotation{
			BaseAnnotation: annotation.BaseAnnotation{
				AnnotationID: "ann-1",
				PageNumber:   1,
				Position:     annotation.Position{X: 50, Y: 100},
			},
			Content:    "hello\nworld",
			Color:      annotation.Color{R: 1, A: 1},
			FontSize:   12,
			FontFamily: "Helvetica",
		},
	})
	expectOperators(t, ops, []string{"BT", "Tf", "rg", "Tm", "Tj", "Td", "Tj", "ET"})
	if name := ops[1].Operands[0].(Name); name != "F1" {
		t.Fatalf("font resource = %q, want F1", name)
	}
	tm := ops[3].Operands
	if tm[4].(Number) != 50 || tm[5].(Number) != 800-100-12 {
		t.Fatalf("baseline position wrong: %v", tm)
	}
	if ops[4].Operands[0].(String) != "hello" || ops[6].Operands[0].(String) != "world" {
		t.Fatalf("line split wrong: %v %v", ops[4].Operands, ops[6].Operands)
	}
}

func TestFlattenDrawing(t *testing.T) {
	f := NewFlattener(600)
	ops := f.FlattenPage([]annotation.Annotation{
		&annotation.DrawingAnnotation{
			BaseAnnotation: annotation.BaseAnnotation{AnnotationID: "ann-1", PageNumber: 1},
			Paths: []annotation.Stroke{{
				Points:    []annotation.Position{{X: 10, Y: 10}, {X: 20, Y: 30}, {X: 40, Y: 25}},
				Color:     annotation.Color{B: 1, A: 1},
				Thickness: 3,
			}},
		},
	})
	expectOperators(t, ops, []string{"q", "w", "J", "j", "RG", "m", "l", "l", "S", "Q"})
	if ops[1].Operands[0].(Number) != 3 {
		t.Fatalf("line width = %v, want 3", ops[1].Operands[0])
	}
	// y flip: document y=10 lands at 590
	if ops[5].Operands[1].(Number) != 590 {
		t.Fatalf("m y = %v, want 590", ops[5].Operands[1])
	}
}

func TestFlattenSkipsDegeneratePaths(t *testing.T) {
	f := NewFlattener(600)
	ops := f.FlattenPage([]annotation.Annotation{
		&annotation.DrawingAnnotation{
			BaseAnnotation: annotation.BaseAnnotation{AnnotationID: "ann-1", PageNumber: 1},
			Paths:          []annotation.Stroke{{Points: []annotation.Position{{X: 1, Y: 1}}}},
		},
		&annotation.SignatureAnnotation{
			BaseAnnotation: annotation.BaseAnnotation{AnnotationID: "ann-2", PageNumber: 1},
			Path:           []annotation.Position{{X: 1, Y: 1}},
		},
		&annotation.ImageAnnotation{
			BaseAnnotation: annotation.BaseAnnotation{AnnotationID: "ann-3", PageNumber: 1},
		},
	})
	if len(ops) != 0 {
		t.Fatalf("degenerate annotations must flatten to nothing, got %v", operators(ops))
	}
}

func TestFlattenImageAssignsResources(t *testing.T) {
	f := NewFlattener(800)
	img := func(id, url string) *annotation.ImageAnnotation {
		return &annotation.ImageAnnotation{
			BaseAnnotation: annotation.BaseAnnotation{
				AnnotationID: id,
				PageNumber:   1,
				Position:     annotation.Position{X: 100, Y: 200},
				Size:         annotation.Size{Width: 120, Height: 80},
			},
			URL: url,
		}
	}
	ops := f.FlattenPage([]annotation.Annotation{
		img("ann-1", "blob:a"),
		img("ann-2", "blob:b"),
		img("ann-3", "blob:a"),
	})
	expectOperators(t, ops, []string{"q", "cm", "Do", "Q", "q", "cm", "Do", "Q", "q", "cm", "Do", "Q"})
	if ops[2].Operands[0].(Name) != "Im1" || ops[6].Operands[0].(Name) != "Im2" {
		t.Fatalf("resource names wrong: %v %v", ops[2].Operands, ops[6].Operands)
	}
	if ops[10].Operands[0].(Name) != "Im1" {
		t.Fatalf("repeated URL must reuse its resource name, got %v", ops[10].Operands)
	}
	cm := ops[1].Operands
	if cm[0].(Number) != 120 || cm[3].(Number) != 80 || cm[4].(Number) != 100 || cm[5].(Number) != 800-200-80 {
		t.Fatalf("cm wrong: %v", cm)
	}
	order := f.ResourceOrder()
	if len(order) != 2 || order[0] != "blob:a" || order[1] != "blob:b" {
		t.Fatalf("resource order = %v", order)
	}
}

func TestSerialize(t *testing.T) {
	ops := []Op{
		op("BT"),
		op("Tf", Name("F1"), Number(12)),
		op("Tj", String("a (nested) \\ line")),
		op("ET"),
	}
	got := string(Serialize(ops))
	want := "BT\n/F1 12 Tf\n(a \\(nested\\) \\\\ line) Tj\nET\n"
	if got != want {
		t.Fatalf("serialized:\n%q\nwant:\n%q", got, want)
	}
	if strings.Count(got, "\n") != 4 {
		t.Fatalf("one operation per line expected")
	}
}
