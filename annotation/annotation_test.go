package annotation

import (
	"testing"
)

func TestPathBounds(t *testing.T) {
	pts := []Position{{X: 30, Y: 5}, {X: 10, Y: 25}, {X: 20, Y: 15}}
	b := PathBounds(pts)
	if b.X != 10 || b.Y != 5 || b.Width != 20 || b.Height != 20 {
		t.Fatalf("bounds = %+v", b)
	}
	if got := PathBounds(nil); got != (Rect{}) {
		t.Fatalf("empty bounds = %+v, want zero", got)
	}
	if got := PathBounds([]Position{{X: 7, Y: 9}}); got.X != 7 || got.Y != 9 || got.Width != 0 || got.Height != 0 {
		t.Fatalf("single-point bounds = %+v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	cases := []struct {
		p    Position
		want bool
	}{
		{Position{X: 15, Y: 15}, true},
		{Position{X: 10, Y: 10}, true},
		{Position{X: 30, Y: 20}, true},
		{Position{X: 9.9, Y: 15}, false},
		{Position{X: 15, Y: 20.1}, false},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.p); got != tc.want {
			t.Fatalf("Contains(%+v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestDrawingCloneIsDeep(t *testing.T) {
	orig := &DrawingAnnotation{
		BaseAnnotation: BaseAnnotation{AnnotationID: "ann-1", PageNumber: 1},
		Paths: []Stroke{{
			Points:    []Position{{X: 1, Y: 1}, {X: 2, Y: 2}},
			Color:     Black,
			Thickness: 2,
		}},
	}
	dup := orig.Clone().(*DrawingAnnotation)
	dup.Paths[0].Points[0].X = 99
	if orig.Paths[0].Points[0].X != 1 {
		t.Fatalf("clone shares stroke points with original")
	}
	dup.Paths[0].Thickness = 7
	if orig.Paths[0].Thickness != 2 {
		t.Fatalf("clone shares stroke attributes with original")
	}
}

func TestSignatureCloneIsDeep(t *testing.T) {
	orig := &SignatureAnnotation{
		BaseAnnotation: BaseAnnotation{AnnotationID: "ann-2", PageNumber: 1},
		Path:           []Position{{X: 1, Y: 1}, {X: 5, Y: 5}},
	}
	dup := orig.Clone().(*SignatureAnnotation)
	dup.Path[1].Y = 42
	if orig.Path[1].Y != 5 {
		t.Fatalf("clone shares the signature path with original")
	}
}

func TestBaseBounds(t *testing.T) {
	a := &TextAnnotation{BaseAnnotation: BaseAnnotation{
		AnnotationID: "ann-3",
		PageNumber:   4,
		Position:     Position{X: 12, Y: 34},
		Size:         Size{Width: 100, Height: 40},
	}}
	if a.Kind() != KindText || a.ID() != "ann-3" || a.Page() != 4 {
		t.Fatalf("base accessors: kind=%q id=%q page=%d", a.Kind(), a.ID(), a.Page())
	}
	b := a.Bounds()
	if b.X != 12 || b.Y != 34 || b.Width != 100 || b.Height != 40 {
		t.Fatalf("bounds = %+v", b)
	}
}
