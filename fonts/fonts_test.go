package fonts_test

import (
	"testing"

	"github.com/go-text/typesetting/language"

	"github.com/DomEscobar/PDF-Simple/fonts"
)

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect language.Script
	}{
		{"Latin", "Hello World", language.Latin},
		{"Cyrillic", "Привет мир", language.Cyrillic},
		{"Arabic", "مرحبا بالعالم", language.Arabic},
		{"Han", "你好世界", language.Han},
		{"Mixed Latin dominant", "Hello World مرحبا", language.Latin},
		{"Empty defaults to Latin", "", language.Latin},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fonts.DetectScript([]rune(tc.input))
			if got != tc.expect {
				t.Errorf("expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func TestDefaultFaceMeasure(t *testing.T) {
	face := fonts.DefaultFace()
	m := face.Measure("Hello", 12)
	if m.Width <= 0 {
		t.Fatalf("width = %v, want > 0", m.Width)
	}
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Fatalf("vertical metrics = %+v, want positive ascent and descent", m)
	}
	wide := face.Measure("Hello Hello", 12)
	if wide.Width <= m.Width {
		t.Fatalf("longer text must measure wider: %v vs %v", wide.Width, m.Width)
	}
	big := face.Measure("Hello", 24)
	if big.Width <= m.Width {
		t.Fatalf("larger size must measure wider: %v vs %v", big.Width, m.Width)
	}
}

func TestMeasureEmpty(t *testing.T) {
	m := fonts.DefaultFace().Measure("", 12)
	if m.Width != 0 {
		t.Fatalf("empty text width = %v, want 0", m.Width)
	}
}

func TestLineHeight(t *testing.T) {
	face := fonts.DefaultFace()
	if lh := face.LineHeight(12); lh < 12 {
		t.Fatalf("line height %v must be at least the font size", lh)
	}
}

func TestRegistryFallback(t *testing.T) {
	var r fonts.Registry
	if r.Lookup("Comic Sans") != fonts.DefaultFace() {
		t.Fatalf("unknown family must fall back to the default face")
	}
	face := fonts.DefaultFace()
	r.Register("Body", face)
	if r.Lookup("Body") != face {
		t.Fatalf("registered family must resolve")
	}
}

func TestLoadFaceRejectsGarbage(t *testing.T) {
	if _, err := fonts.LoadFace([]byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}
