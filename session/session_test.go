package session

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/DomEscobar/PDF-Simple/annotation"
)

func sampleDocument() *Document {
	created := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	return &Document{
		Name:      "report.pdf",
		PageCount: 4,
		SavedAt:   created,
		Annotations: []annotation.Annotation{
			&annotation.TextAnnotation{
				BaseAnnotation: annotation.BaseAnnotation{
					AnnotationID: "ann-1",
					PageNumber:   1,
					Position:     annotation.Position{X: 10, Y: 20},
					Size:         annotation.Size{Width: 200, Height: 40},
					CreatedAt:    created,
				},
				Content:    "note",
				Format:     annotation.FormatPlain,
				Color:      annotation.Black,
				FontSize:   12,
				FontFamily: "Helvetica",
			},
			&annotation.DrawingAnnotation{
				BaseAnnotation: annotation.BaseAnnotation{AnnotationID: "ann-2", PageNumber: 2, CreatedAt: created},
				Paths: []annotation.Stroke{{
					Points:    []annotation.Position{{X: 1, Y: 2}, {X: 3, Y: 4}},
					Color:     annotation.Color{R: 1, A: 1},
					Thickness: 2,
				}},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	codec := NewCodec()
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := codec.Save(&buf, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := codec.Load(&buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Name != doc.Name || back.PageCount != doc.PageCount || !back.SavedAt.Equal(doc.SavedAt) {
		t.Fatalf("metadata mismatch: %+v", back)
	}
	if len(back.Annotations) != 2 {
		t.Fatalf("annotation count = %d, want 2", len(back.Annotations))
	}
	if back.Annotations[0].ID() != "ann-1" || back.Annotations[1].ID() != "ann-2" {
		t.Fatalf("annotation order broken: %q, %q", back.Annotations[0].ID(), back.Annotations[1].ID())
	}
}

func TestLoadEmptyAnnotationList(t *testing.T) {
	codec := NewCodec()
	var buf bytes.Buffer
	if err := codec.Save(&buf, &Document{Name: "blank.pdf", PageCount: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := codec.Load(&buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(back.Annotations) != 0 {
		t.Fatalf("annotations = %v, want none", back.Annotations)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	codec := NewCodec()
	_, err := codec.Load(strings.NewReader(`{"version":99,"name":"x"}`))
	if err == nil {
		t.Fatalf("newer format version must be rejected")
	}
}

func TestProtectedRoundTrip(t *testing.T) {
	codec := NewCodec()
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := codec.SaveProtected(&buf, doc, "hunter2"); err != nil {
		t.Fatalf("save protected: %v", err)
	}
	raw := buf.Bytes()
	if !IsProtected(raw) {
		t.Fatalf("protected file must carry the magic prefix")
	}
	if bytes.Contains(raw, []byte("report.pdf")) {
		t.Fatalf("plaintext leaked into protected file")
	}

	back, err := codec.LoadProtected(bytes.NewReader(raw), "hunter2")
	if err != nil {
		t.Fatalf("load protected: %v", err)
	}
	if back.Name != doc.Name || len(back.Annotations) != 2 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestProtectedWrongPassword(t *testing.T) {
	codec := NewCodec()
	var buf bytes.Buffer
	if err := codec.SaveProtected(&buf, sampleDocument(), "correct"); err != nil {
		t.Fatalf("save protected: %v", err)
	}
	if _, err := codec.LoadProtected(&buf, "wrong"); err != ErrWrongPassword {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
}

func TestProtectedRejectsEmptyPassword(t *testing.T) {
	codec := NewCodec()
	if err := codec.SaveProtected(&bytes.Buffer{}, sampleDocument(), ""); err == nil {
		t.Fatalf("empty password must be rejected")
	}
}

func TestLoadProtectedRejectsPlainFile(t *testing.T) {
	codec := NewCodec()
	if _, err := codec.LoadProtected(strings.NewReader(`{"version":1}`), "pw"); err == nil {
		t.Fatalf("plain file must not load as protected")
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestIngestImageDownscales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y), B: 40, A: 255})
		}
	}
	got, err := IngestImage(encodePNG(t, src), 100)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if got.Width != 100 || got.Height != 50 {
		t.Fatalf("scaled to %dx%d, want 100x50", got.Width, got.Height)
	}
	if got.MIME != "image/jpeg" {
		t.Fatalf("opaque image must re-encode as JPEG, got %s", got.MIME)
	}
	if !strings.HasPrefix(got.DataURL(), "data:"+got.MIME+";base64,") {
		t.Fatalf("data url = %q", got.DataURL()[:40])
	}
}

func TestIngestImageKeepsSmall(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 32, 16))
	got, err := IngestImage(encodePNG(t, src), 100)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if got.Width != 32 || got.Height != 16 {
		t.Fatalf("small image resized to %dx%d", got.Width, got.Height)
	}
}

func TestIngestImagePreservesAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.Set(2, 2, color.NRGBA{R: 255, A: 128})
	got, err := IngestImage(encodePNG(t, src), 100)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if got.MIME != "image/png" {
		t.Fatalf("transparent image must re-encode as PNG, got %s", got.MIME)
	}
}

func TestIngestImageRejectsGarbage(t *testing.T) {
	if _, err := IngestImage([]byte("definitely not an image"), 100); err == nil {
		t.Fatalf("expected decode error")
	}
}
