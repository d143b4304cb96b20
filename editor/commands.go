package editor

import (
	"fmt"
	"math"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/observability"
)

// TextOptions configures CreateText. Zero-valued fields fall back to the
// store's style defaults.
type TextOptions struct {
	Content    string
	Format     annotation.ContentFormat
	FontFamily string
	FontSize   float64
	Color      *annotation.Color
}

// CreateText appends a new text annotation and selects it. It returns nil
// without changing state when page or position is invalid.
func (s *Store) CreateText(page int, pos annotation.Position, size annotation.Size, opts TextOptions) *annotation.TextAnnotation {
	if !validPage(page) || !validPosition(pos) {
		return nil
	}
	t := &annotation.TextAnnotation{
		BaseAnnotation: s.newBase(page, pos, size),
		Content:        opts.Content,
		Format:         opts.Format,
		FontFamily:     opts.FontFamily,
		FontSize:       opts.FontSize,
		Color:          s.defaults.Color,
	}
	if t.Format == "" {
		t.Format = annotation.FormatPlain
	}
	if t.FontFamily == "" {
		t.FontFamily = s.defaults.FontFamily
	}
	if t.FontSize <= 0 {
		t.FontSize = s.defaults.FontSize
	}
	if opts.Color != nil {
		t.Color = *opts.Color
	}
	s.selectedID = t.AnnotationID
	s.apply("createText", func(cur Snapshot) (Snapshot, bool) {
		return appendSnapshot(cur, t), true
	})
	return t
}

// CreateDrawingStroke appends a completed drawing annotation holding a
// single stroke. Strokes with fewer than two points are discarded.
func (s *Store) CreateDrawingStroke(page int, points []annotation.Position, color annotation.Color, thickness float64) *annotation.DrawingAnnotation {
	if !validPage(page) || len(points) < 2 {
		return nil
	}
	if thickness <= 0 {
		thickness = s.defaults.Thickness
	}
	bounds := annotation.PathBounds(points)
	d := &annotation.DrawingAnnotation{
		BaseAnnotation: s.newBase(page,
			annotation.Position{X: bounds.X, Y: bounds.Y},
			annotation.Size{Width: bounds.Width, Height: bounds.Height}),
		Paths: []annotation.Stroke{{
			Points:    append([]annotation.Position(nil), points...),
			Color:     color,
			Thickness: thickness,
		}},
	}
	s.apply("createDrawingStroke", func(cur Snapshot) (Snapshot, bool) {
		return appendSnapshot(cur, d), true
	})
	return d
}

// CreateSignature appends a signature annotation. A signature must have a
// discernible stroke; paths shorter than two points are discarded.
func (s *Store) CreateSignature(pos annotation.Position, size annotation.Size, path []annotation.Position, page int) *annotation.SignatureAnnotation {
	if !validPage(page) || len(path) < 2 {
		return nil
	}
	sig := &annotation.SignatureAnnotation{
		BaseAnnotation: s.newBase(page, pos, size),
		Path:           append([]annotation.Position(nil), path...),
	}
	s.apply("createSignature", func(cur Snapshot) (Snapshot, bool) {
		return appendSnapshot(cur, sig), true
	})
	return sig
}

// CreateImage appends an image annotation referencing an externally-owned
// resource.
func (s *Store) CreateImage(pos annotation.Position, size annotation.Size, url string, page int) *annotation.ImageAnnotation {
	if !validPage(page) || !validPosition(pos) || url == "" {
		return nil
	}
	img := &annotation.ImageAnnotation{
		BaseAnnotation: s.newBase(page, pos, size),
		URL:            url,
	}
	s.apply("createImage", func(cur Snapshot) (Snapshot, bool) {
		return appendSnapshot(cur, img), true
	})
	return img
}

// Update replaces the annotation with a matching id by full-object
// replacement. Callers merge fields before calling; partial patches are not
// supported. Unknown ids are ignored.
func (s *Store) Update(a annotation.Annotation) bool {
	if a == nil {
		return false
	}
	return s.apply("updateAnnotation", func(cur Snapshot) (Snapshot, bool) {
		idx := indexByID(cur, a.ID())
		if idx < 0 {
			return nil, false
		}
		next := append(Snapshot(nil), cur...)
		next[idx] = a
		return next, true
	})
}

// Delete removes the annotation with the given id. The selection is cleared
// when it referenced the deleted annotation. Unknown ids are ignored.
func (s *Store) Delete(id string) bool {
	if indexByID(s.history.Present(), id) < 0 {
		s.logger.Debug("command ignored", observability.String("command", "deleteAnnotation"))
		return false
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	return s.apply("deleteAnnotation", func(cur Snapshot) (Snapshot, bool) {
		idx := indexByID(cur, id)
		next := make(Snapshot, 0, len(cur)-1)
		next = append(next, cur[:idx]...)
		next = append(next, cur[idx+1:]...)
		return next, true
	})
}

// Clear empties the annotation list as a single history entry. An already
// empty list is left untouched.
func (s *Store) Clear() bool {
	if len(s.history.Present()) == 0 {
		return false
	}
	s.selectedID = ""
	return s.apply("clearAll", func(cur Snapshot) (Snapshot, bool) {
		return Snapshot{}, true
	})
}

// LoadSnapshot replaces the whole editor state with a restored session. The
// loaded list becomes the new baseline: history, selection and any pending
// gesture are dropped. ID allocation resumes past the highest loaded id so
// new annotations never collide with restored ones.
func (s *Store) LoadSnapshot(annots []annotation.Annotation) {
	s.discardStroke()
	s.history = History{present: append(Snapshot(nil), annots...)}
	s.selectedID = ""
	for _, a := range annots {
		var n int
		if _, err := fmt.Sscanf(a.ID(), "ann-%d", &n); err == nil && n > s.nextID {
			s.nextID = n
		}
	}
	s.bump("loadSnapshot")
}

// Undo steps the history back by one entry. It is ignored while a stroke
// gesture is accumulating, and when there is nothing to undo.
func (s *Store) Undo() bool {
	if s.strokeActive() {
		s.logger.Debug("undo ignored during gesture")
		return false
	}
	if !s.history.Undo() {
		return false
	}
	s.reconcileSelection()
	s.bump("undo")
	return true
}

// Redo reapplies the most recently undone entry. It is ignored while a
// stroke gesture is accumulating, and when there is nothing to redo.
func (s *Store) Redo() bool {
	if s.strokeActive() {
		s.logger.Debug("redo ignored during gesture")
		return false
	}
	if !s.history.Redo() {
		return false
	}
	s.reconcileSelection()
	s.bump("redo")
	return true
}

// Select marks the annotation with the given id as selected, or clears the
// selection when id is "". Selecting never switches the active tool. Unknown
// ids are ignored.
func (s *Store) Select(id string) bool {
	if id != "" && indexByID(s.history.Present(), id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

// SetActiveTool switches the active tool. Any accumulating stroke gesture is
// discarded so no gesture survives a tool switch. The selection is kept:
// editing text requires staying on the text tool while an item is selected.
func (s *Store) SetActiveTool(tool Tool) bool {
	if !validTool(tool) {
		s.logger.Warn("unknown tool", observability.String("tool", string(tool)))
		return false
	}
	s.discardStroke()
	s.activeTool = tool
	return true
}

// ClearSelection drops the selection, e.g. on page navigation.
func (s *Store) ClearSelection() { s.selectedID = "" }

// EraseAt deletes the topmost annotation containing the point, if any.
func (s *Store) EraseAt(page int, p annotation.Position) bool {
	hit := s.AnnotationAt(page, p)
	if hit == nil {
		return false
	}
	return s.Delete(hit.ID())
}

// SetDefaultColor sets the color applied to new annotations.
func (s *Store) SetDefaultColor(c annotation.Color) { s.defaults.Color = c }

// SetLineThickness sets the stroke thickness applied to new drawings.
func (s *Store) SetLineThickness(w float64) {
	if w > 0 {
		s.defaults.Thickness = w
	}
}

// SetFontFamily sets the font family applied to new text annotations.
func (s *Store) SetFontFamily(name string) {
	if name != "" {
		s.defaults.FontFamily = name
	}
}

// SetFontSize sets the font size applied to new text annotations.
func (s *Store) SetFontSize(size float64) {
	if size > 0 {
		s.defaults.FontSize = size
	}
}

// reconcileSelection clears the selection when undo/redo removed the
// referenced annotation from the present snapshot.
func (s *Store) reconcileSelection() {
	if s.selectedID == "" {
		return
	}
	if indexByID(s.history.Present(), s.selectedID) < 0 {
		s.selectedID = ""
	}
}

func appendSnapshot(cur Snapshot, a annotation.Annotation) Snapshot {
	next := make(Snapshot, 0, len(cur)+1)
	next = append(next, cur...)
	return append(next, a)
}

func indexByID(cur Snapshot, id string) int {
	if id == "" {
		return -1
	}
	for i, a := range cur {
		if a.ID() == id {
			return i
		}
	}
	return -1
}

func validPage(page int) bool { return page >= 1 }

func validPosition(p annotation.Position) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
