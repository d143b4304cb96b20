package editor

import (
	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/observability"
)

// strokeGesture is the transient point accumulator for a single pointer
// gesture (pointer-down to pointer-up) in draw or signature mode. The points
// are not part of the present snapshot until the gesture commits.
type strokeGesture struct {
	tool   Tool
	page   int
	points []annotation.Position
}

func (s *Store) strokeActive() bool { return s.stroke != nil }

// BeginStroke starts accumulating a stroke at p. It is ignored unless the
// draw or signature tool is active, and while another gesture is already
// accumulating: only one accumulation may be active at a time.
func (s *Store) BeginStroke(page int, p annotation.Position) bool {
	if s.stroke != nil {
		s.logger.Debug("pointer-down ignored during gesture")
		return false
	}
	if s.activeTool != ToolDraw && s.activeTool != ToolSignature {
		return false
	}
	if !validPage(page) || !validPosition(p) {
		return false
	}
	s.stroke = &strokeGesture{tool: s.activeTool, page: page, points: []annotation.Position{p}}
	return true
}

// ExtendStroke appends a point to the accumulating stroke. Move events are
// applied in arrival order; without an active gesture the call is ignored.
func (s *Store) ExtendStroke(p annotation.Position) bool {
	if s.stroke == nil || !validPosition(p) {
		return false
	}
	s.stroke.points = append(s.stroke.points, p)
	return true
}

// EndStroke terminates the gesture on pointer-up (or pointer-leave) and
// commits the accumulated points. Gestures shorter than two points are
// discarded without touching history. The committed annotation is returned,
// or nil when the gesture was discarded.
func (s *Store) EndStroke() annotation.Annotation {
	g := s.stroke
	s.stroke = nil
	if g == nil {
		return nil
	}
	if len(g.points) < 2 {
		s.logger.Debug("stroke discarded",
			observability.Int("points", len(g.points)),
			observability.Int("page", g.page),
		)
		return nil
	}
	switch g.tool {
	case ToolSignature:
		bounds := annotation.PathBounds(g.points)
		sig := s.CreateSignature(
			annotation.Position{X: bounds.X, Y: bounds.Y},
			annotation.Size{Width: bounds.Width, Height: bounds.Height},
			g.points, g.page)
		if sig == nil {
			return nil
		}
		return sig
	default:
		d := s.CreateDrawingStroke(g.page, g.points, s.defaults.Color, s.defaults.Thickness)
		if d == nil {
			return nil
		}
		return d
	}
}

// discardStroke drops an accumulating gesture without committing it.
func (s *Store) discardStroke() {
	if s.stroke != nil {
		s.logger.Debug("stroke cancelled", observability.Int("points", len(s.stroke.points)))
		s.stroke = nil
	}
}

// StrokeInProgress returns a copy of the points accumulated so far, for the
// drawing-in-progress preview. It returns nil outside a gesture.
func (s *Store) StrokeInProgress() []annotation.Position {
	if s.stroke == nil {
		return nil
	}
	return append([]annotation.Position(nil), s.stroke.points...)
}
