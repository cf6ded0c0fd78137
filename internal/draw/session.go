// Package draw owns the lifecycle of one interactive drawing session:
// the operator sketches a point or path on the map, sees a live
// distance readout from the last committed vertex to the cursor, and
// can undo vertices or abandon the sketch entirely.
package draw

import (
	"fmt"

	"rtk-console-service/internal/domain"
)

// Mode selects what the operator is sketching.
type Mode int

const (
	ModeNone Mode = iota
	ModePoint
	ModePath
)

// Readout receives the live distance indicator while drawing. Show is
// called with a pre-formatted value in centimeters; Hide is called
// when a session ends or mode switches to none.
type Readout interface {
	Show(text string)
	Hide()
}

// Canvas is the rendering layer holding the in-progress sketch.
// Clear discards any uncommitted feature.
type Canvas interface {
	Clear()
}

// Session is the draw session controller. It is exclusively owned by
// one caller; all operations happen on that caller's thread of
// control. Drawing-only operations invoked while idle are no-ops, so
// stray double-clicks cannot corrupt the session.
type Session struct {
	mode     Mode
	geometry *domain.Geometry
	last     *domain.ProjectedPoint
	active   bool

	readout Readout
	canvas  Canvas
}

func NewSession(readout Readout, canvas Canvas) *Session {
	return &Session{readout: readout, canvas: canvas}
}

// Active reports whether a drawing session is in progress.
func (s *Session) Active() bool { return s.active }

func (s *Session) Mode() Mode { return s.mode }

// Geometry returns the last committed geometry, available to the
// codec after End. Nil when nothing has been drawn.
func (s *Session) Geometry() *domain.Geometry { return s.geometry }

// Start begins a new session in the given mode. Any uncommitted
// geometry from a previous session is discarded, never persisted.
// Starting with ModeNone returns to idle and clears the readout.
func (s *Session) Start(mode Mode) {
	s.mode = mode
	s.last = nil

	if mode == ModeNone {
		s.active = false
		s.geometry = nil
		s.readout.Hide()
		return
	}

	kind := domain.KindPoint
	if mode == ModePath {
		kind = domain.KindPath
	}
	s.geometry = domain.NewEmptyGeometry(kind)
	s.active = true
	s.readout.Show(formatCentimeters(0))
}

// VertexAdded commits a vertex at the given position and returns the
// segment distance in centimeters from the previous vertex (zero for
// the first). No-op outside a session.
func (s *Session) VertexAdded(p domain.ProjectedPoint) float64 {
	if !s.active {
		return 0
	}

	segment := 0.0
	if s.last != nil && s.geometry.Kind() == domain.KindPath {
		segment = domain.ProjectedDistanceCentimeters(*s.last, p)
	}

	s.geometry.AppendVertex(p)
	last := p
	s.last = &last
	return segment
}

// PointerMoved updates the live readout with the distance from the
// last committed vertex to the cursor. Advisory only; the geometry is
// not touched. No-op outside a session.
func (s *Session) PointerMoved(cursor domain.ProjectedPoint) {
	if !s.active {
		return
	}

	distance := 0.0
	if s.last != nil {
		distance = domain.ProjectedDistanceCentimeters(*s.last, cursor)
	}
	s.readout.Show(formatCentimeters(distance))
}

// UndoLastVertex removes exactly the most recently added path vertex
// and repositions the last-vertex tracker. No-op outside a session,
// for point geometries, or when the path is empty.
func (s *Session) UndoLastVertex() {
	if !s.active || s.geometry == nil || s.geometry.Kind() != domain.KindPath {
		return
	}
	if !s.geometry.RemoveLastVertex() {
		return
	}

	if v, ok := s.geometry.LastVertex(); ok {
		last := v
		s.last = &last
	} else {
		s.last = nil
	}
}

// End completes the session, clears the readout and returns to idle.
// The committed geometry stays readable via Geometry. Called both on
// normal completion and on explicit cancel.
func (s *Session) End() {
	if !s.active {
		return
	}
	s.active = false
	s.last = nil
	s.readout.Hide()
}

// Reset discards all uncommitted drawn features and returns to idle
// without persisting anything.
func (s *Session) Reset() {
	s.active = false
	s.mode = ModeNone
	s.geometry = nil
	s.last = nil
	s.readout.Hide()
	s.canvas.Clear()
}

func formatCentimeters(cm float64) string {
	return fmt.Sprintf("%.2f cm", cm)
}
