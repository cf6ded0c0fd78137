package domain

// GeometryKind distinguishes a single-point geometry from an ordered
// path. A tagged variant avoids inspecting coordinate array shapes at
// runtime.
type GeometryKind int

const (
	KindPoint GeometryKind = iota
	KindPath
)

// Geometry is a drawn feature in projected coordinates: either one
// point or an ordered sequence of path vertices. Vertex order is
// meaningful; it defines the segments of a path.
type Geometry struct {
	kind   GeometryKind
	points []ProjectedPoint
}

func NewPointGeometry(p ProjectedPoint) *Geometry {
	return &Geometry{kind: KindPoint, points: []ProjectedPoint{p}}
}

func NewPathGeometry(points ...ProjectedPoint) *Geometry {
	return &Geometry{kind: KindPath, points: append([]ProjectedPoint(nil), points...)}
}

// NewEmptyGeometry allocates a geometry of the given kind with no
// vertices yet, ready to receive them as the operator draws.
func NewEmptyGeometry(kind GeometryKind) *Geometry {
	return &Geometry{kind: kind}
}

func (g *Geometry) Kind() GeometryKind { return g.kind }

// Points returns the vertices in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Geometry) Points() []ProjectedPoint { return g.points }

func (g *Geometry) Len() int { return len(g.points) }

// AppendVertex adds a vertex. For a point geometry the single position
// is replaced rather than accumulated.
func (g *Geometry) AppendVertex(p ProjectedPoint) {
	if g.kind == KindPoint {
		g.points = []ProjectedPoint{p}
		return
	}
	g.points = append(g.points, p)
}

// RemoveLastVertex drops exactly the most recently added vertex and
// reports whether anything was removed.
func (g *Geometry) RemoveLastVertex() bool {
	if len(g.points) == 0 {
		return false
	}
	g.points = g.points[:len(g.points)-1]
	return true
}

// LastVertex returns the most recently added vertex, or false when the
// geometry is empty.
func (g *Geometry) LastVertex() (ProjectedPoint, bool) {
	if len(g.points) == 0 {
		return ProjectedPoint{}, false
	}
	return g.points[len(g.points)-1], true
}
