package gfx

import (
	"math"

	"github.com/gogpu/gfx/recording"
)

// Path verbs.
const (
	VerbMoveTo  = recording.MoveTo
	VerbLineTo  = recording.LineTo
	VerbQuadTo  = recording.QuadTo
	VerbCubicTo = recording.CubicTo
	VerbClose   = recording.Close
)

// kappa is the control point distance for a quarter circle cubic.
const kappa = 0.5522847498307936

// Path is a vector path in user space, stored as verbs plus the flat list
// of points they consume.
type Path struct {
	verbs   []recording.Verb
	points  []Point
	start   Point
	current Point
	hasCur  bool
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		verbs:  make([]recording.Verb, 0, 16),
		points: make([]Point, 0, 32),
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.verbs = append(p.verbs, recording.MoveTo)
	p.points = append(p.points, Point{X: x, Y: y})
	p.start = Point{X: x, Y: y}
	p.current = p.start
	p.hasCur = true
}

// LineTo adds a line to (x, y). Without a current point it starts a
// subpath instead.
func (p *Path) LineTo(x, y float64) {
	if !p.hasCur {
		p.MoveTo(x, y)
		return
	}
	p.verbs = append(p.verbs, recording.LineTo)
	p.points = append(p.points, Point{X: x, Y: y})
	p.current = Point{X: x, Y: y}
}

// QuadraticTo adds a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	if !p.hasCur {
		p.MoveTo(cx, cy)
	}
	p.verbs = append(p.verbs, recording.QuadTo)
	p.points = append(p.points, Point{X: cx, Y: cy}, Point{X: x, Y: y})
	p.current = Point{X: x, Y: y}
}

// CubicTo adds a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.hasCur {
		p.MoveTo(c1x, c1y)
	}
	p.verbs = append(p.verbs, recording.CubicTo)
	p.points = append(p.points, Point{X: c1x, Y: c1y}, Point{X: c2x, Y: c2y}, Point{X: x, Y: y})
	p.current = Point{X: x, Y: y}
}

// Close closes the current subpath.
func (p *Path) Close() {
	if !p.hasCur {
		return
	}
	p.verbs = append(p.verbs, recording.Close)
	p.current = p.start
}

// Clear removes all elements, keeping the storage.
func (p *Path) Clear() {
	p.verbs = p.verbs[:0]
	p.points = p.points[:0]
	p.hasCur = false
}

// Rectangle adds a closed rectangle subpath.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a closed circle subpath built from four cubics.
func (p *Path) Circle(cx, cy, r float64) {
	k := r * kappa
	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	p.CubicTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	p.CubicTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	p.CubicTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	p.Close()
}

// Verbs returns the verbs in order. The slice aliases the path.
func (p *Path) Verbs() []recording.Verb { return p.verbs }

// Points returns the points consumed by the verbs. The slice aliases the path.
func (p *Path) Points() []Point { return p.points }

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool { return len(p.verbs) == 0 }

// CurrentPoint returns the end point of the last element.
func (p *Path) CurrentPoint() (Point, bool) { return p.current, p.hasCur }

// Bounds returns the box spanning every point, control points included.
func (p *Path) Bounds() Rect {
	if len(p.points) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p.points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// valid reports whether every point is finite.
func (p *Path) valid() bool {
	for _, pt := range p.points {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			return false
		}
	}
	return true
}
