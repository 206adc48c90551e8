package gfx

import (
	"math"

	"github.com/gogpu/gg"
)

// Matrix is a 3x3 transform stored in column-major order:
//
//	| m0  m3  m6 |
//	| m1  m4  m7 |
//	| m2  m5  m8 |
//
// An affine matrix maps
//
//	x' = m0*x + m3*y + m6
//	y' = m1*x + m4*y + m7
//
// and has a unit homogeneous row (m2 = m5 = 0, m8 = 1).
type Matrix [9]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{1, 0, 0, 0, 1, 0, x, y, 1}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{x, 0, 0, 0, y, 0, 0, 0, 1}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{cos, sin, 0, -sin, cos, 0, 0, 0, 1}
}

// Shear creates a shear matrix: x' = x + sx*y, y' = sy*x + y.
func Shear(sx, sy float64) Matrix {
	return Matrix{1, sy, 0, sx, 1, 0, 0, 0, 1}
}

// Multiply returns m * o, the transform that applies o first and m second.
func (m Matrix) Multiply(o Matrix) Matrix {
	var r Matrix
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			r[col*3+row] = m[row]*o[col*3] + m[3+row]*o[col*3+1] + m[6+row]*o[col*3+2]
		}
	}
	return r
}

// IsIdentity reports whether m is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsSimple reports whether m is an axis-aligned scale plus translate:
// no rotation or shear terms and a unit homogeneous row.
// Only simple matrices can be baked into deferred commands.
func (m Matrix) IsSimple() bool {
	return m[1] == 0 && m[3] == 0 && m[2] == 0 && m[5] == 0 && m[8] == 1
}

// IsAffine reports whether m has a unit homogeneous row.
func (m Matrix) IsAffine() bool {
	return m[2] == 0 && m[5] == 0 && m[8] == 1
}

// IsFinite reports whether every entry is a finite number.
func (m Matrix) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TransformPoint maps (x, y) with the simple-matrix formula
// x' = m0*x + m6, y' = m4*y + m7. Callers check IsSimple first.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[6], m[4]*y + m[7]
}

// TransformRect maps both corners of r with TransformPoint and returns the
// axis-aligned box spanning them, so the size is never negative even
// under a mirroring scale.
func (m Matrix) TransformRect(r Rect) Rect {
	x0, y0 := m.TransformPoint(r.X, r.Y)
	x1, y1 := m.TransformPoint(r.X+r.Width, r.Y+r.Height)
	return NewRectFromPoints(x0, y0, x1, y1)
}

// ScaleFactor returns the larger of the absolute axis scales. Deferred
// mode multiplies line thickness, corner radius and font size by it.
func (m Matrix) ScaleFactor() float64 {
	return math.Max(math.Abs(m[0]), math.Abs(m[4]))
}

// transformPt is TransformPoint over a Point, for path baking.
func (m Matrix) transformPt(p Point) Point {
	x, y := m.TransformPoint(p.X, p.Y)
	return Point{X: x, Y: y}
}

// GG converts an affine matrix to the surface matrix type. The
// homogeneous row is dropped.
func (m Matrix) GG() gg.Matrix {
	return gg.Matrix{
		A: m[0], B: m[3], C: m[6],
		D: m[1], E: m[4], F: m[7],
	}
}
