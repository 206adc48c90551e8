package gfx

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestIsSimple(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"translation", Translate(10, -20), true},
		{"scale", Scale(2, 3), true},
		{"mirror", Scale(-1, 1), true},
		{"scale then translate", Translate(5, 5).Multiply(Scale(2, 2)), true},
		{"rotation", Rotate(math.Pi / 4), false},
		{"shear x", Shear(0.5, 0), false},
		{"shear y", Shear(0, 0.5), false},
		{"projective", Matrix{1, 0, 0.1, 0, 1, 0, 0, 0, 1}, false},
		{"zero w", Matrix{1, 0, 0, 0, 1, 0, 0, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsSimple(); got != tt.want {
				t.Errorf("%v.IsSimple() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestIsAffine(t *testing.T) {
	if !Rotate(1).IsAffine() {
		t.Error("Rotate(1).IsAffine() = false, want true")
	}
	if (Matrix{1, 0, 0.5, 0, 1, 0, 0, 0, 1}).IsAffine() {
		t.Error("projective matrix IsAffine() = true, want false")
	}
}

func TestIsFinite(t *testing.T) {
	if !Identity().IsFinite() {
		t.Error("Identity().IsFinite() = false")
	}
	if Translate(math.NaN(), 0).IsFinite() {
		t.Error("NaN matrix IsFinite() = true")
	}
	if Scale(math.Inf(1), 1).IsFinite() {
		t.Error("Inf matrix IsFinite() = true")
	}
}

func TestTransformRect(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		in   Rect
		want Rect
	}{
		{"identity", Identity(), NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4)},
		{"translate", Translate(10, 20), NewRect(1, 2, 3, 4), NewRect(11, 22, 3, 4)},
		{"scale", Scale(2, 3), NewRect(1, 1, 10, 10), NewRect(2, 3, 20, 30)},
		{"mirror x", Scale(-2, 1), NewRect(1, 0, 10, 5), NewRect(-22, 0, 20, 5)},
		{"mirror both", Scale(-1, -1), NewRect(0, 0, 4, 4), NewRect(-4, -4, 4, 4)},
		{"empty", Scale(5, 5), NewRect(2, 2, 0, 0), NewRect(10, 10, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformRect(tt.in)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) ||
				!near(got.Width, tt.want.Width) || !near(got.Height, tt.want.Height) {
				t.Errorf("TransformRect(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.Width < 0 || got.Height < 0 {
				t.Errorf("TransformRect(%+v) has negative size %+v", tt.in, got)
			}
		})
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(3, 4).Multiply(Scale(2, 5))
	x, y := m.TransformPoint(1, 1)
	if !near(x, 5) || !near(y, 9) {
		t.Errorf("TransformPoint(1, 1) = (%v, %v), want (5, 9)", x, y)
	}
	p := m.transformPt(Point{X: 0, Y: 2})
	if !near(p.X, 3) || !near(p.Y, 14) {
		t.Errorf("transformPt(0, 2) = %+v, want (3, 14)", p)
	}
}

func TestMultiplyOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	if m[0] != 2 || m[4] != 2 || m[6] != 10 || m[7] != 0 {
		t.Errorf("Translate*Scale = %v", m)
	}
	// Translate first, then scale.
	m = Scale(2, 2).Multiply(Translate(10, 0))
	if m[6] != 20 {
		t.Errorf("Scale*Translate m6 = %v, want 20", m[6])
	}
	if got := Identity().Multiply(Rotate(0.3)); got != Rotate(0.3) {
		t.Errorf("Identity*R = %v, want %v", got, Rotate(0.3))
	}
}

func TestScaleFactor(t *testing.T) {
	tests := []struct {
		m    Matrix
		want float64
	}{
		{Identity(), 1},
		{Scale(2, 3), 3},
		{Scale(-4, 1), 4},
		{Translate(100, 100), 1},
	}
	for _, tt := range tests {
		if got := tt.m.ScaleFactor(); got != tt.want {
			t.Errorf("%v.ScaleFactor() = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestMatrixGG(t *testing.T) {
	m := Translate(5, 6).Multiply(Shear(0.5, 0.25))
	got := m.GG()
	want := gg.Matrix{A: 1, B: 0.5, C: 5, D: 0.25, E: 1, F: 6}
	if got != want {
		t.Errorf("GG() = %+v, want %+v", got, want)
	}

	// The converted matrix maps points like the original affine formula.
	p := got.TransformPoint(gg.Pt(2, 4))
	wx := m[0]*2 + m[3]*4 + m[6]
	wy := m[1]*2 + m[4]*4 + m[7]
	if !near(p.X, wx) || !near(p.Y, wy) {
		t.Errorf("GG().TransformPoint(2, 4) = %+v, want (%v, %v)", p, wx, wy)
	}
}

func TestRotate(t *testing.T) {
	m := Rotate(math.Pi / 2)
	x := m[0]*1 + m[3]*0 + m[6]
	y := m[1]*1 + m[4]*0 + m[7]
	if !near(x, 0) || !near(y, 1) {
		t.Errorf("Rotate(pi/2) maps (1, 0) to (%v, %v), want (0, 1)", x, y)
	}
}
