package gfx

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/recording"
)

// Rect is an axis-aligned rectangle given by origin and size.
type Rect = recording.Rect

// Point is a 2D coordinate.
type Point = recording.Point

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color = gg.RGBA

// Handle is an opaque reference to a backend resource.
// The zero Handle never resolves.
type Handle = handle.Handle

// MaxClipDepth is the capacity of the clip stack.
const MaxClipDepth = recording.MaxClipDepth

// NewRect returns the rectangle at (x, y) with the given size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// NewRectFromPoints returns the rectangle spanning two corners.
func NewRectFromPoints(x0, y0, x1, y1 float64) Rect {
	return recording.NewRectFromPoints(x0, y0, x1, y1)
}

// RGBA8 builds a Color from 8-bit straight-alpha components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// Hex parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
func Hex(s string) Color {
	return gg.Hex(s)
}

// checkRect returns ErrRange for a negative size and ErrInvalidArgument
// for a non-finite field.
func checkRect(r Rect) error {
	if r.Width < 0 || r.Height < 0 {
		return ErrRange
	}
	if !r.IsValid() {
		return ErrInvalidArgument
	}
	return nil
}
