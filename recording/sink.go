package recording

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Sink is the native draw target a List is replayed into.
// Coordinates passed to a Sink are in device space: any transform was
// baked into the commands when they were recorded.
//
// A Sink returns an error for primitives it cannot render; replay stops at
// the first error.
//
// # Implementation Contract
//
// Each sink must:
//  1. Register in init() using recording.Register()
//  2. Balance PushClip/PopClip on its own target state
//  3. Leave the target transform untouched
type Sink interface {
	// Clear fills the whole target with c, ignoring the clip.
	Clear(c gg.RGBA) error

	// FillRect fills r, with corners rounded by radius when radius > 0.
	FillRect(r Rect, c gg.RGBA, radius float64) error

	// StrokeLine strokes a segment with the given thickness.
	StrokeLine(x0, y0, x1, y1 float64, c gg.RGBA, thickness float64) error

	// FillPath fills the path described by verbs and points (non-zero rule).
	FillPath(verbs []Verb, points []Point, c gg.RGBA) error

	// PushClip saves the clip and intersects it with r.
	PushClip(r Rect) error

	// PopClip restores the clip saved by the matching PushClip.
	PopClip() error

	// DrawImage draws the src region of img scaled into dst.
	DrawImage(img *gg.ImageBuf, src, dst Rect) error

	// DrawText draws s with its baseline origin at (x, y).
	DrawText(s string, x, y float64, face text.Face, c gg.RGBA) error
}
