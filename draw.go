package gfx

import (
	"fmt"
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/gfx/recording"
)

// active returns the window of the current frame.
func (b *Backend) active() (*Window, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if b.frame == nil {
		return nil, fmt.Errorf("%w: no active frame", ErrState)
	}
	return b.frame, nil
}

// drawable returns the window of the current frame if the current
// transform can be drawn in its mode: affine for immediate windows,
// simple for deferred ones.
func (b *Backend) drawable() (*Window, error) {
	w, err := b.active()
	if err != nil {
		return nil, err
	}
	switch w.mode {
	case ModeDeferred:
		if !b.simple {
			return nil, fmt.Errorf("%w: deferred drawing needs an axis-aligned transform", ErrUnsupported)
		}
	default:
		if !b.transform.IsAffine() {
			return nil, fmt.Errorf("%w: projective transform", ErrUnsupported)
		}
	}
	return w, nil
}

// record appends cmd to the window's list.
func (b *Backend) record(w *Window, cmd recording.Command) error {
	return classify(ErrInvalidArgument, w.list.Push(cmd))
}

// native classifies an error from the immediate surface.
func native(err error) error {
	return classify(ErrUnknown, err)
}

// SetTransform sets the transform applied to subsequent draw calls.
//
// Immediate windows accept any affine matrix. Deferred windows can only
// bake axis-aligned scale plus translate; with any other matrix active,
// geometry draws fail with ErrUnsupported until a simple one is set.
func (b *Backend) SetTransform(m Matrix) error {
	if err := b.check(); err != nil {
		return err
	}
	if !m.IsFinite() {
		return fmt.Errorf("%w: non-finite transform", ErrInvalidArgument)
	}
	if b.mode == ModeImmediate && !m.IsAffine() {
		return fmt.Errorf("%w: projective transform", ErrUnsupported)
	}
	b.transform = m
	if b.frame == nil {
		return nil
	}
	switch b.frame.mode {
	case ModeDeferred:
		b.simple = m.IsSimple()
	default:
		b.frame.surface.SetTransform(m.GG())
	}
	return nil
}

// Transform returns the current transform.
func (b *Backend) Transform() Matrix {
	return b.transform
}

// Clear fills the whole window with c, ignoring transform and clip.
// Like every draw call it fails while the transform cannot be drawn in
// the window's mode.
func (b *Backend) Clear(c Color) error {
	w, err := b.drawable()
	if err != nil {
		return err
	}
	if w.mode == ModeDeferred {
		return b.record(w, recording.ClearCommand{Color: c})
	}
	return native(w.sink.Clear(c))
}

// DrawRect fills r with c, rounding the corners by radius when positive.
func (b *Backend) DrawRect(r Rect, c Color, radius float64) error {
	if err := checkRect(r); err != nil {
		return fmt.Errorf("%w: rect %+v", err, r)
	}
	if err := checkLength("radius", radius); err != nil {
		return err
	}
	w, err := b.drawable()
	if err != nil {
		return err
	}
	if w.mode == ModeDeferred {
		return b.record(w, recording.RectCommand{
			Rect:   b.transform.TransformRect(r),
			Color:  c,
			Radius: radius * b.transform.ScaleFactor(),
		})
	}
	return native(w.sink.FillRect(r, c, radius))
}

// DrawLine strokes the segment from (x0, y0) to (x1, y1).
func (b *Backend) DrawLine(x0, y0, x1, y1 float64, c Color, thickness float64) error {
	if err := checkLength("thickness", thickness); err != nil {
		return err
	}
	if !finite(x0, y0, x1, y1) {
		return fmt.Errorf("%w: non-finite line", ErrInvalidArgument)
	}
	w, err := b.drawable()
	if err != nil {
		return err
	}
	if w.mode == ModeDeferred {
		tx0, ty0 := b.transform.TransformPoint(x0, y0)
		tx1, ty1 := b.transform.TransformPoint(x1, y1)
		return b.record(w, recording.LineCommand{
			X0: tx0, Y0: ty0,
			X1: tx1, Y1: ty1,
			Color:     c,
			Thickness: thickness * b.transform.ScaleFactor(),
		})
	}
	return native(w.sink.StrokeLine(x0, y0, x1, y1, c, thickness))
}

// DrawPath fills p with c using the non-zero winding rule.
func (b *Backend) DrawPath(p *Path, c Color) error {
	if p == nil {
		return fmt.Errorf("%w: nil path", ErrInvalidArgument)
	}
	if !p.valid() {
		return fmt.Errorf("%w: non-finite path", ErrInvalidArgument)
	}
	w, err := b.drawable()
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		return nil
	}
	if w.mode == ModeDeferred {
		cmd, err := recording.NewPathCommand(w.alloc, p.verbs, p.points, c, b.transform.transformPt)
		if err != nil {
			return err
		}
		return b.record(w, cmd)
	}
	return native(w.sink.FillPath(p.verbs, p.points, c))
}

// DrawText draws s in font with its baseline origin at (x, y).
func (b *Backend) DrawText(font Handle, s string, x, y float64, c Color) error {
	if !finite(x, y) {
		return fmt.Errorf("%w: non-finite text origin", ErrInvalidArgument)
	}
	w, err := b.drawable()
	if err != nil {
		return err
	}
	f, err := b.resolveFont(font)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	size := f.resolved.Size
	if w.mode == ModeDeferred {
		tx, ty := b.transform.TransformPoint(x, y)
		cmd, err := recording.NewTextCommand(w.alloc, s, tx, ty, size*b.transform.ScaleFactor(), f, c)
		if err != nil {
			return err
		}
		return b.record(w, cmd)
	}
	face, err := f.Face(size)
	if err != nil {
		return err
	}
	return native(w.sink.DrawText(norm.NFC.String(s), x, y, face, c))
}

// DrawTexture draws the src region of tex into dst. src is in texture
// pixels; a zero src selects the whole texture.
func (b *Backend) DrawTexture(tex Handle, src, dst Rect) error {
	if err := checkRect(src); err != nil {
		return fmt.Errorf("%w: source %+v", err, src)
	}
	if err := checkRect(dst); err != nil {
		return fmt.Errorf("%w: destination %+v", err, dst)
	}
	w, err := b.drawable()
	if err != nil {
		return err
	}
	t, err := b.resolveTexture(tex)
	if err != nil {
		return err
	}
	if w.mode == ModeDeferred {
		return b.record(w, recording.NewTextureCommand(t, src, b.transform.TransformRect(dst)))
	}
	img, err := t.NativeImage()
	if err != nil {
		return err
	}
	return native(w.sink.DrawImage(img, src, dst))
}

func checkLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s %v", ErrInvalidArgument, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s %v", ErrRange, name, v)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
