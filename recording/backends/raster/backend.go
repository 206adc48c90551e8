// Package raster provides the replay sink that draws recorded commands
// into a gg.Context.
//
// The raster sink serves two purposes:
//   - Replay target for deferred windows, driven by the host paint callback
//   - Draw target for immediate frames, where the backend calls it directly
//
// The sink never touches the context transform. During replay the commands
// are already in device space and the target is expected to carry the
// identity matrix; in immediate mode the backend installs the frame
// transform on the context before drawing.
//
// # Example
//
//	// Import to register the sink
//	import _ "github.com/gogpu/gfx/recording/backends/raster"
//
//	// Create via registry
//	sink, _ := recording.NewSink("raster", dc)
//
//	// Or create directly
//	sink := raster.New(dc)
//
//	err := list.Replay(sink)
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/gfx/recording"
)

// Name is the registry name of the raster sink.
const Name = "raster"

func init() {
	recording.Register(Name, func(dst *gg.Context) recording.Sink {
		return New(dst)
	})
}

var (
	// ErrNoTarget is returned when the sink has no context to draw into.
	ErrNoTarget = errors.New("raster: no target context")

	// ErrNoFace is returned by DrawText when the face is nil.
	ErrNoFace = errors.New("raster: nil font face")

	// ErrMalformedPath is returned when verbs ask for more points than given.
	ErrMalformedPath = errors.New("raster: malformed path")
)

// Sink renders commands into a gg.Context.
type Sink struct {
	ctx   *gg.Context
	clips int
}

// Ensure Sink implements recording.Sink.
var _ recording.Sink = (*Sink)(nil)

// New creates a sink drawing into dst.
func New(dst *gg.Context) *Sink {
	return &Sink{ctx: dst}
}

// Context returns the target context.
func (s *Sink) Context() *gg.Context {
	return s.ctx
}

// ClipDepth returns the number of clips pushed through this sink that
// have not been popped.
func (s *Sink) ClipDepth() int {
	return s.clips
}

// Clear fills the whole target with c.
func (s *Sink) Clear(c gg.RGBA) error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	s.ctx.ClearWithColor(c)
	return nil
}

// FillRect fills r, rounding the corners when radius > 0.
func (s *Sink) FillRect(r recording.Rect, c gg.RGBA, radius float64) error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	if r.IsEmpty() {
		return nil
	}
	s.ctx.ClearPath()
	s.ctx.SetFillBrush(gg.Solid(c))
	if radius > 0 {
		// Clamp like cairo-based toolkits do: a radius never exceeds half the short side.
		radius = math.Min(radius, math.Min(r.Width, r.Height)/2)
		s.ctx.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
	} else {
		s.ctx.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	}
	return s.ctx.Fill()
}

// StrokeLine strokes a segment with butt caps.
func (s *Sink) StrokeLine(x0, y0, x1, y1 float64, c gg.RGBA, thickness float64) error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	if thickness <= 0 {
		return nil
	}
	s.ctx.ClearPath()
	s.ctx.SetStrokeBrush(gg.Solid(c))
	s.ctx.SetLineWidth(thickness)
	s.ctx.SetLineCap(gg.LineCapButt)
	s.ctx.DrawLine(x0, y0, x1, y1)
	return s.ctx.Stroke()
}

// FillPath fills the path using the non-zero winding rule.
func (s *Sink) FillPath(verbs []recording.Verb, points []recording.Point, c gg.RGBA) error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	s.ctx.ClearPath()
	if err := s.setPath(verbs, points); err != nil {
		s.ctx.ClearPath()
		return err
	}
	s.ctx.SetFillBrush(gg.Solid(c))
	s.ctx.SetFillRule(gg.FillRuleNonZero)
	return s.ctx.Fill()
}

// PushClip saves the context state and intersects the clip with r.
func (s *Sink) PushClip(r recording.Rect) error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	s.ctx.Push()
	s.ctx.ClipRect(r.X, r.Y, r.Width, r.Height)
	s.clips++
	return nil
}

// PopClip restores the state saved by the matching PushClip.
// Popping with nothing pushed is a no-op.
func (s *Sink) PopClip() error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	if s.clips == 0 {
		return nil
	}
	s.ctx.Pop()
	s.clips--
	return nil
}

// DrawImage draws the src region of img scaled into dst.
// A zero src selects the whole image.
func (s *Sink) DrawImage(img *gg.ImageBuf, src, dst recording.Rect) error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	if img == nil {
		return errors.New("raster: nil image")
	}
	if dst.IsEmpty() {
		return nil
	}
	opts := gg.DrawImageOptions{
		X:             dst.X,
		Y:             dst.Y,
		DstWidth:      dst.Width,
		DstHeight:     dst.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	}
	if src != (recording.Rect{}) {
		w, h := img.Bounds()
		sr := image.Rect(
			int(math.Floor(src.X)), int(math.Floor(src.Y)),
			int(math.Ceil(src.MaxX())), int(math.Ceil(src.MaxY())),
		).Intersect(image.Rect(0, 0, w, h))
		if sr.Empty() {
			return nil
		}
		opts.SrcRect = &sr
	}
	s.ctx.DrawImageEx(img, opts)
	return nil
}

// DrawText draws str with its baseline origin at (x, y).
func (s *Sink) DrawText(str string, x, y float64, face text.Face, c gg.RGBA) error {
	if s.ctx == nil {
		return ErrNoTarget
	}
	if face == nil {
		return ErrNoFace
	}
	s.ctx.SetFont(face)
	s.ctx.SetFillBrush(gg.Solid(c))
	s.ctx.DrawString(str, x, y)
	return nil
}

// setPath walks verbs and feeds the matching points to the context.
func (s *Sink) setPath(verbs []recording.Verb, points []recording.Point) error {
	i := 0
	for vi, v := range verbs {
		n := v.Points()
		if i+n > len(points) {
			return fmt.Errorf("%w: verb %d needs %d points, %d left", ErrMalformedPath, vi, n, len(points)-i)
		}
		p := points[i : i+n]
		switch v {
		case recording.MoveTo:
			s.ctx.MoveTo(p[0].X, p[0].Y)
		case recording.LineTo:
			s.ctx.LineTo(p[0].X, p[0].Y)
		case recording.QuadTo:
			s.ctx.QuadraticTo(p[0].X, p[0].Y, p[1].X, p[1].Y)
		case recording.CubicTo:
			s.ctx.CubicTo(p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y)
		case recording.Close:
			s.ctx.ClosePath()
		default:
			return fmt.Errorf("%w: unknown verb %d", ErrMalformedPath, v)
		}
		i += n
	}
	return nil
}
