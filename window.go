package gfx

import (
	"errors"

	"github.com/gogpu/gg"

	"github.com/gogpu/gfx/alloc"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/recording"
	"github.com/gogpu/gfx/recording/backends/raster"
)

// Window is a native window plus the per-window drawing state of its mode.
//
// Immediate windows own a surface that draw calls render into and that
// EndFrame presents. Deferred windows own a command list that EndFrame
// marks valid and the host paint callback replays.
type Window struct {
	handle.Header

	native   NativeWindow
	title    string
	mode     Mode
	alloc    alloc.Allocator
	sinkName string

	width, height int     // logical size of the current or last frame
	dpiOverride   float64 // used instead of the native scale when > 0
	frameScale    float64 // device scale of the current or last frame

	// Immediate mode.
	surface      *gg.Context
	surfaceScale float64
	surfaceBytes int
	sink         *raster.Sink
	presented    bool

	// Deferred mode.
	list  *recording.List
	valid bool
}

func newWindow(native NativeWindow, title string, mode Mode, a alloc.Allocator, sinkName string) *Window {
	w := &Window{
		native:   native,
		title:    title,
		mode:     mode,
		alloc:    a,
		sinkName: sinkName,
	}
	w.width, w.height = native.Size()
	if mode == ModeDeferred {
		w.list = recording.NewList(a)
	}
	w.Init(handle.TypeWindow, w.destroy)
	native.SetPaintFunc(w.paint)
	return w
}

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// Mode returns the drawing mode fixed at creation.
func (w *Window) Mode() Mode { return w.mode }

// Native returns the platform window.
func (w *Window) Native() NativeWindow { return w.native }

// Size returns the logical size of the current or last frame.
func (w *Window) Size() (width, height int) { return w.width, w.height }

// DPI returns the scale used for the next frame when BeginFrame gets no
// explicit scale: the override if set, the native scale factor otherwise.
func (w *Window) DPI() float64 {
	return w.scale(0)
}

// FrameScale returns the device scale of the current or last frame, or
// zero before the first frame.
func (w *Window) FrameScale() float64 { return w.frameScale }

// HasValidFrame reports whether a deferred window holds a completed
// recording that its paint callback will replay.
func (w *Window) HasValidFrame() bool { return w.valid }

// Commands returns the recorded commands of a deferred window, or nil.
// The slice aliases the list and is valid until the next frame begins.
func (w *Window) Commands() []recording.Command {
	if w.list == nil {
		return nil
	}
	return w.list.Commands()
}

// ListStats returns the growth history of the command list.
func (w *Window) ListStats() recording.Stats {
	if w.list == nil {
		return recording.Stats{}
	}
	return w.list.Stats()
}

// scale picks the frame scale: override, then the caller's dpi, then the
// native scale factor.
func (w *Window) scale(dpi float64) float64 {
	switch {
	case w.dpiOverride > 0:
		return w.dpiOverride
	case dpi > 0:
		return dpi
	}
	if s := w.native.ScaleFactor(); s > 0 {
		return s
	}
	return 1
}

// prepareSurface creates the immediate surface or, if size and scale are
// unchanged, clears the existing one back to transparent.
func (w *Window) prepareSurface(width, height int, scale float64) error {
	if w.surface != nil && w.surface.Width() == width && w.surface.Height() == height && w.surfaceScale == scale {
		w.surface.ResetClip()
		w.surface.Identity()
		w.surface.ClearPath()
		w.surface.Clear()
		w.sink = raster.New(w.surface)
		return nil
	}

	pw := int(float64(width) * scale)
	ph := int(float64(height) * scale)
	pixels, err := alloc.Mul(pw, ph)
	if err != nil {
		return err
	}
	size, err := alloc.Mul(pixels, 4)
	if err != nil {
		return err
	}
	if err := w.alloc.Acquire(size); err != nil {
		return err
	}
	w.releaseSurface()

	w.surface = gg.NewContext(width, height, gg.WithDeviceScale(scale))
	w.surfaceScale = scale
	w.surfaceBytes = size
	w.sink = raster.New(w.surface)
	Logger().Debug("gfx: surface created", "window", w.title, "width", width, "height", height, "scale", scale)
	return nil
}

func (w *Window) releaseSurface() {
	if w.surface == nil {
		return
	}
	if err := w.surface.Close(); err != nil {
		Logger().Warn("gfx: surface close failed", "window", w.title, "err", err)
	}
	w.alloc.Release(w.surfaceBytes)
	w.surface = nil
	w.surfaceBytes = 0
	w.sink = nil
}

// paint is the native repaint callback.
func (w *Window) paint(dst *gg.Context) error {
	if dst == nil {
		return nil
	}
	switch w.mode {
	case ModeDeferred:
		if !w.valid || w.list == nil {
			return nil
		}
		sink, err := recording.NewSink(w.sinkName, dst)
		if err != nil {
			return classify(ErrInvalidArgument, err)
		}
		if err := w.list.Replay(sink); err != nil {
			return classify(ErrUnknown, err)
		}
		Logger().Debug("gfx: replayed", "window", w.title, "commands", w.list.Len())
	default:
		if !w.presented || w.surface == nil {
			return nil
		}
		img := gg.ImageBufFromImage(w.surface.Image())
		dst.DrawImageEx(img, gg.DrawImageOptions{
			DstWidth:  float64(w.surface.Width()),
			DstHeight: float64(w.surface.Height()),
		})
	}
	return nil
}

// destroy releases the command list payloads before the list buffer and
// the list before the window.
func (w *Window) destroy() error {
	var errs []error
	w.native.SetPaintFunc(nil)
	if w.list != nil {
		errs = append(errs, w.list.Free())
		w.list = nil
	}
	w.releaseSurface()
	if err := w.native.Close(); err != nil {
		errs = append(errs, classify(ErrUnknown, err))
	}
	w.valid = false
	return errors.Join(errs...)
}
