package gfx

import (
	"fmt"
	"image"
)

// BeginFrame starts a frame on win with the given logical size and device
// scale. The window's DPI override wins over dpi; a dpi of zero or less
// uses the native scale. The host paints the window at that scale.
//
// Immediate windows get a transparent surface of that size with the
// current transform installed. Deferred windows drop their previous
// recording and snapshot the transform classification for the frame.
//
// Only one frame may be active per backend.
func (b *Backend) BeginFrame(win Handle, width, height int, dpi float64) error {
	if err := b.check(); err != nil {
		return err
	}
	if b.frame != nil {
		return fmt.Errorf("%w: frame already active on %s", ErrState, b.frameHandle)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrRange, width, height)
	}
	w, err := b.resolveWindow(win)
	if err != nil {
		return err
	}

	scale := w.scale(dpi)
	switch w.mode {
	case ModeImmediate:
		if err := w.prepareSurface(width, height, scale); err != nil {
			return err
		}
		if b.transform.IsAffine() {
			w.surface.SetTransform(b.transform.GG())
		}
		w.presented = false
	case ModeDeferred:
		if err := w.list.Reset(); err != nil {
			Logger().Warn("gfx: releasing recorded payloads", "window", w.title, "err", err)
		}
		w.valid = false
	}
	w.width, w.height = width, height
	w.frameScale = scale
	b.simple = b.transform.IsSimple()
	b.frame = w
	b.frameHandle = win
	b.depthAtBegin = b.clipDepth

	Logger().Debug("gfx: frame begin", "window", win, "mode", w.mode, "width", width, "height", height)
	return nil
}

// EndFrame finishes the frame on win.
//
// Immediate windows present their surface and request a redraw. Deferred
// windows mark their recording valid and request a redraw; the host paint
// callback replays it.
//
// A frame whose clips are not balanced still ends: the open clips are
// dropped, the depth returns to its value at BeginFrame and the result is
// an ErrState error.
func (b *Backend) EndFrame(win Handle) error {
	if err := b.check(); err != nil {
		return err
	}
	if b.frame == nil {
		return fmt.Errorf("%w: no active frame", ErrState)
	}
	if win != b.frameHandle {
		return fmt.Errorf("%w: frame is active on %s, not %s", ErrState, b.frameHandle, win)
	}
	w := b.frame

	var unbalanced error
	if open := b.clipDepth - b.depthAtBegin; open != 0 {
		Logger().Warn("gfx: unbalanced clip at frame end", "window", win, "open", open)
		unbalanced = fmt.Errorf("%w: %d clip(s) left open at frame end", ErrState, open)
		if w.mode == ModeImmediate {
			for w.sink.ClipDepth() > 0 {
				_ = w.sink.PopClip()
			}
		}
		b.clipDepth = b.depthAtBegin
	}

	b.frame = nil
	b.frameHandle = Handle{}

	switch w.mode {
	case ModeImmediate:
		img := w.surface.Image()
		if err := w.native.Present(img, img.Bounds()); err != nil {
			Logger().Warn("gfx: present failed", "window", win, "err", err)
			return classify(ErrUnknown, err)
		}
		w.presented = true
	case ModeDeferred:
		w.valid = true
		Logger().Debug("gfx: recorded", "window", win, "commands", w.list.Len(), "grows", w.list.Stats().Grows)
	}
	w.native.SetContentScale(w.frameScale)
	w.native.RequestRedraw()

	Logger().Debug("gfx: frame end", "window", win)
	return unbalanced
}

// ActiveWindow returns the handle of the window mid-frame, or the zero
// Handle.
func (b *Backend) ActiveWindow() Handle {
	return b.frameHandle
}

// FrameImage returns the immediate surface of win as an image, or nil for
// deferred windows and windows that never drew a frame.
func (b *Backend) FrameImage(win Handle) (image.Image, error) {
	w, err := b.resolveWindow(win)
	if err != nil {
		return nil, err
	}
	if w.surface == nil {
		return nil, nil
	}
	return w.surface.Image(), nil
}
