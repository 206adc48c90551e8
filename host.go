package gfx

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gfx/headless"
)

// NativeWindow is the platform window behind a gfx window.
//
// The host calls the paint function when it wants the window repainted,
// passing a surface sized to the window's logical size and scale factor.
type NativeWindow interface {
	gpucontext.WindowProvider

	// SetPaintFunc installs the repaint callback. Nil removes it.
	SetPaintFunc(fn func(dst *gg.Context) error)

	// SetContentScale sets the device scale of the surfaces passed to
	// the paint callback. Zero or less falls back to ScaleFactor.
	SetContentScale(s float64)

	// Present hands a finished immediate-mode frame to the compositor.
	// damage is the region that changed, in image pixels.
	Present(img image.Image, damage image.Rectangle) error

	// Close destroys the native window.
	Close() error
}

// Host creates native windows.
type Host interface {
	OpenWindow(title string, width, height int) (NativeWindow, error)
}

// HeadlessHost adapts a headless host to the Host interface.
func HeadlessHost(h *headless.Host) Host {
	return headlessHost{h: h}
}

type headlessHost struct {
	h *headless.Host
}

func (hh headlessHost) OpenWindow(title string, width, height int) (NativeWindow, error) {
	w, err := hh.h.NewWindow(title, width, height)
	if err != nil {
		return nil, err
	}
	return w, nil
}
