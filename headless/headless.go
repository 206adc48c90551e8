// Package headless is a native host without an operating system window.
//
// A Host owns a set of Windows. Each Window reports its size and scale
// factor through gpucontext.WindowProvider, accepts presented frames from
// an immediate-mode renderer, and runs a paint callback when a redraw was
// requested and the host dispatches. The last frame of every window can be
// read back with Snapshot, which makes the package the test and CLI stand-in
// for a real windowing toolkit.
//
//	host := headless.New(headless.WithScaleFactor(2))
//	win, _ := host.NewWindow("demo", 320, 240)
//	win.SetPaintFunc(func(dc *gg.Context) error { ... })
//	win.RequestRedraw()
//	_ = host.Dispatch()
//	img := win.Snapshot()
package headless

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
)

var (
	// ErrClosed is returned by operations on a closed host or window.
	ErrClosed = errors.New("headless: closed")

	// ErrInvalidSize is returned for non-positive window dimensions.
	ErrInvalidSize = errors.New("headless: invalid window size")
)

// Option configures a Host.
type Option func(*Host)

// WithScaleFactor sets the scale factor reported by new windows.
func WithScaleFactor(s float64) Option {
	return func(h *Host) {
		if s > 0 {
			h.scale = s
		}
	}
}

// WithLogger sets the logger used for paint and present diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// Host creates windows and dispatches their paint callbacks.
// Host is safe for concurrent use.
type Host struct {
	mu      sync.Mutex
	windows []*Window
	nextID  int
	scale   float64
	logger  *slog.Logger
	closed  bool
}

// New creates a host.
func New(opts ...Option) *Host {
	h := &Host{
		scale:  1,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewWindow opens a window with the given logical size.
func (h *Host) NewWindow(title string, width, height int) (*Window, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	h.nextID++
	w := &Window{
		host:   h,
		id:     h.nextID,
		title:  title,
		width:  width,
		height: height,
		scale:  h.scale,
	}
	h.windows = append(h.windows, w)
	h.logger.Debug("headless: window opened", "id", w.id, "title", title, "width", width, "height", height)
	return w, nil
}

// Windows returns the open windows in creation order.
func (h *Host) Windows() []*Window {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Window, len(h.windows))
	copy(out, h.windows)
	return out
}

// Dispatch runs the paint callback of every window with a pending redraw
// request. Errors from individual windows are joined; every window is
// visited.
func (h *Host) Dispatch() error {
	var errs []error
	for _, w := range h.Windows() {
		if !w.RedrawPending() {
			continue
		}
		if err := w.Paint(); err != nil {
			h.logger.Warn("headless: paint failed", "id", w.id, "err", err)
			errs = append(errs, fmt.Errorf("window %d: %w", w.id, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every window. Further NewWindow calls fail with ErrClosed.
func (h *Host) Close() error {
	h.mu.Lock()
	ws := h.windows
	h.windows = nil
	h.closed = true
	h.mu.Unlock()

	for _, w := range ws {
		w.close()
	}
	return nil
}

func (h *Host) remove(w *Window) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, x := range h.windows {
		if x == w {
			h.windows = append(h.windows[:i], h.windows[i+1:]...)
			return
		}
	}
}

// Window is a headless native window.
type Window struct {
	host *Host
	id   int

	mu       sync.Mutex
	title    string
	width    int
	height   int
	scale    float64
	content  float64 // paint surface scale when > 0
	paint    func(dst *gg.Context) error
	redraw   bool
	frame    *image.RGBA
	damage   image.Rectangle
	presents int
	paints   int
	closed   bool
}

// Ensure Window satisfies the gpucontext window contract.
var _ gpucontext.WindowProvider = (*Window)(nil)

// ID returns the host-assigned window id.
func (w *Window) ID() int { return w.id }

// Title returns the window title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// Size implements gpucontext.WindowProvider.
func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// ScaleFactor implements gpucontext.WindowProvider.
func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// RequestRedraw implements gpucontext.WindowProvider. The paint callback
// runs on the next Dispatch.
func (w *Window) RequestRedraw() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.redraw = true
	}
}

// RedrawPending reports whether a redraw was requested since the last paint.
func (w *Window) RedrawPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.redraw
}

// Resize changes the logical size, as a user drag would.
func (w *Window) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
	w.redraw = true
	return nil
}

// SetScaleFactor changes the reported scale, as moving to another monitor would.
func (w *Window) SetScaleFactor(s float64) {
	if s <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scale = s
	w.redraw = true
}

// SetContentScale sets the device scale of the surfaces handed to the
// paint callback, overriding ScaleFactor. Zero or less restores it.
func (w *Window) SetContentScale(s float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s < 0 {
		s = 0
	}
	w.content = s
}

// ContentScale returns the device scale the next paint surface gets.
func (w *Window) ContentScale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paintScale()
}

func (w *Window) paintScale() float64 {
	if w.content > 0 {
		return w.content
	}
	return w.scale
}

// SetPaintFunc installs the repaint callback. Nil removes it.
func (w *Window) SetPaintFunc(fn func(dst *gg.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paint = fn
}

// Present copies the damaged region of img into the window frame.
// An empty damage rectangle presents the whole image.
func (w *Window) Present(img image.Image, damage image.Rectangle) error {
	if img == nil {
		return errors.New("headless: present nil image")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	b := img.Bounds()
	if w.frame == nil || w.frame.Bounds() != b {
		w.frame = image.NewRGBA(b)
	}
	if damage.Empty() {
		damage = b
	}
	damage = damage.Intersect(b)
	draw.Draw(w.frame, damage, img, damage.Min, draw.Src)
	w.damage = damage
	w.presents++
	return nil
}

// Paint runs the paint callback on a fresh surface sized to the window
// at its content scale and keeps the result as the window frame. The
// pending redraw flag is cleared even when the callback fails.
func (w *Window) Paint() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	fn := w.paint
	width, height, scale := w.width, w.height, w.paintScale()
	w.redraw = false
	w.mu.Unlock()

	if fn == nil {
		return nil
	}
	dc := gg.NewContext(width, height, gg.WithDeviceScale(scale))
	defer func() { _ = dc.Close() }()

	err := fn(dc)

	img := toRGBA(dc.Image())
	w.mu.Lock()
	w.frame = img
	w.damage = img.Bounds()
	w.paints++
	w.mu.Unlock()
	return err
}

// Snapshot returns a copy of the last presented or painted frame, or nil.
func (w *Window) Snapshot() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return nil
	}
	out := image.NewRGBA(w.frame.Bounds())
	copy(out.Pix, w.frame.Pix)
	return out
}

// Damage returns the region updated by the last present or paint.
func (w *Window) Damage() image.Rectangle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.damage
}

// PresentCount returns how many frames were presented.
func (w *Window) PresentCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.presents
}

// PaintCount returns how many times the paint callback ran.
func (w *Window) PaintCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paints
}

// Close closes the window and removes it from its host.
func (w *Window) Close() error {
	w.close()
	w.host.remove(w)
	return nil
}

func (w *Window) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.paint = nil
	w.redraw = false
	w.host.logger.Debug("headless: window closed", "id", w.id)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
