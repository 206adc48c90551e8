package gfx

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg/text"

	"github.com/gogpu/gfx/alloc"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/headless"
	"github.com/gogpu/gfx/recording"
)

// Graphics is the drawing contract widgets render through.
//
// Every method returns nil or an error matching one of the package error
// classes. Draw methods require an active frame.
type Graphics interface {
	BeginFrame(win Handle, width, height int, dpi float64) error
	EndFrame(win Handle) error

	Clear(c Color) error
	DrawRect(r Rect, c Color, radius float64) error
	DrawLine(x0, y0, x1, y1 float64, c Color, thickness float64) error
	DrawPath(p *Path, c Color) error
	DrawText(font Handle, s string, x, y float64, c Color) error
	DrawTexture(tex Handle, src, dst Rect) error

	PushClip(r Rect) error
	PopClip() error
	SetTransform(m Matrix) error

	CreateTexture(width, height int, format TextureFormat, pixels []byte) (Handle, error)
	UpdateTexture(tex Handle, r image.Rectangle, pixels []byte) error
	DestroyTexture(tex Handle) error
}

// Ensure Backend implements Graphics.
var _ Graphics = (*Backend)(nil)

// Backend owns every window, texture and font it creates, the transform
// and clip state, and the one active frame.
//
// Backend is not safe for concurrent use: all calls must come from the
// UI thread.
type Backend struct {
	mode     Mode
	alloc    alloc.Allocator
	host     Host
	ownHost  *headless.Host
	sinkName string
	handles  *handle.Table

	// Frame state.
	frame        *Window
	frameHandle  Handle
	clipDepth    int
	depthAtBegin int

	// Transform state.
	transform Matrix
	simple    bool

	closed bool
}

// New creates a backend. Without WithHost, windows open on a private
// headless host.
func New(opts ...Option) (*Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.mode > ModeDeferred {
		return nil, fmt.Errorf("%w: mode %v", ErrInvalidArgument, o.mode)
	}
	if o.handleCapacity < 0 {
		return nil, fmt.Errorf("%w: handle capacity %d", ErrRange, o.handleCapacity)
	}
	if !recording.IsRegistered(o.replaySink) {
		return nil, fmt.Errorf("%w: replay sink %q not registered", ErrInvalidArgument, o.replaySink)
	}
	if o.allocator == nil {
		o.allocator = alloc.Default()
	}

	b := &Backend{
		mode:      o.mode,
		alloc:     o.allocator,
		host:      o.host,
		sinkName:  o.replaySink,
		handles:   handle.NewTable(o.handleCapacity, o.allocator),
		transform: Identity(),
		simple:    true,
	}
	if b.host == nil {
		b.ownHost = headless.New(headless.WithLogger(Logger()))
		b.host = HeadlessHost(b.ownHost)
	}
	Logger().Info("gfx: backend created", "mode", b.mode, "sink", b.sinkName, "capacity", b.handles.Cap())
	return b, nil
}

// Mode returns the drawing mode of new windows.
func (b *Backend) Mode() Mode { return b.mode }

// Host returns the native host.
func (b *Backend) Host() Host { return b.host }

// Close destroys every live resource and the private host, if any.
// A frame still in progress is abandoned.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	var errs []error
	if b.frame != nil {
		Logger().Warn("gfx: closing backend with an active frame", "window", b.frame.title)
		b.frame = nil
		b.clipDepth = 0
	}
	for _, h := range b.handles.Handles() {
		obj, err := b.handles.Unregister(h)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := obj.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	b.handles.Close()
	if b.ownHost != nil {
		errs = append(errs, b.ownHost.Close())
	}
	b.closed = true
	return errors.Join(errs...)
}

// Live returns the number of registered resources.
func (b *Backend) Live() int { return b.handles.Len() }

func (b *Backend) check() error {
	if b.closed {
		return ErrClosed
	}
	return nil
}

// resolve looks up h and checks that it names an object of type want.
func (b *Backend) resolve(h Handle, want handle.TypeID) (handle.Object, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	obj, err := b.handles.Resolve(h)
	if err != nil {
		return nil, handleError(err)
	}
	if obj.TypeID() != want {
		return nil, fmt.Errorf("%w: handle %s is a %s, want %s", ErrInvalidArgument, h, obj.TypeID(), want)
	}
	return obj, nil
}

func (b *Backend) resolveWindow(h Handle) (*Window, error) {
	obj, err := b.resolve(h, handle.TypeWindow)
	if err != nil {
		return nil, err
	}
	return obj.(*Window), nil
}

func (b *Backend) resolveTexture(h Handle) (*Texture, error) {
	obj, err := b.resolve(h, handle.TypeTexture)
	if err != nil {
		return nil, err
	}
	return obj.(*Texture), nil
}

func (b *Backend) resolveFont(h Handle) (*Font, error) {
	obj, err := b.resolve(h, handle.TypeFont)
	if err != nil {
		return nil, err
	}
	return obj.(*Font), nil
}

// register stores obj, releasing it if the table refuses.
func (b *Backend) register(obj handle.Object) (Handle, error) {
	h, err := b.handles.Register(obj)
	if err != nil {
		if rerr := obj.Release(); rerr != nil {
			Logger().Warn("gfx: release after failed register", "type", obj.TypeID(), "err", rerr)
		}
		return Handle{}, handleError(err)
	}
	return h, nil
}

// unregister removes h from the table and drops the table's reference.
// The object is destroyed now unless a recorded command still holds it.
func (b *Backend) unregister(h Handle, want handle.TypeID) error {
	if _, err := b.resolve(h, want); err != nil {
		return err
	}
	obj, err := b.handles.Unregister(h)
	if err != nil {
		return handleError(err)
	}
	return classify(ErrUnknown, obj.Release())
}

// CreateWindow opens a native window on the host and returns its handle.
func (b *Backend) CreateWindow(title string, width, height int) (Handle, error) {
	if err := b.check(); err != nil {
		return Handle{}, err
	}
	if width <= 0 || height <= 0 {
		return Handle{}, fmt.Errorf("%w: window size %dx%d", ErrRange, width, height)
	}
	native, err := b.host.OpenWindow(title, width, height)
	if err != nil {
		return Handle{}, classify(ErrUnknown, err)
	}
	w := newWindow(native, title, b.mode, b.alloc, b.sinkName)
	h, err := b.register(w)
	if err != nil {
		return Handle{}, err
	}
	Logger().Info("gfx: window created", "handle", h, "title", title, "mode", b.mode)
	return h, nil
}

// DestroyWindow closes the window. Destroying the window of the active
// frame is a state error.
func (b *Backend) DestroyWindow(win Handle) error {
	w, err := b.resolveWindow(win)
	if err != nil {
		return err
	}
	if w == b.frame {
		return fmt.Errorf("%w: window %s is mid-frame", ErrState, win)
	}
	return b.unregister(win, handle.TypeWindow)
}

// Window returns the window behind h.
func (b *Backend) Window(h Handle) (*Window, error) {
	return b.resolveWindow(h)
}

// SetWindowDPI overrides the scale used for the window's frames.
// Zero removes the override.
func (b *Backend) SetWindowDPI(win Handle, dpi float64) error {
	w, err := b.resolveWindow(win)
	if err != nil {
		return err
	}
	if dpi < 0 {
		return fmt.Errorf("%w: dpi %v", ErrRange, dpi)
	}
	w.dpiOverride = dpi
	return nil
}

// CreateTexture allocates a texture and converts pixels into it when
// non-nil. pixels holds width*height tight rows in format.
func (b *Backend) CreateTexture(width, height int, format TextureFormat, pixels []byte) (Handle, error) {
	if err := b.check(); err != nil {
		return Handle{}, err
	}
	t, err := newTexture(b.alloc, width, height, format, pixels)
	if err != nil {
		return Handle{}, err
	}
	return b.register(t)
}

// UpdateTexture replaces the pixels of r. pixels holds r.Dx()*r.Dy()
// tight rows in the texture's format.
func (b *Backend) UpdateTexture(tex Handle, r image.Rectangle, pixels []byte) error {
	t, err := b.resolveTexture(tex)
	if err != nil {
		return err
	}
	return t.update(r, pixels)
}

// ReadTexture returns the pixels of r as tight rows in the texture's format.
func (b *Backend) ReadTexture(tex Handle, r image.Rectangle) ([]byte, error) {
	t, err := b.resolveTexture(tex)
	if err != nil {
		return nil, err
	}
	return t.Read(r)
}

// Texture returns the texture behind h.
func (b *Backend) Texture(h Handle) (*Texture, error) {
	return b.resolveTexture(h)
}

// DestroyTexture invalidates the handle. The pixels are freed once no
// recorded command refers to the texture.
func (b *Backend) DestroyTexture(tex Handle) error {
	return b.unregister(tex, handle.TypeTexture)
}

// CreateFont compiles a font description.
func (b *Backend) CreateFont(desc FontDescription) (Handle, error) {
	if err := b.check(); err != nil {
		return Handle{}, err
	}
	f, err := newFont(desc)
	if err != nil {
		return Handle{}, err
	}
	return b.register(f)
}

// DestroyFont invalidates the handle.
func (b *Backend) DestroyFont(font Handle) error {
	return b.unregister(font, handle.TypeFont)
}

// Font returns the font behind h.
func (b *Backend) Font(h Handle) (*Font, error) {
	return b.resolveFont(h)
}

// FontMetrics returns the metrics of the font at its size.
func (b *Backend) FontMetrics(font Handle) (text.Metrics, error) {
	f, err := b.resolveFont(font)
	if err != nil {
		return text.Metrics{}, err
	}
	return f.Metrics()
}

// MeasureText returns the advance width of s in the font.
func (b *Backend) MeasureText(font Handle, s string) (float64, error) {
	f, err := b.resolveFont(font)
	if err != nil {
		return 0, err
	}
	return f.Measure(s)
}
