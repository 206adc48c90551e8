package gfx

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gfx/alloc"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/headless"
)

// newTestBackend returns a backend on its own headless host.
func newTestBackend(t *testing.T, mode Mode, opts ...Option) (*Backend, *headless.Host) {
	t.Helper()
	host := headless.New()
	opts = append([]Option{WithMode(mode), WithHost(HeadlessHost(host))}, opts...)
	b, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = b.Close()
		_ = host.Close()
	})
	return b, host
}

func mustWindow(t *testing.T, b *Backend, w, h int) Handle {
	t.Helper()
	win, err := b.CreateWindow("test", w, h)
	if err != nil {
		t.Fatalf("CreateWindow() error = %v", err)
	}
	return win
}

func TestCreateWindow(t *testing.T) {
	b, host := newTestBackend(t, ModeImmediate)
	win := mustWindow(t, b, 64, 48)
	if win.IsZero() {
		t.Fatal("CreateWindow() returned the zero handle")
	}
	w, err := b.Window(win)
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if w.Title() != "test" || w.Mode() != ModeImmediate {
		t.Errorf("window = %q/%v", w.Title(), w.Mode())
	}
	if width, height := w.Size(); width != 64 || height != 48 {
		t.Errorf("Size() = %dx%d, want 64x48", width, height)
	}
	if got := len(host.Windows()); got != 1 {
		t.Errorf("host windows = %d, want 1", got)
	}

	for _, size := range [][2]int{{0, 10}, {10, -1}} {
		if _, err := b.CreateWindow("bad", size[0], size[1]); !errors.Is(err, ErrRange) {
			t.Errorf("CreateWindow(%v) error = %v, want ErrRange", size, err)
		}
	}
}

func TestDestroyWindow(t *testing.T) {
	b, host := newTestBackend(t, ModeImmediate)
	win := mustWindow(t, b, 8, 8)
	if err := b.DestroyWindow(win); err != nil {
		t.Fatalf("DestroyWindow() error = %v", err)
	}
	if got := len(host.Windows()); got != 0 {
		t.Errorf("host windows after destroy = %d, want 0", got)
	}
	if b.Live() != 0 {
		t.Errorf("Live() = %d, want 0", b.Live())
	}
	if err := b.DestroyWindow(win); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("second DestroyWindow() error = %v, want ErrInvalidArgument", err)
	}
}

func TestDestroyWindowMidFrame(t *testing.T) {
	b, _ := newTestBackend(t, ModeImmediate)
	win := mustWindow(t, b, 8, 8)
	if err := b.BeginFrame(win, 8, 8, 1); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if err := b.DestroyWindow(win); !errors.Is(err, ErrState) {
		t.Errorf("DestroyWindow() mid-frame error = %v, want ErrState", err)
	}
	if err := b.EndFrame(win); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}
	if err := b.DestroyWindow(win); err != nil {
		t.Errorf("DestroyWindow() after frame error = %v", err)
	}
}

func TestStaleHandle(t *testing.T) {
	b, _ := newTestBackend(t, ModeImmediate)
	old, err := b.CreateTexture(2, 2, FormatRGBA8, nil)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if err := b.DestroyTexture(old); err != nil {
		t.Fatalf("DestroyTexture() error = %v", err)
	}

	// The slot is reused with a new generation.
	fresh, err := b.CreateTexture(2, 2, FormatRGBA8, nil)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if fresh.ID != old.ID || fresh.Generation == old.Generation {
		t.Errorf("reuse: old %v, fresh %v", old, fresh)
	}

	_, err = b.Texture(old)
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, handle.ErrStaleHandle) {
		t.Errorf("Texture(stale) error = %v, want ErrInvalidArgument + stale", err)
	}
	if _, err := b.Texture(fresh); err != nil {
		t.Errorf("Texture(fresh) error = %v", err)
	}
	if _, err := b.Texture(Handle{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Texture(zero) error = %v, want ErrInvalidArgument", err)
	}
}

func TestWrongHandleType(t *testing.T) {
	b, _ := newTestBackend(t, ModeImmediate)
	tex, err := b.CreateTexture(2, 2, FormatA8, nil)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	font, err := b.CreateFont(FontDescription{Size: 12})
	if err != nil {
		t.Fatalf("CreateFont() error = %v", err)
	}

	if _, err := b.Font(tex); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Font(texture) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := b.Window(font); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Window(font) error = %v, want ErrInvalidArgument", err)
	}
	if err := b.DestroyTexture(font); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("DestroyTexture(font) error = %v, want ErrInvalidArgument", err)
	}
	// The font survived the wrongly typed destroy.
	if _, err := b.MeasureText(font, "x"); err != nil {
		t.Errorf("MeasureText() error = %v", err)
	}
}

func TestHandleCapacity(t *testing.T) {
	b, _ := newTestBackend(t, ModeImmediate, WithHandleCapacity(2))
	for i := 0; i < 2; i++ {
		if _, err := b.CreateTexture(1, 1, FormatA8, nil); err != nil {
			t.Fatalf("CreateTexture(%d) error = %v", i, err)
		}
	}
	_, err := b.CreateTexture(1, 1, FormatA8, nil)
	if !errors.Is(err, ErrRange) {
		t.Errorf("CreateTexture() past capacity error = %v, want ErrRange", err)
	}
	if b.Live() != 2 {
		t.Errorf("Live() = %d, want 2", b.Live())
	}
}

func TestTextureThroughBackend(t *testing.T) {
	b, _ := newTestBackend(t, ModeImmediate)
	tex, err := b.CreateTexture(2, 1, FormatRGBA8, []byte{1, 2, 3, 255, 4, 5, 6, 255})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if err := b.UpdateTexture(tex, image.Rect(1, 0, 2, 1), []byte{9, 9, 9, 255}); err != nil {
		t.Fatalf("UpdateTexture() error = %v", err)
	}
	got, err := b.ReadTexture(tex, image.Rect(0, 0, 2, 1))
	if err != nil {
		t.Fatalf("ReadTexture() error = %v", err)
	}
	want := []byte{1, 2, 3, 255, 9, 9, 9, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReadTexture() = %v, want %v", got, want)
		}
	}
	if err := b.UpdateTexture(tex, image.Rect(0, 0, 3, 1), make([]byte, 12)); !errors.Is(err, ErrRange) {
		t.Errorf("UpdateTexture(out of bounds) error = %v, want ErrRange", err)
	}
}

func TestCreateTextureOutOfMemory(t *testing.T) {
	a := &alloc.Counting{Limit: 1 << 16}
	b, _ := newTestBackend(t, ModeImmediate, WithAllocator(a))
	before := a.InUse()
	if _, err := b.CreateTexture(1024, 1024, FormatRGBA8, nil); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("CreateTexture() error = %v, want ErrOutOfMemory", err)
	}
	if a.InUse() != before {
		t.Errorf("InUse() = %d after failure, want %d", a.InUse(), before)
	}
}

func TestFontThroughBackend(t *testing.T) {
	b, _ := newTestBackend(t, ModeImmediate)
	font, err := b.CreateFont(FontDescription{Family: "Go", Size: 20})
	if err != nil {
		t.Fatalf("CreateFont() error = %v", err)
	}
	m, err := b.FontMetrics(font)
	if err != nil || m.Ascent <= 0 {
		t.Errorf("FontMetrics() = %+v, %v", m, err)
	}
	if w, err := b.MeasureText(font, "hello"); err != nil || w <= 0 {
		t.Errorf("MeasureText() = %v, %v", w, err)
	}
	if err := b.DestroyFont(font); err != nil {
		t.Fatalf("DestroyFont() error = %v", err)
	}
	if _, err := b.FontMetrics(font); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("FontMetrics(destroyed) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := b.CreateFont(FontDescription{}); !errors.Is(err, ErrRange) {
		t.Errorf("CreateFont(size 0) error = %v, want ErrRange", err)
	}
}

func TestSetWindowDPI(t *testing.T) {
	b, _ := newTestBackend(t, ModeImmediate)
	win := mustWindow(t, b, 10, 10)
	if err := b.SetWindowDPI(win, -1); !errors.Is(err, ErrRange) {
		t.Errorf("SetWindowDPI(-1) error = %v, want ErrRange", err)
	}
	if err := b.SetWindowDPI(win, 2); err != nil {
		t.Fatalf("SetWindowDPI(2) error = %v", err)
	}
	w, _ := b.Window(win)
	if w.DPI() != 2 {
		t.Errorf("DPI() = %v, want 2", w.DPI())
	}

	if err := b.BeginFrame(win, 10, 10, 1); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if err := b.EndFrame(win); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}
	img, _ := b.FrameImage(win)
	if got := img.Bounds().Dx(); got != 20 {
		t.Errorf("surface width = %d, want 20 (override wins)", got)
	}
}

func TestClose(t *testing.T) {
	a := &alloc.Counting{}
	host := headless.New()
	defer func() { _ = host.Close() }()
	b, err := New(WithHost(HeadlessHost(host)), WithAllocator(a))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	win := mustWindow(t, b, 16, 16)
	if _, err := b.CreateTexture(4, 4, FormatRGBA8, nil); err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if err := b.BeginFrame(win, 16, 16, 1); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if got := a.InUse(); got != 0 {
		t.Errorf("InUse() after Close = %d, want 0", got)
	}
	if len(host.Windows()) != 0 {
		t.Error("native windows survived Close")
	}
	if _, err := b.CreateWindow("late", 1, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateWindow() after Close error = %v, want ErrClosed", err)
	}
	if err := b.Clear(Color{}); !errors.Is(err, ErrState) {
		t.Errorf("Clear() after Close error = %v, want ErrState", err)
	}
}
