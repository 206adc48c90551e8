package headless

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
)

func TestNewWindow(t *testing.T) {
	h := New(WithScaleFactor(2))
	defer func() { _ = h.Close() }()

	w, err := h.NewWindow("main", 100, 50)
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}
	if gw, gh := w.Size(); gw != 100 || gh != 50 {
		t.Errorf("Size() = %dx%d, want 100x50", gw, gh)
	}
	if w.ScaleFactor() != 2 {
		t.Errorf("ScaleFactor() = %v, want 2", w.ScaleFactor())
	}
	if w.Title() != "main" {
		t.Errorf("Title() = %q, want main", w.Title())
	}
	if len(h.Windows()) != 1 {
		t.Errorf("len(Windows()) = %d, want 1", len(h.Windows()))
	}

	if _, err := h.NewWindow("bad", 0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("NewWindow(0x10) error = %v, want ErrInvalidSize", err)
	}
}

func TestDispatchRunsPendingPaints(t *testing.T) {
	h := New()
	defer func() { _ = h.Close() }()

	a, _ := h.NewWindow("a", 8, 8)
	b, _ := h.NewWindow("b", 8, 8)
	calls := map[string]int{}
	a.SetPaintFunc(func(dc *gg.Context) error {
		calls["a"]++
		dc.ClearWithColor(gg.Red)
		return nil
	})
	b.SetPaintFunc(func(*gg.Context) error {
		calls["b"]++
		return nil
	})

	a.RequestRedraw()
	if err := h.Dispatch(); err != nil {
		t.Fatalf("Dispatch() = %v", err)
	}
	if calls["a"] != 1 || calls["b"] != 0 {
		t.Errorf("calls = %v, want a:1 b:0", calls)
	}
	if a.RedrawPending() {
		t.Error("redraw still pending after dispatch")
	}
	snap := a.Snapshot()
	if snap == nil {
		t.Fatal("Snapshot() = nil after paint")
	}
	if got := snap.RGBAAt(4, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("painted pixel = %v, want opaque red", got)
	}

	// Nothing pending: nothing runs.
	_ = h.Dispatch()
	if calls["a"] != 1 {
		t.Errorf("paint ran without a redraw request")
	}
}

func TestDispatchJoinsErrors(t *testing.T) {
	h := New()
	defer func() { _ = h.Close() }()

	boom := errors.New("boom")
	w, _ := h.NewWindow("w", 4, 4)
	w.SetPaintFunc(func(*gg.Context) error { return boom })
	w.RequestRedraw()

	if err := h.Dispatch(); !errors.Is(err, boom) {
		t.Errorf("Dispatch() = %v, want boom", err)
	}
	if w.RedrawPending() {
		t.Error("failed paint left redraw pending")
	}
}

func TestPaintUsesScaleFactor(t *testing.T) {
	h := New(WithScaleFactor(2))
	defer func() { _ = h.Close() }()

	w, _ := h.NewWindow("hidpi", 10, 6)
	w.SetPaintFunc(func(*gg.Context) error { return nil })
	if err := w.Paint(); err != nil {
		t.Fatalf("Paint() = %v", err)
	}
	if got := w.Snapshot().Bounds(); got != image.Rect(0, 0, 20, 12) {
		t.Errorf("frame bounds = %v, want 20x12 physical pixels", got)
	}
	if w.PaintCount() != 1 {
		t.Errorf("PaintCount() = %d, want 1", w.PaintCount())
	}
}

func TestPaintUsesContentScale(t *testing.T) {
	h := New()
	defer func() { _ = h.Close() }()

	w, _ := h.NewWindow("content", 10, 6)
	var scale float64
	w.SetPaintFunc(func(dc *gg.Context) error {
		scale = dc.DeviceScale()
		return nil
	})
	w.SetContentScale(3)
	if w.ContentScale() != 3 || w.ScaleFactor() != 1 {
		t.Errorf("ContentScale() = %v, ScaleFactor() = %v, want 3 and 1", w.ContentScale(), w.ScaleFactor())
	}
	if err := w.Paint(); err != nil {
		t.Fatalf("Paint() = %v", err)
	}
	if scale != 3 {
		t.Errorf("paint DeviceScale() = %v, want 3", scale)
	}
	if got := w.Snapshot().Bounds(); got != image.Rect(0, 0, 30, 18) {
		t.Errorf("frame bounds = %v, want 30x18", got)
	}

	w.SetContentScale(0)
	if w.ContentScale() != 1 {
		t.Errorf("ContentScale() after reset = %v, want 1", w.ContentScale())
	}
}

func TestPresentDamage(t *testing.T) {
	h := New()
	defer func() { _ = h.Close() }()
	w, _ := h.NewWindow("w", 4, 4)

	full := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range full.Pix {
		full.Pix[i] = 255
	}
	if err := w.Present(full, image.Rect(0, 0, 2, 2)); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	snap := w.Snapshot()
	if snap.RGBAAt(1, 1).A != 255 {
		t.Error("damaged pixel not copied")
	}
	if snap.RGBAAt(3, 3).A != 0 {
		t.Error("pixel outside damage was copied")
	}
	if w.Damage() != image.Rect(0, 0, 2, 2) {
		t.Errorf("Damage() = %v", w.Damage())
	}
	if w.PresentCount() != 1 {
		t.Errorf("PresentCount() = %d, want 1", w.PresentCount())
	}
}

func TestResizeAndScaleRequestRedraw(t *testing.T) {
	h := New()
	defer func() { _ = h.Close() }()
	w, _ := h.NewWindow("w", 4, 4)

	if err := w.Resize(8, 2); err != nil {
		t.Fatalf("Resize() = %v", err)
	}
	if !w.RedrawPending() {
		t.Error("Resize did not request a redraw")
	}
	if gw, gh := w.Size(); gw != 8 || gh != 2 {
		t.Errorf("Size() = %dx%d, want 8x2", gw, gh)
	}
	if err := w.Resize(-1, 2); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize(-1, 2) = %v, want ErrInvalidSize", err)
	}
	w.SetScaleFactor(1.5)
	if w.ScaleFactor() != 1.5 {
		t.Errorf("ScaleFactor() = %v, want 1.5", w.ScaleFactor())
	}
}

func TestClose(t *testing.T) {
	h := New()
	w, _ := h.NewWindow("w", 4, 4)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if len(h.Windows()) != 0 {
		t.Error("closed window still listed")
	}
	if err := w.Paint(); !errors.Is(err, ErrClosed) {
		t.Errorf("Paint() after close = %v, want ErrClosed", err)
	}
	w.RequestRedraw()
	if w.RedrawPending() {
		t.Error("closed window accepted a redraw request")
	}

	_ = h.Close()
	if _, err := h.NewWindow("late", 4, 4); !errors.Is(err, ErrClosed) {
		t.Errorf("NewWindow after host close = %v, want ErrClosed", err)
	}
}
