// Package gfx is the rendering backend of a widget toolkit.
//
// # Overview
//
// Widgets draw through the Graphics interface. A Backend hides two ways of
// turning those calls into pixels:
//
//   - Immediate mode draws every call onto a per-window gg.Context surface
//     as it arrives and presents the surface at EndFrame.
//   - Deferred mode records calls into a per-window command list with the
//     current transform baked in. The native host replays the list from
//     its paint callback.
//
// The mode is chosen when the Backend is created and applies to every
// window it opens.
//
// # Quick Start
//
//	b, err := gfx.New(gfx.WithMode(gfx.ModeDeferred))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	win, _ := b.CreateWindow("hello", 320, 240)
//	font, _ := b.CreateFont(gfx.FontDescription{Size: 16})
//
//	_ = b.BeginFrame(win, 320, 240, 0)
//	_ = b.Clear(gfx.Hex("#202020"))
//	_ = b.DrawRect(gfx.NewRect(10, 10, 100, 40), gfx.Hex("#3080ff"), 6)
//	_ = b.DrawText(font, "hello", 20, 36, gfx.Hex("#ffffff"))
//	_ = b.EndFrame(win)
//
// # Resources
//
// Windows, textures and fonts are owned by the Backend and named by a
// Handle: a slot index plus a generation. Destroying a resource bumps the
// generation, so an old Handle never resolves to a newer object. Recorded
// commands hold their own reference to the textures and fonts they use,
// which stay alive until the list is reset.
//
// # Transforms and clipping
//
// SetTransform sets a 3x3 matrix that persists across frames. Deferred
// windows can only bake axis-aligned scale plus translate; with any other
// matrix set, geometry draws fail with ErrUnsupported. The clip stack is
// at most MaxClipDepth deep and must be balanced within a frame.
//
// # Errors
//
// Every error matches exactly one class with errors.Is: ErrInvalidArgument,
// ErrRange, ErrState, ErrUnsupported, ErrOutOfMemory, ErrOverflow or
// ErrUnknown. StatusOf maps an error to a numeric Status.
//
// # Threading
//
// A Backend is not safe for concurrent use. All calls, including the
// paint callbacks the host makes, belong on one thread.
package gfx
