// Package recording holds the deferred command list of a gfx window.
//
// In deferred mode every draw call is appended to a per-window List as a
// typed Command instead of being rasterized. Coordinates are already in
// device space when a command is recorded, so a List can be replayed
// later, from the platform paint callback, without any transform state.
//
// # Commands
//
// Commands form a closed set: Clear, Rect, Line, PushClip, PopClip,
// Texture, Text and Path. Text and Path own a payload (the copied string,
// the transformed points) whose bytes are accounted through the list's
// allocator. Texture and Text keep a reference to the resource they draw
// so it outlives the replay even if the caller destroys its handle.
//
// # Replay
//
// List.Replay dispatches commands to a Sink. Sinks are registered by name:
//
//	import _ "github.com/gogpu/gfx/recording/backends/raster"
//
//	sink, _ := recording.NewSink("raster", dc)
//	err := list.Replay(sink)
//
// # Memory
//
// The first Push reserves InitialCapacity slots; every later growth
// doubles the buffer. Sizes are overflow-checked before the allocator is
// asked for the bytes. Reset releases every payload and keeps the buffer.
package recording
