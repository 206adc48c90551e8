package gfx

import (
	"fmt"
	"strings"

	"github.com/gogpu/gfx/alloc"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/recording/backends/raster"
)

// Mode selects how a window turns draw calls into pixels.
type Mode uint8

const (
	// ModeImmediate draws every call onto a per-window surface as it arrives.
	ModeImmediate Mode = iota

	// ModeDeferred records calls into a per-window command list that the
	// host replays from its paint callback.
	ModeDeferred
)

// String returns "immediate" or "deferred".
func (m Mode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses a mode name, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "immediate":
		return ModeImmediate, nil
	case "deferred", "retained":
		return ModeDeferred, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Option configures a Backend during creation.
//
// Example:
//
//	// Immediate drawing on the headless host
//	b, _ := gfx.New()
//
//	// Deferred drawing with a byte budget
//	b, _ := gfx.New(
//	    gfx.WithMode(gfx.ModeDeferred),
//	    gfx.WithAllocator(&alloc.Counting{Limit: 64 << 20}),
//	)
type Option func(*options)

// options holds optional configuration for Backend creation.
type options struct {
	mode           Mode
	allocator      alloc.Allocator
	host           Host
	handleCapacity int
	replaySink     string
}

// defaultOptions returns the default backend options.
func defaultOptions() options {
	return options{
		mode:           ModeImmediate,
		allocator:      nil, // alloc.Default() if nil
		host:           nil, // headless host if nil
		handleCapacity: handle.DefaultCapacity,
		replaySink:     raster.Name,
	}
}

// WithMode sets the drawing mode of every window the backend creates.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithAllocator routes every heap use of the backend through a.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithHost sets the native host that creates windows and drives paint
// callbacks.
func WithHost(h Host) Option {
	return func(o *options) {
		o.host = h
	}
}

// WithHandleCapacity caps the number of live resources.
func WithHandleCapacity(n int) Option {
	return func(o *options) {
		o.handleCapacity = n
	}
}

// WithReplaySink names the recording sink deferred windows replay into.
// The sink package must be imported so that it registers itself.
func WithReplaySink(name string) Option {
	return func(o *options) {
		o.replaySink = name
	}
}
