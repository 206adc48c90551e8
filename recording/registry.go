package recording

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gogpu/gg"
)

// ErrUnknownSink is returned by NewSink for a name nobody registered.
var ErrUnknownSink = errors.New("recording: unknown sink")

// SinkFactory binds a sink to the surface a paint callback received.
type SinkFactory func(dst *gg.Context) Sink

// sinkRegistry maps replay targets to their factories. Sink packages add
// themselves from init; windows look them up on every paint.
type sinkRegistry struct {
	mu        sync.RWMutex
	factories map[string]SinkFactory
}

var registry = sinkRegistry{factories: map[string]SinkFactory{}}

// Register makes a sink available under name. It panics on a nil factory
// or a name that is taken, since both are programming errors in a sink
// package's init.
func Register(name string, factory SinkFactory) {
	if factory == nil {
		panic("recording: nil factory for sink " + name)
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, taken := registry.factories[name]; taken {
		panic("recording: sink " + name + " registered twice")
	}
	registry.factories[name] = factory
}

// Unregister drops name. Unknown names are ignored.
func Unregister(name string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.factories, name)
}

// NewSink returns the sink registered as name, drawing into dst.
// Sink packages register on import, so a missing name usually means a
// missing blank import.
func NewSink(name string, dst *gg.Context) (Sink, error) {
	registry.mu.RLock()
	factory := registry.factories[name]
	registry.mu.RUnlock()

	if factory == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownSink, name)
	}
	return factory(dst), nil
}

// Sinks lists the registered names in order.
func Sinks() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return slices.Sorted(maps.Keys(registry.factories))
}

// IsRegistered reports whether name can be passed to NewSink.
func IsRegistered(name string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.factories[name]
	return ok
}
