package gfx

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gfx/alloc"
)

// Config is the serialisable form of the backend options.
//
//	mode: deferred
//	handle_capacity: 1024
//	memory_limit: 67108864
//	replay_sink: raster
type Config struct {
	Mode           Mode   `yaml:"mode"`
	HandleCapacity int    `yaml:"handle_capacity,omitempty"`
	MemoryLimit    int64  `yaml:"memory_limit,omitempty"`
	ReplaySink     string `yaml:"replay_sink,omitempty"`
}

// LoadConfig decodes a YAML config. An empty document yields the zero
// Config, which selects immediate mode and default limits.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("gfx: load config: %w", classify(ErrInvalidArgument, err))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if c.HandleCapacity < 0 {
		return fmt.Errorf("%w: handle_capacity %d", ErrRange, c.HandleCapacity)
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("%w: memory_limit %d", ErrRange, c.MemoryLimit)
	}
	if c.Mode > ModeDeferred {
		return fmt.Errorf("%w: mode %v", ErrInvalidArgument, c.Mode)
	}
	return nil
}

// Options converts c to backend options. A positive MemoryLimit installs a
// Counting allocator with that limit.
func (c Config) Options() []Option {
	opts := []Option{WithMode(c.Mode)}
	if c.HandleCapacity > 0 {
		opts = append(opts, WithHandleCapacity(c.HandleCapacity))
	}
	if c.MemoryLimit > 0 {
		opts = append(opts, WithAllocator(&alloc.Counting{Limit: c.MemoryLimit}))
	}
	if c.ReplaySink != "" {
		opts = append(opts, WithReplaySink(c.ReplaySink))
	}
	return opts
}
