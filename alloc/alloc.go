// Package alloc provides the allocator contract used by every heap-backed
// structure in gfx.
//
// Go manages memory itself, so an Allocator here is a byte budget: callers
// Acquire the size of a buffer before making it and Release it when the
// buffer is dropped. This keeps the backend allocator-agnostic and lets
// tests inject deterministic allocation failures.
package alloc

import (
	"errors"
	"math"
	"math/bits"
	"sync/atomic"
	"unsafe"
)

var (
	// ErrOutOfMemory is returned when an allocator refuses a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrOverflow is returned when a size computation overflows.
	ErrOverflow = errors.New("alloc: size overflow")
)

// Allocator accounts for heap use.
type Allocator interface {
	// Acquire reserves n bytes. It returns ErrOutOfMemory when the
	// request cannot be satisfied.
	Acquire(n int) error

	// Release returns n bytes previously acquired.
	Release(n int)
}

// Default returns an allocator that never fails and tracks nothing.
func Default() Allocator { return heap{} }

type heap struct{}

func (heap) Acquire(n int) error {
	if n < 0 {
		return ErrOverflow
	}
	return nil
}

func (heap) Release(int) {}

// Counting tracks bytes in use and optionally enforces a limit.
// A zero Limit means unlimited.
type Counting struct {
	Limit int64

	inUse atomic.Int64
	peak  atomic.Int64
}

// Acquire implements Allocator.
func (c *Counting) Acquire(n int) error {
	if n < 0 {
		return ErrOverflow
	}
	next := c.inUse.Add(int64(n))
	if c.Limit > 0 && next > c.Limit {
		c.inUse.Add(-int64(n))
		return ErrOutOfMemory
	}
	for {
		p := c.peak.Load()
		if next <= p || c.peak.CompareAndSwap(p, next) {
			break
		}
	}
	return nil
}

// Release implements Allocator.
func (c *Counting) Release(n int) {
	c.inUse.Add(-int64(n))
}

// InUse returns the number of bytes currently acquired.
func (c *Counting) InUse() int64 { return c.inUse.Load() }

// Peak returns the high-water mark of InUse.
func (c *Counting) Peak() int64 { return c.peak.Load() }

// FailAfter succeeds for the first N Acquire calls and fails every call
// after that. It is meant for failure injection in tests.
type FailAfter struct {
	N int

	calls int
	Counting
}

// Acquire implements Allocator.
func (f *FailAfter) Acquire(n int) error {
	f.calls++
	if f.calls > f.N {
		return ErrOutOfMemory
	}
	return f.Counting.Acquire(n)
}

// Calls returns how many Acquire calls were made.
func (f *FailAfter) Calls() int { return f.calls }

// Mul returns a*b, or ErrOverflow if the product does not fit in an int.
func Mul(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrOverflow
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, ErrOverflow
	}
	return int(lo), nil
}

// SizeOf returns the byte size of n elements of T with an overflow check.
func SizeOf[T any](n int) (int, error) {
	var zero T
	return Mul(n, int(unsafe.Sizeof(zero)))
}

// Make acquires room for n elements of T from a and returns a slice of
// length n. The bytes stay acquired until the caller releases them.
func Make[T any](a Allocator, n int) ([]T, error) {
	size, err := SizeOf[T](n)
	if err != nil {
		return nil, err
	}
	if err := a.Acquire(size); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// Free releases the bytes held by s, as acquired by Make.
func Free[T any](a Allocator, s []T) {
	if s == nil {
		return
	}
	size, err := SizeOf[T](len(s))
	if err != nil {
		return
	}
	a.Release(size)
}
