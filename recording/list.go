package recording

import (
	"errors"
	"math"

	"github.com/gogpu/gfx/alloc"
)

// InitialCapacity is the size of a command list after its first growth.
const InitialCapacity = 64

// Stats describes the growth history of a List.
type Stats struct {
	// Grows counts every reallocation, including the first one.
	Grows int
	// Doublings counts reallocations that doubled an existing buffer.
	Doublings int
}

// List is a growable, owned sequence of commands for one window.
// All buffer memory and command payloads are accounted through the
// allocator the list was created with.
//
// List is not safe for concurrent use.
type List struct {
	cmds  []Command // len(cmds) is the capacity
	n     int
	alloc alloc.Allocator
	stats Stats
}

// NewList creates an empty list. No memory is reserved until the first Push.
func NewList(a alloc.Allocator) *List {
	if a == nil {
		a = alloc.Default()
	}
	return &List{alloc: a}
}

// Len returns the number of recorded commands.
func (l *List) Len() int { return l.n }

// Cap returns the number of commands the list can hold without growing.
func (l *List) Cap() int { return len(l.cmds) }

// Stats returns the growth history.
func (l *List) Stats() Stats { return l.stats }

// At returns the i-th command. It panics if i is out of range.
func (l *List) At(i int) Command {
	if i < 0 || i >= l.n {
		panic("recording: List.At index out of range")
	}
	return l.cmds[i]
}

// Commands returns the recorded commands in program order.
// The slice aliases the list and is valid until the next Push or Reset.
func (l *List) Commands() []Command {
	return l.cmds[:l.n]
}

// Push appends cmd. When the list is full it grows to InitialCapacity on
// first use and doubles afterwards. If growth fails, the payload of cmd is
// released and the list is left unchanged.
func (l *List) Push(cmd Command) error {
	if cmd == nil {
		return errors.New("recording: nil command")
	}
	if l.n == len(l.cmds) {
		if err := l.grow(); err != nil {
			_ = cmd.release(l.alloc)
			return err
		}
	}
	l.cmds[l.n] = cmd
	l.n++
	return nil
}

func (l *List) grow() error {
	oldCap := len(l.cmds)
	newCap := InitialCapacity
	if oldCap > 0 {
		if oldCap > math.MaxInt/2 {
			return alloc.ErrOverflow
		}
		newCap = oldCap * 2
	}
	newSize, err := alloc.SizeOf[Command](newCap)
	if err != nil {
		return err
	}
	if err := l.alloc.Acquire(newSize); err != nil {
		return err
	}
	next := make([]Command, newCap)
	copy(next, l.cmds[:l.n])
	if oldCap > 0 {
		oldSize, _ := alloc.SizeOf[Command](oldCap)
		l.alloc.Release(oldSize)
		l.stats.Doublings++
	}
	l.cmds = next
	l.stats.Grows++
	return nil
}

// Reset releases every command payload and empties the list. The buffer
// is kept for reuse. Reset on an empty list is a no-op.
func (l *List) Reset() error {
	var errs []error
	for i := 0; i < l.n; i++ {
		if err := l.cmds[i].release(l.alloc); err != nil {
			errs = append(errs, err)
		}
		l.cmds[i] = nil
	}
	l.n = 0
	return errors.Join(errs...)
}

// Free resets the list and returns its buffer to the allocator.
func (l *List) Free() error {
	err := l.Reset()
	if len(l.cmds) > 0 {
		size, _ := alloc.SizeOf[Command](len(l.cmds))
		l.alloc.Release(size)
	}
	l.cmds = nil
	return err
}
