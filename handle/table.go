package handle

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx/alloc"
)

// Errors returned by Table operations.
var (
	// ErrOutOfRange means the handle ID does not name a slot.
	ErrOutOfRange = errors.New("handle: id out of range")

	// ErrEmptySlot means the slot exists but holds no object.
	ErrEmptySlot = errors.New("handle: slot is empty")

	// ErrStaleHandle means the slot was reused since the handle was issued.
	ErrStaleHandle = errors.New("handle: generation mismatch")

	// ErrTableFull means the table reached its capacity.
	ErrTableFull = errors.New("handle: table is full")

	// ErrNilObject means a nil object was passed to Register.
	ErrNilObject = errors.New("handle: nil object")
)

// DefaultCapacity is the slot limit used when NewTable gets capacity <= 0.
const DefaultCapacity = 4096

// Handle is an opaque reference to an object in a Table.
// The zero Handle never resolves.
type Handle struct {
	ID         uint32
	Generation uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.ID == 0 && h.Generation == 0 }

// String formats the handle as id:generation.
func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.ID, h.Generation)
}

type slot struct {
	obj        Object
	generation uint32
}

// Table maps handles to objects. Slot IDs start at 1 so that the zero
// Handle is never valid. Generations start at 1 and are bumped on every
// Unregister.
//
// Table is not safe for concurrent use.
type Table struct {
	slots    []slot // slots[0] is unused
	free     []uint32
	capacity int
	live     int
	alloc    alloc.Allocator
}

// NewTable creates a table holding at most capacity objects.
func NewTable(capacity int, a alloc.Allocator) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if a == nil {
		a = alloc.Default()
	}
	return &Table{
		slots:    make([]slot, 1, 16),
		capacity: capacity,
		alloc:    a,
	}
}

// Register stores obj and returns its handle. Freed slots are reused
// before the arena grows; an occupied slot is never handed out.
func (t *Table) Register(obj Object) (Handle, error) {
	if obj == nil {
		return Handle{}, ErrNilObject
	}
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		s := &t.slots[id]
		s.obj = obj
		t.live++
		return Handle{ID: id, Generation: s.generation}, nil
	}
	if len(t.slots)-1 >= t.capacity {
		return Handle{}, ErrTableFull
	}
	size, err := alloc.SizeOf[slot](1)
	if err != nil {
		return Handle{}, err
	}
	if err := t.alloc.Acquire(size); err != nil {
		return Handle{}, err
	}
	id := uint32(len(t.slots)) // #nosec G115 -- bounded by capacity
	t.slots = append(t.slots, slot{obj: obj, generation: 1})
	t.live++
	return Handle{ID: id, Generation: 1}, nil
}

// Resolve returns the object behind h.
func (t *Table) Resolve(h Handle) (Object, error) {
	s, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.obj, nil
}

// Unregister empties the slot behind h and returns the object it held.
// The caller owns the reference the table was holding.
func (t *Table) Unregister(h Handle) (Object, error) {
	s, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	obj := s.obj
	s.obj = nil
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	t.free = append(t.free, h.ID)
	t.live--
	return obj, nil
}

// Len returns the number of registered objects.
func (t *Table) Len() int { return t.live }

// Cap returns the maximum number of objects.
func (t *Table) Cap() int { return t.capacity }

// Handles returns the handles of all registered objects in slot order.
func (t *Table) Handles() []Handle {
	out := make([]Handle, 0, t.live)
	for id := 1; id < len(t.slots); id++ {
		s := t.slots[id]
		if s.obj != nil {
			out = append(out, Handle{ID: uint32(id), Generation: s.generation}) // #nosec G115
		}
	}
	return out
}

// Close drops the arena and returns its accounted bytes.
func (t *Table) Close() {
	if size, err := alloc.SizeOf[slot](len(t.slots) - 1); err == nil {
		t.alloc.Release(size)
	}
	t.slots = t.slots[:1]
	t.free = nil
	t.live = 0
}

func (t *Table) lookup(h Handle) (*slot, error) {
	if h.ID == 0 || int(h.ID) >= len(t.slots) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, h)
	}
	s := &t.slots[h.ID]
	if s.obj == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySlot, h)
	}
	if s.generation != h.Generation {
		return nil, fmt.Errorf("%w: %s (current %d)", ErrStaleHandle, h, s.generation)
	}
	return s, nil
}
