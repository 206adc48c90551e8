// Package handle implements reference-counted object headers and the
// generation-checked handle table that backs every gfx resource.
//
// A Handle is an {ID, Generation} pair. The table is an arena of slots with
// a free list; unregistering a slot bumps its generation so that handles
// issued earlier stop resolving instead of aliasing the next occupant.
package handle

import (
	"errors"
	"fmt"
)

// TypeID identifies the concrete resource kind behind an Object.
type TypeID uint32

// Resource kinds known to gfx. Zero is reserved for "no type".
const (
	TypeNone TypeID = iota
	TypeWindow
	TypeTexture
	TypeFont
)

var typeNames = [...]string{
	TypeNone:    "None",
	TypeWindow:  "Window",
	TypeTexture: "Texture",
	TypeFont:    "Font",
}

// String returns the kind name.
func (t TypeID) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TypeID(%d)", uint32(t))
}

// ErrReleased is returned by Release on an object whose count already hit zero.
var ErrReleased = errors.New("handle: object already destroyed")

// Object is implemented by every resource stored in a Table.
type Object interface {
	// TypeID reports the resource kind.
	TypeID() TypeID

	// Retain adds a reference.
	Retain()

	// Release drops a reference. The last release destroys the object and
	// returns the destroy error, if any.
	Release() error

	// RefCount returns the current reference count.
	RefCount() int32
}

// Header is embedded in resources to provide the Object lifetime methods.
// The zero value is not usable; call Init.
type Header struct {
	typeID    TypeID
	refs      int32
	destroy   func() error
	destroyed bool
}

// Init sets the type and destroy hook and starts the count at one.
func (h *Header) Init(typeID TypeID, destroy func() error) {
	h.typeID = typeID
	h.refs = 1
	h.destroy = destroy
	h.destroyed = false
}

// TypeID implements Object.
func (h *Header) TypeID() TypeID { return h.typeID }

// RefCount implements Object.
func (h *Header) RefCount() int32 { return h.refs }

// Destroyed reports whether the destroy hook has run.
func (h *Header) Destroyed() bool { return h.destroyed }

// Retain implements Object. Retaining a destroyed object is a no-op.
func (h *Header) Retain() {
	if h.destroyed {
		return
	}
	h.refs++
}

// Release implements Object. Destroy runs exactly once, when the count
// drops to zero.
func (h *Header) Release() error {
	if h.destroyed || h.refs <= 0 {
		return ErrReleased
	}
	h.refs--
	if h.refs > 0 {
		return nil
	}
	h.destroyed = true
	if h.destroy == nil {
		return nil
	}
	return h.destroy()
}
