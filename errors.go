package gfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx/alloc"
	"github.com/gogpu/gfx/handle"
)

// Error classes. Every error returned by a Backend method matches exactly
// one of these with errors.Is; finer causes from sub-packages are joined to
// the class and stay matchable too.
var (
	// ErrInvalidArgument covers nil or malformed inputs, unknown formats,
	// and handles that do not resolve to a live object of the right type.
	ErrInvalidArgument = errors.New("gfx: invalid argument")

	// ErrRange covers negative or overflowing sizes, clip stack overflow
	// and handle table exhaustion.
	ErrRange = errors.New("gfx: out of range")

	// ErrState covers frame lifecycle violations.
	ErrState = errors.New("gfx: invalid state")

	// ErrUnsupported is returned for transforms or primitives the active
	// drawing mode cannot represent.
	ErrUnsupported = errors.New("gfx: unsupported")

	// ErrOutOfMemory is returned when the allocator refuses a request.
	ErrOutOfMemory = alloc.ErrOutOfMemory

	// ErrOverflow is returned when a size computation overflows.
	ErrOverflow = alloc.ErrOverflow

	// ErrUnknown wraps native failures with no finer classification.
	ErrUnknown = errors.New("gfx: native failure")

	// ErrClosed is returned by every operation on a closed Backend.
	ErrClosed = fmt.Errorf("%w: backend closed", ErrState)
)

// Status is the numeric result code for callers that want a flat
// contract instead of error values.
type Status int

// Status codes, one per error class.
const (
	StatusOK Status = iota
	StatusInvalidArgument
	StatusRange
	StatusState
	StatusUnsupported
	StatusOutOfMemory
	StatusOverflow
	StatusUnknown
)

var statusNames = [...]string{
	StatusOK:              "OK",
	StatusInvalidArgument: "InvalidArgument",
	StatusRange:           "Range",
	StatusState:           "State",
	StatusUnsupported:     "Unsupported",
	StatusOutOfMemory:     "OutOfMemory",
	StatusOverflow:        "Overflow",
	StatusUnknown:         "Unknown",
}

// String returns the status name.
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// StatusOf maps err to its Status. Errors that match no class are
// reported as StatusUnknown.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrRange):
		return StatusRange
	case errors.Is(err, ErrState):
		return StatusState
	case errors.Is(err, ErrUnsupported):
		return StatusUnsupported
	case errors.Is(err, ErrOutOfMemory):
		return StatusOutOfMemory
	case errors.Is(err, ErrOverflow):
		return StatusOverflow
	default:
		return StatusUnknown
	}
}

// classify joins err to class unless err already belongs to a class.
func classify(class, err error) error {
	if err == nil {
		return nil
	}
	if StatusOf(err) != StatusUnknown || errors.Is(err, ErrUnknown) {
		return err
	}
	return fmt.Errorf("%w: %w", class, err)
}

// handleError classifies a handle table error.
func handleError(err error) error {
	if errors.Is(err, handle.ErrTableFull) {
		return classify(ErrRange, err)
	}
	return classify(ErrInvalidArgument, err)
}
