package gfx

import (
	"fmt"

	"github.com/gogpu/gfx/recording"
)

// PushClip intersects the clip with r until the matching PopClip.
// The stack holds at most MaxClipDepth entries.
func (b *Backend) PushClip(r Rect) error {
	if err := checkRect(r); err != nil {
		return fmt.Errorf("%w: clip %+v", err, r)
	}
	w, err := b.drawable()
	if err != nil {
		return err
	}
	if b.clipDepth >= MaxClipDepth {
		return fmt.Errorf("%w: clip stack full (%d)", ErrRange, MaxClipDepth)
	}
	if w.mode == ModeDeferred {
		err = b.record(w, recording.PushClipCommand{Rect: b.transform.TransformRect(r)})
	} else {
		err = native(w.sink.PushClip(r))
	}
	if err != nil {
		return err
	}
	b.clipDepth++
	return nil
}

// PopClip restores the clip saved by the matching PushClip.
func (b *Backend) PopClip() error {
	w, err := b.active()
	if err != nil {
		return err
	}
	if b.clipDepth == 0 {
		return fmt.Errorf("%w: clip stack empty", ErrState)
	}
	if w.mode == ModeDeferred {
		err = b.record(w, recording.PopClipCommand{})
	} else {
		err = native(w.sink.PopClip())
		// The surface restores the matrix it saved at push time.
		w.surface.SetTransform(b.transform.GG())
	}
	if err != nil {
		return err
	}
	b.clipDepth--
	return nil
}

// ClipDepth returns the number of clips currently pushed.
func (b *Backend) ClipDepth() int {
	return b.clipDepth
}
