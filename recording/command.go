package recording

import (
	"errors"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/gfx/alloc"
)

// CommandType identifies the variant of a Command.
type CommandType uint8

const (
	CmdClear    CommandType = iota // Fill the whole target
	CmdRect                        // Fill a (rounded) rectangle
	CmdLine                        // Stroke a line segment
	CmdPushClip                    // Intersect the clip with a rectangle
	CmdPopClip                     // Restore the previous clip
	CmdTexture                     // Blit a texture region
	CmdText                        // Draw a run of text
	CmdPath                        // Fill a path
)

var commandTypeNames = [...]string{
	CmdClear:    "Clear",
	CmdRect:     "Rect",
	CmdLine:     "Line",
	CmdPushClip: "PushClip",
	CmdPopClip:  "PopClip",
	CmdTexture:  "Texture",
	CmdText:     "Text",
	CmdPath:     "Path",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded draw operation. The set of implementations is
// closed: only the types in this file satisfy it.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	// release frees the payload owned by the command.
	release(a alloc.Allocator) error
}

// Resource is a reference-counted object a command keeps alive until the
// list is reset.
type Resource interface {
	Retain()
	Release() error
}

// ImageSource is a texture that can hand out its native projection.
type ImageSource interface {
	Resource

	// NativeImage returns the premultiplied image used for replay.
	NativeImage() (*gg.ImageBuf, error)
}

// FontSource is a compiled font that yields faces at a given pixel size.
type FontSource interface {
	Resource

	// Face returns a face at size pixels.
	Face(size float64) (text.Face, error)
}

// ClearCommand fills the whole target with a color.
type ClearCommand struct {
	Color gg.RGBA
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

func (ClearCommand) release(alloc.Allocator) error { return nil }

// RectCommand fills a rectangle, rounded when Radius > 0.
type RectCommand struct {
	Rect   Rect
	Color  gg.RGBA
	Radius float64
}

// Type implements Command.
func (RectCommand) Type() CommandType { return CmdRect }

func (RectCommand) release(alloc.Allocator) error { return nil }

// LineCommand strokes a segment.
type LineCommand struct {
	X0, Y0    float64
	X1, Y1    float64
	Color     gg.RGBA
	Thickness float64
}

// Type implements Command.
func (LineCommand) Type() CommandType { return CmdLine }

func (LineCommand) release(alloc.Allocator) error { return nil }

// PushClipCommand intersects the current clip with Rect.
type PushClipCommand struct {
	Rect Rect
}

// Type implements Command.
func (PushClipCommand) Type() CommandType { return CmdPushClip }

func (PushClipCommand) release(alloc.Allocator) error { return nil }

// PopClipCommand restores the clip saved by the matching PushClipCommand.
type PopClipCommand struct{}

// Type implements Command.
func (PopClipCommand) Type() CommandType { return CmdPopClip }

func (PopClipCommand) release(alloc.Allocator) error { return nil }

// TextureCommand draws the Src region of a texture into Dst.
// Src is in texture pixels; a zero Src means the whole texture.
type TextureCommand struct {
	Image ImageSource
	Src   Rect
	Dst   Rect
}

// NewTextureCommand returns a TextureCommand holding a reference to img.
func NewTextureCommand(img ImageSource, src, dst Rect) TextureCommand {
	img.Retain()
	return TextureCommand{Image: img, Src: src, Dst: dst}
}

// Type implements Command.
func (TextureCommand) Type() CommandType { return CmdTexture }

func (c TextureCommand) release(alloc.Allocator) error {
	if c.Image == nil {
		return nil
	}
	return c.Image.Release()
}

// TextCommand draws Text with its baseline origin at (X, Y).
// Text is an owned NFC copy of the caller's string.
type TextCommand struct {
	Text  string
	X, Y  float64
	Size  float64
	Font  FontSource
	Color gg.RGBA
}

// NewTextCommand copies s through a and takes a reference to font.
func NewTextCommand(a alloc.Allocator, s string, x, y, size float64, font FontSource, c gg.RGBA) (TextCommand, error) {
	if font == nil {
		return TextCommand{}, errors.New("recording: nil font")
	}
	owned := norm.NFC.String(s)
	if err := a.Acquire(len(owned)); err != nil {
		return TextCommand{}, err
	}
	font.Retain()
	return TextCommand{
		Text:  owned,
		X:     x,
		Y:     y,
		Size:  size,
		Font:  font,
		Color: c,
	}, nil
}

// Type implements Command.
func (TextCommand) Type() CommandType { return CmdText }

func (c TextCommand) release(a alloc.Allocator) error {
	a.Release(len(c.Text))
	if c.Font == nil {
		return nil
	}
	return c.Font.Release()
}

// PathCommand fills a path. Points are already in device space.
type PathCommand struct {
	Verbs  []Verb
	Points []Point
	Color  gg.RGBA
}

// NewPathCommand copies verbs and points through a, mapping every point
// with xf. A nil xf copies points unchanged.
func NewPathCommand(a alloc.Allocator, verbs []Verb, points []Point, c gg.RGBA, xf func(Point) Point) (PathCommand, error) {
	vs, err := alloc.Make[Verb](a, len(verbs))
	if err != nil {
		return PathCommand{}, err
	}
	ps, err := alloc.Make[Point](a, len(points))
	if err != nil {
		alloc.Free(a, vs)
		return PathCommand{}, err
	}
	copy(vs, verbs)
	for i, p := range points {
		if xf != nil {
			p = xf(p)
		}
		ps[i] = p
	}
	return PathCommand{Verbs: vs, Points: ps, Color: c}, nil
}

// Type implements Command.
func (PathCommand) Type() CommandType { return CmdPath }

func (c PathCommand) release(a alloc.Allocator) error {
	alloc.Free(a, c.Verbs)
	alloc.Free(a, c.Points)
	return nil
}

// Release frees the payload of a command that never made it into a List.
func Release(a alloc.Allocator, cmd Command) error {
	if cmd == nil {
		return nil
	}
	return cmd.release(a)
}
