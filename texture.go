package gfx

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfx/alloc"
	"github.com/gogpu/gfx/handle"
)

// TextureFormat is the pixel layout callers upload and read back.
// Color formats carry straight (non-premultiplied) alpha.
type TextureFormat uint8

const (
	// FormatRGBA8 is 8-bit R, G, B, A.
	FormatRGBA8 TextureFormat = iota + 1
	// FormatBGRA8 is 8-bit B, G, R, A.
	FormatBGRA8
	// FormatA8 is a single 8-bit alpha channel.
	FormatA8
)

var textureFormatNames = [...]string{
	FormatRGBA8: "RGBA8",
	FormatBGRA8: "BGRA8",
	FormatA8:    "A8",
}

// String returns the format name.
func (f TextureFormat) String() string {
	if f.valid() {
		return textureFormatNames[f]
	}
	return fmt.Sprintf("TextureFormat(%d)", uint8(f))
}

// BytesPerPixel returns the pixel size, or 0 for an unknown format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8, FormatBGRA8:
		return 4
	case FormatA8:
		return 1
	default:
		return 0
	}
}

// GPUFormat returns the matching GPU texture format.
func (f TextureFormat) GPUFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	case FormatA8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

func (f TextureFormat) valid() bool {
	return f >= FormatRGBA8 && f <= FormatA8
}

// Texture is a pixel buffer in the native layout: premultiplied RGBA for
// the color formats, one alpha byte per pixel for A8.
//
// The buffer is wrapped in an image view (*image.RGBA or *image.Alpha).
// Deferred replay draws from a premultiplied gg.ImageBuf projection that
// is built on first use and dropped whenever the pixels change.
type Texture struct {
	handle.Header

	width, height int
	format        TextureFormat
	stride        int
	pix           []byte
	view          image.Image
	alloc         alloc.Allocator

	native      *gg.ImageBuf
	nativeBytes int
}

// Ensure Texture satisfies the gpucontext texture contracts.
var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// MaxTextureDimension bounds texture width and height.
const MaxTextureDimension = 16384

// newTexture allocates the pixel buffer through a and converts pixels into
// it when non-nil. pixels must hold width*height tight rows.
func newTexture(a alloc.Allocator, width, height int, format TextureFormat, pixels []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: texture size %dx%d", ErrRange, width, height)
	}
	if !format.valid() {
		return nil, fmt.Errorf("%w: texture format %v", ErrInvalidArgument, format)
	}
	stride, err := alloc.Mul(width, format.BytesPerPixel())
	if err != nil {
		return nil, err
	}
	if stride <= 0 {
		return nil, fmt.Errorf("%w: texture stride %d", ErrRange, stride)
	}
	size, err := alloc.Mul(stride, height)
	if err != nil {
		return nil, err
	}
	if width > MaxTextureDimension || height > MaxTextureDimension {
		return nil, fmt.Errorf("%w: texture size %dx%d exceeds %d", ErrRange, width, height, MaxTextureDimension)
	}
	if pixels != nil && len(pixels) < size {
		return nil, fmt.Errorf("%w: %d pixel bytes, need %d", ErrInvalidArgument, len(pixels), size)
	}
	pix, err := alloc.Make[byte](a, size)
	if err != nil {
		return nil, err
	}

	t := &Texture{
		width:  width,
		height: height,
		format: format,
		stride: stride,
		pix:    pix,
		alloc:  a,
	}
	bounds := image.Rect(0, 0, width, height)
	if format == FormatA8 {
		t.view = &image.Alpha{Pix: pix, Stride: stride, Rect: bounds}
	} else {
		t.view = &image.RGBA{Pix: pix, Stride: stride, Rect: bounds}
	}
	if pixels != nil {
		for y := 0; y < height; y++ {
			storeRow(format, t.pix[y*stride:(y+1)*stride], pixels[y*stride:], width)
		}
	}
	t.Init(handle.TypeTexture, t.destroy)
	return t, nil
}

// Width implements gpucontext.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements gpucontext.Texture.
func (t *Texture) Height() int { return t.height }

// Format returns the upload format.
func (t *Texture) Format() TextureFormat { return t.format }

// Stride returns the native row size in bytes.
func (t *Texture) Stride() int { return t.stride }

// Image returns the native view over the pixel buffer. The view aliases
// the buffer and must not be written to.
func (t *Texture) Image() image.Image { return t.view }

// UpdateData implements gpucontext.TextureUpdater.
func (t *Texture) UpdateData(data []byte) error {
	return t.UpdateRegion(0, 0, t.width, t.height, data)
}

// UpdateRegion implements gpucontext.TextureRegionUpdater. data holds
// w*h tight rows in the texture's format.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	return t.update(image.Rect(x, y, x+w, y+h), data)
}

func (t *Texture) update(r image.Rectangle, data []byte) error {
	if t.Destroyed() {
		return classify(ErrInvalidArgument, handle.ErrReleased)
	}
	if err := t.checkRegion(r); err != nil {
		return err
	}
	row := r.Dx() * t.format.BytesPerPixel()
	if need := row * r.Dy(); len(data) < need {
		return fmt.Errorf("%w: %d pixel bytes, need %d", ErrInvalidArgument, len(data), need)
	}
	bpp := t.format.BytesPerPixel()
	for y := 0; y < r.Dy(); y++ {
		off := (r.Min.Y+y)*t.stride + r.Min.X*bpp
		storeRow(t.format, t.pix[off:off+row], data[y*row:], r.Dx())
	}
	t.invalidate()
	return nil
}

// Read returns the pixels of r as tight rows in the texture's format,
// un-premultiplied.
func (t *Texture) Read(r image.Rectangle) ([]byte, error) {
	if t.Destroyed() {
		return nil, classify(ErrInvalidArgument, handle.ErrReleased)
	}
	if err := t.checkRegion(r); err != nil {
		return nil, err
	}
	bpp := t.format.BytesPerPixel()
	row := r.Dx() * bpp
	out := make([]byte, row*r.Dy())
	for y := 0; y < r.Dy(); y++ {
		off := (r.Min.Y+y)*t.stride + r.Min.X*bpp
		loadRow(t.format, out[y*row:(y+1)*row], t.pix[off:off+row], r.Dx())
	}
	return out, nil
}

func (t *Texture) checkRegion(r image.Rectangle) error {
	if r.Dx() < 0 || r.Dy() < 0 {
		return fmt.Errorf("%w: region %v", ErrRange, r)
	}
	if r.Empty() || !r.In(image.Rect(0, 0, t.width, t.height)) {
		return fmt.Errorf("%w: region %v outside %dx%d texture", ErrRange, r, t.width, t.height)
	}
	return nil
}

// NativeImage returns the premultiplied projection used by replay,
// building it on first use. A8 textures project to black with alpha.
func (t *Texture) NativeImage() (*gg.ImageBuf, error) {
	if t.native != nil {
		return t.native, nil
	}
	if t.Destroyed() {
		return nil, classify(ErrInvalidArgument, handle.ErrReleased)
	}
	size, err := alloc.Mul(t.width*t.height, 4)
	if err != nil {
		return nil, err
	}
	if err := t.alloc.Acquire(size); err != nil {
		return nil, err
	}
	img, err := gg.NewImageBuf(t.width, t.height, gg.FormatRGBAPremul)
	if err != nil {
		t.alloc.Release(size)
		return nil, classify(ErrUnknown, err)
	}
	dst := img.Data()
	dstStride := img.Stride()
	for y := 0; y < t.height; y++ {
		drow := dst[y*dstStride : y*dstStride+t.width*4]
		srow := t.pix[y*t.stride : (y+1)*t.stride]
		if t.format == FormatA8 {
			for x, a := range srow {
				drow[x*4+3] = a
			}
		} else {
			copy(drow, srow)
		}
	}
	t.native = img
	t.nativeBytes = size
	return img, nil
}

// invalidate drops the cached projection.
func (t *Texture) invalidate() {
	if t.native == nil {
		return
	}
	t.alloc.Release(t.nativeBytes)
	t.native = nil
	t.nativeBytes = 0
}

// destroy releases the projection, the view and the pixel buffer, in that
// order.
func (t *Texture) destroy() error {
	t.invalidate()
	t.view = nil
	alloc.Free(t.alloc, t.pix)
	t.pix = nil
	return nil
}
