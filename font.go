package gfx

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/gfx/handle"
)

// FontDescription selects a font: family, pixel size and aspect.
// An empty Family selects the proportional Go font.
type FontDescription struct {
	Family string
	Size   float64
	Aspect font.Aspect
}

// String formats the description as "Family Weight Style Size".
func (d FontDescription) String() string {
	style := "Regular"
	if d.Aspect.Style == font.StyleItalic {
		style = "Italic"
	}
	return fmt.Sprintf("%s %g %s %gpx", d.Family, float32(d.Aspect.Weight), style, d.Size)
}

// Font is a compiled font description. It carries no drawing state:
// callers use it for metrics, text measurement and as input to DrawText.
type Font struct {
	handle.Header

	requested FontDescription
	resolved  FontDescription
	source    *text.FontSource
	faces     map[float64]text.Face
}

func newFont(desc FontDescription) (*Font, error) {
	if desc.Size <= 0 || math.IsNaN(desc.Size) || math.IsInf(desc.Size, 0) {
		return nil, fmt.Errorf("%w: font size %v", ErrRange, desc.Size)
	}
	desc.Aspect.SetDefaults()

	ttf := selectGoFont(desc)
	src, err := text.NewFontSource(ttf)
	if err != nil {
		return nil, classify(ErrUnknown, err)
	}
	parsed, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		_ = src.Close()
		return nil, classify(ErrUnknown, err)
	}
	d := parsed.Describe()

	f := &Font{
		requested: desc,
		resolved: FontDescription{
			Family: d.Family,
			Size:   desc.Size,
			Aspect: d.Aspect,
		},
		source: src,
		faces:  make(map[float64]text.Face),
	}
	f.Init(handle.TypeFont, f.destroy)
	if !strings.EqualFold(d.Family, desc.Family) && desc.Family != "" {
		Logger().Debug("gfx: font substituted", "requested", desc.Family, "resolved", d.Family)
	}
	return f, nil
}

// selectGoFont maps a description onto the Go font family.
func selectGoFont(d FontDescription) []byte {
	family := strings.ToLower(strings.TrimSpace(d.Family))
	mono := strings.Contains(family, "mono") || family == "courier" || family == "fixed"
	italic := d.Aspect.Style == font.StyleItalic
	bold := d.Aspect.Weight >= font.WeightSemibold
	medium := d.Aspect.Weight >= font.WeightMedium

	switch {
	case mono && bold && italic:
		return gomonobolditalic.TTF
	case mono && bold:
		return gomonobold.TTF
	case mono && italic:
		return gomonoitalic.TTF
	case mono:
		return gomono.TTF
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case medium && italic:
		return gomediumitalic.TTF
	case medium:
		return gomedium.TTF
	case italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

// Description returns the resolved description: the family and aspect
// read back from the compiled font, at the requested size.
func (f *Font) Description() FontDescription { return f.resolved }

// Requested returns the description the font was created from.
func (f *Font) Requested() FontDescription { return f.requested }

// Face returns a face at size pixels. Faces are cached per size.
func (f *Font) Face(size float64) (text.Face, error) {
	if f.source == nil {
		return nil, classify(ErrInvalidArgument, handle.ErrReleased)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: face size %v", ErrRange, size)
	}
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face := f.source.Face(size)
	f.faces[size] = face
	return face, nil
}

// Metrics returns the font metrics at the font's size.
func (f *Font) Metrics() (text.Metrics, error) {
	face, err := f.Face(f.resolved.Size)
	if err != nil {
		return text.Metrics{}, err
	}
	return face.Metrics(), nil
}

// Measure returns the advance width of s at the font's size.
func (f *Font) Measure(s string) (float64, error) {
	face, err := f.Face(f.resolved.Size)
	if err != nil {
		return 0, err
	}
	return face.Advance(norm.NFC.String(s)), nil
}

func (f *Font) destroy() error {
	f.faces = nil
	if f.source == nil {
		return nil
	}
	err := f.source.Close()
	f.source = nil
	return err
}
