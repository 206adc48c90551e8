// Command gfxdemo draws a YAML scene through the gfx backend in immediate
// and deferred mode and writes one PNG per mode.
package main

import (
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/go-text/typesetting/font"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/headless"
)

//go:embed scene.yaml
var defaultScene []byte

func main() {
	var (
		scenePath  = flag.String("scene", "", "scene file (YAML); built-in scene if empty")
		configPath = flag.String("config", "", "backend config file (YAML)")
		output     = flag.String("output", "gfxdemo", "output file prefix")
		modes      = flag.String("modes", "immediate,deferred", "comma-separated drawing modes")
		scale      = flag.Float64("scale", 1, "device scale factor")
		verbose    = flag.Bool("v", false, "log backend activity")
	)
	flag.Parse()

	if *verbose {
		gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	scene, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	for _, name := range strings.Split(*modes, ",") {
		mode, err := gfx.ParseMode(name)
		if err != nil {
			log.Fatalf("Bad mode: %v", err)
		}
		path := fmt.Sprintf("%s-%s.png", *output, mode)
		if err := render(scene, cfg, mode, *scale, path); err != nil {
			log.Fatalf("Failed to render %s: %v (%s)", mode, err, gfx.StatusOf(err))
		}
		log.Printf("Demo saved to %s (%dx%d, %s)\n", path, scene.Width, scene.Height, mode)
	}
}

func loadScene(path string) (*Scene, error) {
	data := defaultScene
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return ParseScene(bytes.NewReader(data))
}

func loadConfig(path string) (gfx.Config, error) {
	if path == "" {
		return gfx.Config{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return gfx.Config{}, err
	}
	defer func() { _ = f.Close() }()
	return gfx.LoadConfig(f)
}

// render draws one frame of scene in mode and writes what the window shows.
func render(scene *Scene, cfg gfx.Config, mode gfx.Mode, scale float64, path string) error {
	host := headless.New(headless.WithScaleFactor(scale))
	defer func() { _ = host.Close() }()

	opts := append(cfg.Options(), gfx.WithMode(mode), gfx.WithHost(gfx.HeadlessHost(host)))
	b, err := gfx.New(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	win, err := b.CreateWindow("gfxdemo", scene.Width, scene.Height)
	if err != nil {
		return err
	}
	if err := b.BeginFrame(win, scene.Width, scene.Height, 0); err != nil {
		return err
	}
	if err := scene.Draw(b); err != nil {
		_ = b.EndFrame(win)
		return err
	}
	if err := b.EndFrame(win); err != nil {
		return err
	}
	if err := host.Dispatch(); err != nil {
		return err
	}

	w, err := b.Window(win)
	if err != nil {
		return err
	}
	native, ok := w.Native().(*headless.Window)
	if !ok {
		return fmt.Errorf("unexpected native window %T", w.Native())
	}
	img := native.Snapshot()
	if img == nil {
		return fmt.Errorf("window %s has no frame", win)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// FontSpec selects the scene font.
type FontSpec struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Bold   bool    `yaml:"bold"`
	Italic bool    `yaml:"italic"`
}

// Description converts f to a backend font description.
func (f FontSpec) Description() gfx.FontDescription {
	d := gfx.FontDescription{Family: f.Family, Size: f.Size}
	if d.Size <= 0 {
		d.Size = 14
	}
	if f.Bold {
		d.Aspect.Weight = font.WeightBold
	}
	if f.Italic {
		d.Aspect.Style = font.StyleItalic
	}
	return d
}

// Scene is a tree of draw items.
type Scene struct {
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Background string   `yaml:"background"`
	Font       FontSpec `yaml:"font"`
	Items      []Item   `yaml:"items"`
}

// Item is one primitive, or a group when Items is set. A group applies
// Translate, then Scale, then Clip (in group space) to its children.
type Item struct {
	Rect      []float64 `yaml:"rect,omitempty"`
	Line      []float64 `yaml:"line,omitempty"`
	Circle    []float64 `yaml:"circle,omitempty"`
	Checker   []float64 `yaml:"checker,omitempty"`
	Text      string    `yaml:"text,omitempty"`
	At        []float64 `yaml:"at,omitempty"`
	Color     string    `yaml:"color,omitempty"`
	Radius    float64   `yaml:"radius,omitempty"`
	Thickness float64   `yaml:"thickness,omitempty"`

	Translate []float64 `yaml:"translate,omitempty"`
	Scale     []float64 `yaml:"scale,omitempty"`
	Clip      []float64 `yaml:"clip,omitempty"`
	Items     []Item    `yaml:"items,omitempty"`
}

// ParseScene decodes a scene and checks its size.
func ParseScene(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scene size %dx%d", s.Width, s.Height)
	}
	return &s, nil
}

// drawer carries the resources shared by all items of a scene.
type drawer struct {
	g    *gfx.Backend
	font gfx.Handle
}

// Draw renders the scene into the active frame of g.
func (s *Scene) Draw(g *gfx.Backend) error {
	font, err := g.CreateFont(s.Font.Description())
	if err != nil {
		return err
	}
	defer func() { _ = g.DestroyFont(font) }()

	if s.Background != "" {
		if err := g.Clear(gfx.Hex(s.Background)); err != nil {
			return err
		}
	}
	d := &drawer{g: g, font: font}
	return d.items(s.Items)
}

func (d *drawer) items(items []Item) error {
	for i := range items {
		if err := d.item(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (d *drawer) item(it *Item) error {
	if it.Translate != nil || it.Scale != nil || it.Clip != nil || it.Items != nil {
		return d.group(it)
	}
	c := gfx.Hex(it.Color)
	switch {
	case len(it.Rect) == 4:
		return d.g.DrawRect(rect(it.Rect), c, it.Radius)
	case len(it.Line) == 4:
		thickness := it.Thickness
		if thickness == 0 {
			thickness = 1
		}
		return d.g.DrawLine(it.Line[0], it.Line[1], it.Line[2], it.Line[3], c, thickness)
	case len(it.Circle) == 3:
		p := gfx.NewPath()
		p.Circle(it.Circle[0], it.Circle[1], it.Circle[2])
		return d.g.DrawPath(p, c)
	case len(it.Checker) == 4:
		return d.checker(rect(it.Checker), c)
	case it.Text != "" && len(it.At) == 2:
		return d.g.DrawText(d.font, it.Text, it.At[0], it.At[1], c)
	default:
		return fmt.Errorf("%w: item has no drawable shape", gfx.ErrInvalidArgument)
	}
}

func (d *drawer) group(it *Item) error {
	saved := d.g.Transform()
	local := gfx.Identity()
	if len(it.Translate) == 2 {
		local = local.Multiply(gfx.Translate(it.Translate[0], it.Translate[1]))
	}
	if len(it.Scale) == 2 {
		local = local.Multiply(gfx.Scale(it.Scale[0], it.Scale[1]))
	}
	if err := d.g.SetTransform(saved.Multiply(local)); err != nil {
		return err
	}
	defer func() { _ = d.g.SetTransform(saved) }()

	if len(it.Clip) == 4 {
		if err := d.g.PushClip(rect(it.Clip)); err != nil {
			return err
		}
		defer func() { _ = d.g.PopClip() }()
	}
	return d.items(it.Items)
}

// checker uploads an 8x8 BGRA checkerboard of c and white and draws it
// into dst.
func (d *drawer) checker(dst gfx.Rect, c gfx.Color) error {
	const n = 8
	r, g, b, a := to8(c.R), to8(c.G), to8(c.B), to8(c.A)
	pix := make([]byte, 0, n*n*4)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 == 0 {
				pix = append(pix, b, g, r, a)
			} else {
				pix = append(pix, 255, 255, 255, 255)
			}
		}
	}
	tex, err := d.g.CreateTexture(n, n, gfx.FormatBGRA8, pix)
	if err != nil {
		return err
	}
	defer func() { _ = d.g.DestroyTexture(tex) }()
	return d.g.DrawTexture(tex, gfx.Rect{}, dst)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func rect(v []float64) gfx.Rect {
	return gfx.NewRect(v[0], v[1], v[2], v[3])
}
