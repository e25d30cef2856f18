// Package compositor draws two images onto a surface according to a layout.Layout.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/menta2k/sidebyside/pkg/layout"
)

// Surface is a drawing target that one render at a time may resize and paint.
// Readers go through View or Snapshot, which wait for an in-flight render.
type Surface struct {
	mu  sync.Mutex
	img *image.NRGBA
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, 0, 0))}
}

// Bounds returns the current surface size
func (s *Surface) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img.Bounds()
}

// View calls fn with the surface pixels while holding the surface lock.
// fn must not retain img after returning.
func (s *Surface) View(fn func(img *image.NRGBA) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.img)
}

// Snapshot returns a copy of the surface pixels
func (s *Surface) Snapshot() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return imaging.Clone(s.img)
}

// Compositor renders layouts using a resampling filter
type Compositor struct {
	filter imaging.ResampleFilter
}

// New creates a Compositor using Lanczos resampling
func New() *Compositor {
	return &Compositor{filter: imaging.Lanczos}
}

// NewWithFilter creates a Compositor with a custom resampling filter
func NewWithFilter(filter imaging.ResampleFilter) *Compositor {
	return &Compositor{filter: filter}
}

var filters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

// ParseFilter returns the resampling filter with the given name
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	f, ok := filters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resampling filter: %s", name)
	}
	return f, nil
}

// Render resizes surface to the layout's canvas, fills it with bg, then draws
// a and b scaled into their placed rectangles, a first. Pixels falling outside
// the canvas are clipped.
func (c *Compositor) Render(surface *Surface, l layout.Layout, a, b image.Image, bg color.Color) {
	surface.mu.Lock()
	defer surface.mu.Unlock()

	if surface.img.Bounds() != l.Bounds() {
		surface.img = image.NewNRGBA(l.Bounds())
	}
	c.paint(surface.img, l, a, b, bg)
}

// Compose renders into a freshly allocated image
func (c *Compositor) Compose(l layout.Layout, a, b image.Image, bg color.Color) *image.NRGBA {
	dst := image.NewNRGBA(l.Bounds())
	c.paint(dst, l, a, b, bg)
	return dst
}

func (c *Compositor) paint(dst *image.NRGBA, l layout.Layout, a, b image.Image, bg color.Color) {
	if bg == nil {
		bg = color.Transparent
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	c.place(dst, a, l.A)
	c.place(dst, b, l.B)
}

// place scales img to p's render size and composites it over dst at p's offset
func (c *Compositor) place(dst *image.NRGBA, img image.Image, p layout.PlacedImage) {
	if img == nil || p.Width <= 0 || p.Height <= 0 {
		return
	}
	r := p.Rect()
	if !r.Overlaps(dst.Bounds()) {
		return
	}

	var src image.Image = img
	if size := layout.SizeOf(img); size != p.Size() {
		src = imaging.Resize(img, p.Width, p.Height, c.filter)
	}
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}
