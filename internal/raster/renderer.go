package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
)

// ErrReleased is returned when drawing into a released context.
var ErrReleased = errors.New("raster: context released")

// Software is a CPU backend that ray-casts every pixel onto the panorama
// sphere and composites markers on top.
type Software struct {
	// MaxPixels caps the surface area; zero means unlimited.
	MaxPixels int
}

func (s Software) Name() string { return "software" }

// Probe always succeeds: the software path has no device requirements.
func (s Software) Probe() error { return nil }

// NewContext allocates a surface of the given size.
func (s Software) NewContext(width, height int) (render.Context, error) {
	if err := s.checkSize(width, height); err != nil {
		return nil, err
	}
	return &Context{
		limits: s,
		pool:   render.NewPool(),
		fb:     NewFrameBuffer(width, height),
	}, nil
}

func (s Software) checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("raster: invalid surface %dx%d: %w", width, height, render.ErrUnsupported)
	}
	if s.MaxPixels > 0 && width*height > s.MaxPixels {
		return fmt.Errorf("raster: surface %dx%d exceeds %d pixels: %w", width, height, s.MaxPixels, render.ErrUnsupported)
	}
	return nil
}

// Context is a software rendering surface.
type Context struct {
	mu       sync.Mutex
	limits   Software
	pool     *render.Pool
	fb       *FrameBuffer
	released bool
}

func (c *Context) Pool() *render.Pool { return c.pool }

// Resize replaces the framebuffer. The previous picture is discarded.
func (c *Context) Resize(width, height int) error {
	if err := c.limits.checkSize(width, height); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	if c.fb.Width != width || c.fb.Height != height {
		c.fb = NewFrameBuffer(width, height)
	}
	return nil
}

// Release drops the framebuffer. Resources in the pool stay owned by
// whoever allocated them.
func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	c.fb = nil
}

// Snapshot returns a copy of the last drawn frame, or nil after Release.
func (c *Context) Snapshot() *image.NRGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fb == nil {
		return nil
	}
	return c.fb.Image()
}

// Draw renders one frame.
func (c *Context) Draw(f *render.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	if f == nil || f.Camera == nil {
		return errors.New("raster: frame without camera")
	}
	w, h := f.Camera.Size()
	if w != c.fb.Width || h != c.fb.Height {
		if err := c.limits.checkSize(w, h); err != nil {
			return err
		}
		c.fb = NewFrameBuffer(w, h)
	}

	drawSphere(c.fb, f)
	c.fb.ClearDepth()
	for _, o := range f.Overlays {
		drawOverlay(c.fb, f.Camera, o)
	}
	return nil
}

func drawSphere(fb *FrameBuffer, f *render.Frame) {
	tint := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if f.Surface != nil {
		tint = f.Surface.Color
	}
	var tex *image.NRGBA
	if f.Panorama != nil && !f.Panorama.Disposed() {
		tex = f.Panorama.Image
	}

	for y := 0; y < fb.Height; y++ {
		row := y * fb.Width
		for x := 0; x < fb.Width; x++ {
			o := (row + x) * 4
			if tex == nil {
				fb.Color[o] = tint.R / 4
				fb.Color[o+1] = tint.G / 4
				fb.Color[o+2] = tint.B / 4
				fb.Color[o+3] = 255
				continue
			}
			ray := f.Camera.Ray(float64(x)+0.5, float64(y)+0.5)
			u, v := mathutil.EquirectUV(ray.Dir)
			r, g, b, _ := SampleEquirect(tex, u, v)
			fb.Color[o] = mul8(r, tint.R)
			fb.Color[o+1] = mul8(g, tint.G)
			fb.Color[o+2] = mul8(b, tint.B)
			fb.Color[o+3] = 255
		}
	}
}

func drawOverlay(fb *FrameBuffer, cam render.Camera, o render.Overlay) {
	if o.Geometry == nil || o.Material == nil || o.Geometry.Disposed() || o.Material.Disposed() {
		return
	}
	inner := 0.0
	if o.Geometry.Shape == render.ShapeRing {
		inner = o.Geometry.Inner
	}
	outer := o.Geometry.Radius

	x0, y0, x1, y1, ok := overlayBounds(fb, cam, o.Center, o.Normal, outer)
	if !ok {
		return
	}
	c := o.Material.Color
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			ray := cam.Ray(float64(x)+0.5, float64(y)+0.5)
			t, hit := ray.IntersectAnnulus(o.Center, o.Normal, inner, outer)
			if !hit {
				continue
			}
			i := y*fb.Width + x
			if t > fb.Depth[i]+1e-6 {
				continue
			}
			fb.Depth[i] = t
			fb.Blend(i, c.R, c.G, c.B, o.Material.Opacity)
		}
	}
}

// overlayBounds projects the rim of a disc and returns its clamped pixel box.
func overlayBounds(fb *FrameBuffer, cam render.Camera, center, normal mathutil.Vec3, radius float64) (x0, y0, x1, y1 int, ok bool) {
	if cam.Forward().Dot(center) <= 0 {
		return 0, 0, 0, 0, false
	}
	basis := mathutil.FacingBasis(normal)
	t, b := basis.Row(0), basis.Row(1)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	const steps = 8
	for k := 0; k < steps; k++ {
		a := 2 * math.Pi * float64(k) / steps
		// Rim sampled slightly outside the radius so the octagon covers the circle.
		p := center.Add(t.Scale(radius * 1.1 * math.Cos(a))).Add(b.Scale(radius * 1.1 * math.Sin(a)))
		px, py, _ := cam.Project(p)
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	x0 = int(math.Max(0, math.Floor(minX)))
	y0 = int(math.Max(0, math.Floor(minY)))
	x1 = int(math.Min(float64(fb.Width-1), math.Ceil(maxX)))
	y1 = int(math.Min(float64(fb.Height-1), math.Ceil(maxY)))
	return x0, y0, x1, y1, x0 <= x1 && y0 <= y1
}

func mul8(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}
