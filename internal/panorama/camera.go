package panorama

import (
	"math"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
)

// Camera is a pinhole camera sitting at the centre of the panorama sphere.
// Screen coordinates are continuous pixels: (0,0) top-left, (Width,Height) bottom-right.
type Camera struct {
	FOV  float64 // vertical, degrees
	Near float64
	Far  float64

	width      int
	height     int
	aspect     float64
	tanHalf    float64
	projection mathutil.Mat4
	view       mathutil.Mat4

	forward mathutil.Vec3
	right   mathutil.Vec3
	up      mathutil.Vec3
}

// NewCamera builds a camera looking down +X.
func NewCamera(fov float64, width, height int) *Camera {
	c := &Camera{FOV: fov, Near: 1, Far: 1100, width: 1, height: 1, aspect: 1}
	c.Resize(width, height)
	c.LookAt(mathutil.Vec3{1, 0, 0})
	return c
}

// Resize recomputes the aspect ratio and projection for a new surface size.
// Non-positive sizes are ignored and false is returned.
func (c *Camera) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.width, c.height = width, height
	c.aspect = float64(width) / float64(height)
	c.tanHalf = math.Tan(mathutil.Deg2Rad(c.FOV) / 2)
	c.projection = mathutil.Perspective(mathutil.Deg2Rad(c.FOV), c.aspect, c.Near, c.Far)
	return true
}

// LookAt aims the camera from the origin towards target.
func (c *Camera) LookAt(target mathutil.Vec3) {
	fwd := target.Normalize()
	if fwd.LenSq() == 0 {
		return
	}
	basis := mathutil.FacingBasis(fwd)
	// FacingBasis gives a tangent of Up×fwd, which points left of the view.
	c.forward = fwd
	c.right = basis.Row(0).Neg()
	c.up = c.right.Cross(fwd)
	c.view = mathutil.LookAt(mathutil.Vec3{}, fwd, c.up)
}

func (c *Camera) Size() (int, int)              { return c.width, c.height }
func (c *Camera) Aspect() float64               { return c.aspect }
func (c *Camera) Projection() mathutil.Mat4     { return c.projection }
func (c *Camera) View() mathutil.Mat4           { return c.view }
func (c *Camera) Forward() mathutil.Vec3        { return c.forward }
func (c *Camera) ViewProjection() mathutil.Mat4 { return mathutil.Mat4Mul(c.projection, c.view) }

// Project maps a world point to screen pixels. ok is false for points behind
// the camera or outside the viewport.
func (c *Camera) Project(p mathutil.Vec3) (x, y float64, ok bool) {
	clip, w := c.ViewProjection().MulHomogeneous(p)
	if w <= 1e-9 {
		return 0, 0, false
	}
	nx, ny := clip[0]/w, clip[1]/w
	x = (nx + 1) / 2 * float64(c.width)
	y = (1 - ny) / 2 * float64(c.height)
	ok = nx >= -1 && nx <= 1 && ny >= -1 && ny <= 1
	return x, y, ok
}

// Ray casts from the camera through screen point (x, y).
func (c *Camera) Ray(x, y float64) mathutil.Ray {
	nx := 2*x/float64(c.width) - 1
	ny := 1 - 2*y/float64(c.height)
	dir := c.forward.
		Add(c.right.Scale(nx * c.tanHalf * c.aspect)).
		Add(c.up.Scale(ny * c.tanHalf))
	return mathutil.Ray{Dir: dir.Normalize()}
}
