package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
)

// ErrUnsupported marks a backend that cannot provide a rendering context
// in the current environment.
var ErrUnsupported = errors.New("render: backend unsupported")

// Backend creates rendering contexts.
type Backend interface {
	Name() string
	// Probe is the capability check run before any context is created.
	Probe() error
	NewContext(width, height int) (Context, error)
}

// Context is one output surface plus the resources allocated for it.
type Context interface {
	Pool() *Pool
	Resize(width, height int) error
	Draw(f *Frame) error
	// Snapshot returns a copy of the last drawn picture.
	Snapshot() *image.NRGBA
	// Release frees the surface. Safe to call more than once.
	Release()
}

// Camera is what a backend needs from the viewer's camera.
type Camera interface {
	Size() (int, int)
	Forward() mathutil.Vec3
	Ray(x, y float64) mathutil.Ray
	Project(p mathutil.Vec3) (x, y float64, ok bool)
}

// Overlay is a flat marker part placed in the scene.
type Overlay struct {
	Center   mathutil.Vec3
	Normal   mathutil.Vec3
	Geometry *Geometry
	Material *Material
}

// Frame describes everything drawn in one tick.
type Frame struct {
	Camera   Camera
	Sphere   *Geometry
	Surface  *Material
	Panorama *Texture // nil until the first image arrives
	Overlays []Overlay
}

// Unavailable is a backend that always fails its capability check.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Name() string { return "unavailable" }

func (u Unavailable) Probe() error {
	if u.Reason == "" {
		return ErrUnsupported
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, u.Reason)
}

func (u Unavailable) NewContext(width, height int) (Context, error) {
	return nil, u.Probe()
}
