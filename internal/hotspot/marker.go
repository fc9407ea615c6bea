package hotspot

import (
	"image/color"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
)

// State is the visual state of a marker.
type State int

const (
	Idle State = iota
	Hovered
	Selected
)

func (s State) String() string {
	switch s {
	case Hovered:
		return "hovered"
	case Selected:
		return "selected"
	}
	return "idle"
}

// Marker sizes in world units at the default marker radius.
const (
	OuterRingInner = 14.0
	OuterRingOuter = 20.0
	InnerRingInner = 8.0
	InnerRingOuter = 11.0
	DotRadius      = 5.0
	ringSegments   = 32
)

// PickTolerance widens the clickable disc beyond the outer ring.
const PickTolerance = 4.0

// Marker palette.
var (
	ColorNavigation = color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff}
	ColorInfo       = color.NRGBA{R: 0xf5, G: 0xb0, B: 0x2e, A: 0xff}
	ColorMedia      = color.NRGBA{R: 0xa8, G: 0x55, B: 0xf7, A: 0xff}
	ColorDot        = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// opacity per part: [idle, active]
var partOpacity = [3][2]float64{
	{0.6, 0.9}, // outer ring
	{0.8, 1.0}, // inner ring
	{1.0, 1.0}, // dot
}

type part struct {
	geometry *render.Geometry
	material *render.Material
}

// Marker is the placed, drawable form of a hotspot.
type Marker struct {
	Hotspot  scene.Hotspot
	Position mathutil.Vec3
	// Normal points from the marker to the sphere centre, so the marker
	// reads correctly from the camera regardless of view angle.
	Normal mathutil.Vec3
	State  State

	parts [3]part
}

// Place returns the world position of a hotspot on a sphere of radius r.
func Place(pos scene.Position, r float64) mathutil.Vec3 {
	return mathutil.SphericalToCartesian(r, mathutil.Deg2Rad(pos.Phi), mathutil.Deg2Rad(pos.Theta))
}

// KindColor returns the ring colour for a hotspot kind.
func KindColor(k scene.Kind) color.NRGBA {
	switch k {
	case scene.KindNavigation:
		return ColorNavigation
	case scene.KindMedia:
		return ColorMedia
	}
	return ColorInfo
}

func newMarker(pool *render.Pool, h scene.Hotspot, radius float64) *Marker {
	pos := Place(h.Position, radius)
	m := &Marker{
		Hotspot:  h,
		Position: pos,
		Normal:   pos.Neg().Normalize(),
	}
	c := KindColor(h.Kind)
	m.parts[0] = part{pool.NewRing(OuterRingInner, OuterRingOuter, ringSegments), pool.NewMaterial(c, partOpacity[0][0])}
	m.parts[1] = part{pool.NewRing(InnerRingInner, InnerRingOuter, ringSegments), pool.NewMaterial(c, partOpacity[1][0])}
	m.parts[2] = part{pool.NewCircle(DotRadius, ringSegments), pool.NewMaterial(ColorDot, partOpacity[2][0])}
	return m
}

func (m *Marker) setState(s State) {
	m.State = s
	active := 0
	if s != Idle {
		active = 1
	}
	for i := range m.parts {
		m.parts[i].material.Opacity = partOpacity[i][active]
	}
}

// Opacity returns the current opacity of the outer ring, inner ring and dot.
func (m *Marker) Opacity() [3]float64 {
	return [3]float64{m.parts[0].material.Opacity, m.parts[1].material.Opacity, m.parts[2].material.Opacity}
}

func (m *Marker) hit(ray mathutil.Ray) (float64, bool) {
	return ray.IntersectAnnulus(m.Position, m.Normal, 0, OuterRingOuter+PickTolerance)
}

func (m *Marker) overlays(dst []render.Overlay) []render.Overlay {
	for _, p := range m.parts {
		dst = append(dst, render.Overlay{Center: m.Position, Normal: m.Normal, Geometry: p.geometry, Material: p.material})
	}
	return dst
}

func (m *Marker) dispose() {
	for _, p := range m.parts {
		p.geometry.Dispose()
		p.material.Dispose()
	}
}
