package panorama

import (
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
)

// Latitude limits keep the camera off the poles, where the look-at basis degenerates.
const (
	MinLat = -85.0
	MaxLat = 85.0
)

// Orientation is a look direction in degrees. Lon is unbounded and wraps
// through the trigonometry; Lat is kept within [MinLat, MaxLat].
type Orientation struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// ClampLat limits a latitude to [MinLat, MaxLat].
func ClampLat(lat float64) float64 {
	return mathutil.Clamp(lat, MinLat, MaxLat)
}

// Clamped returns o with its latitude clamped.
func (o Orientation) Clamped() Orientation {
	return Orientation{Lon: o.Lon, Lat: ClampLat(o.Lat)}
}

// Ease moves o a fraction k of the way towards target on both axes.
// At the fixed point (o == target) it returns o unchanged.
func (o Orientation) Ease(target Orientation, k float64) Orientation {
	return Orientation{
		Lon: o.Lon + (target.Lon-o.Lon)*k,
		Lat: o.Lat + (target.Lat-o.Lat)*k,
	}
}

// Direction converts the orientation to a point on a sphere of radius r,
// with latitude measured up from the horizon.
func (o Orientation) Direction(r float64) mathutil.Vec3 {
	phi := mathutil.Deg2Rad(90 - o.Lat)
	theta := mathutil.Deg2Rad(o.Lon)
	return mathutil.SphericalToCartesian(r, phi, theta)
}

// Near reports whether o and p differ by less than eps degrees on both axes.
func (o Orientation) Near(p Orientation, eps float64) bool {
	dLon := o.Lon - p.Lon
	dLat := o.Lat - p.Lat
	return dLon < eps && dLon > -eps && dLat < eps && dLat > -eps
}
