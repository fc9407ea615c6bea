package mathutil

import "math"

// SphericalToCartesian places a point on a sphere of radius r.
// phi is the polar angle measured from +Y, theta the azimuth from +X towards +Z; both radians.
func SphericalToCartesian(r, phi, theta float64) Vec3 {
	s := math.Sin(phi)
	return Vec3{
		r * s * math.Cos(theta),
		r * math.Cos(phi),
		r * s * math.Sin(theta),
	}
}

// CartesianToSpherical is the inverse of SphericalToCartesian.
// theta is returned in (-π, π].
func CartesianToSpherical(v Vec3) (r, phi, theta float64) {
	r = v.Len()
	if r < 1e-12 {
		return 0, 0, 0
	}
	phi = math.Acos(Clamp(v[1]/r, -1, 1))
	theta = math.Atan2(v[2], v[0])
	return r, phi, theta
}

// EquirectUV maps a view direction to equirectangular texture coordinates.
// u wraps with azimuth (u=0 at +X), v runs from the zenith (0) to the nadir (1).
func EquirectUV(dir Vec3) (u, v float64) {
	_, phi, theta := CartesianToSpherical(dir)
	u = theta / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	v = phi / math.Pi
	return u, v
}
