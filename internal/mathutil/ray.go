package mathutil

import "math"

// Ray is a half-line from Origin along the unit vector Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectPlane returns the ray parameter where it crosses the plane through
// point with the given normal. Parallel planes and hits behind the origin miss.
func (r Ray) IntersectPlane(point, normal Vec3) (float64, bool) {
	denom := normal.Dot(r.Dir)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// IntersectAnnulus tests the ray against a flat ring centred on center.
// inner == 0 makes it a solid disc. Returns the ray parameter of the hit.
func (r Ray) IntersectAnnulus(center, normal Vec3, inner, outer float64) (float64, bool) {
	t, ok := r.IntersectPlane(center, normal)
	if !ok {
		return 0, false
	}
	d := r.At(t).Sub(center).LenSq()
	if d > outer*outer || d < inner*inner {
		return 0, false
	}
	return t, true
}
