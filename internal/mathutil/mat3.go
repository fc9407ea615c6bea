package mathutil

import "math"

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// Value type for zero heap allocation.
type Mat3 [9]float64

// Mat3Rows builds a matrix whose rows are a, b and c.
func Mat3Rows(a, b, c Vec3) Mat3 {
	return Mat3{a[0], a[1], a[2], b[0], b[1], b[2], c[0], c[1], c[2]}
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Row returns row i as a vector.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// FacingBasis returns an orthonormal basis whose rows are (tangent, bitangent, normal).
// The normal row points along dir; tangent stays horizontal unless dir is vertical.
func FacingBasis(dir Vec3) Mat3 {
	n := dir.Normalize()
	ref := Up
	if math.Abs(n.Dot(ref)) > 0.999 {
		ref = Vec3{0, 0, 1}
	}
	t := ref.Cross(n).Normalize()
	b := n.Cross(t)
	return Mat3Rows(t, b, n)
}
