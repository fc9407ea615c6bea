package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	for _, tc := range []struct{ phi, theta float64 }{
		{math.Pi / 2, 0},
		{0.3, 1.2},
		{2.5, -2.9},
	} {
		v := SphericalToCartesian(500, tc.phi, tc.theta)
		assert.InDelta(t, 500, v.Len(), 1e-9)
		r, phi, theta := CartesianToSpherical(v)
		assert.InDelta(t, 500, r, 1e-9)
		assert.InDelta(t, tc.phi, phi, 1e-9)
		assert.InDelta(t, tc.theta, theta, 1e-9)
	}
}

func TestSphericalAxes(t *testing.T) {
	assertVec(t, Vec3{1, 0, 0}, SphericalToCartesian(1, math.Pi/2, 0))
	assertVec(t, Vec3{0, 1, 0}, SphericalToCartesian(1, 0, 0))
	assertVec(t, Vec3{0, 0, 1}, SphericalToCartesian(1, math.Pi/2, math.Pi/2))
}

func TestEquirectUV(t *testing.T) {
	u, v := EquirectUV(Vec3{1, 0, 0})
	assert.InDelta(t, 0, u, 1e-9)
	assert.InDelta(t, 0.5, v, 1e-9)

	u, _ = EquirectUV(Vec3{0, 0, -1})
	assert.InDelta(t, 0.75, u, 1e-9)

	_, v = EquirectUV(Vec3{0, 1, 0})
	assert.InDelta(t, 0, v, 1e-9)
}

func TestIntersectAnnulus(t *testing.T) {
	ray := Ray{Dir: Vec3{1, 0, 0}}
	center := Vec3{10, 0, 0}
	normal := Vec3{-1, 0, 0}

	tt, ok := ray.IntersectAnnulus(center, normal, 0, 2)
	assert.True(t, ok)
	assert.InDelta(t, 10, tt, 1e-9)

	// The centre falls in the hole of a ring.
	_, ok = ray.IntersectAnnulus(center, normal, 1, 2)
	assert.False(t, ok)

	off := Ray{Origin: Vec3{0, 1.5, 0}, Dir: Vec3{1, 0, 0}}
	_, ok = off.IntersectAnnulus(center, normal, 1, 2)
	assert.True(t, ok)

	back := Ray{Dir: Vec3{-1, 0, 0}}
	_, ok = back.IntersectAnnulus(center, normal, 0, 2)
	assert.False(t, ok)
}

func TestLookAtMapsTargetToNegativeZ(t *testing.T) {
	view := LookAt(Vec3{}, Vec3{1, 0, 0}, Up)
	assertVec(t, Vec3{0, 0, -5}, view.MulPoint(Vec3{5, 0, 0}))
	assertVec(t, Vec3{0, 2, 0}, view.MulPoint(Vec3{0, 2, 0}))
	assertVec(t, Vec3{3, 0, 0}, view.MulPoint(Vec3{0, 0, 3}))
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(Deg2Rad(75), 1, 1, 100)
	near, w := p.MulHomogeneous(Vec3{0, 0, -1})
	assert.InDelta(t, -1, near[2]/w, 1e-9)
	far, w := p.MulHomogeneous(Vec3{0, 0, -100})
	assert.InDelta(t, 1, far[2]/w, 1e-9)
}

func TestFacingBasisIsOrthonormal(t *testing.T) {
	for _, dir := range []Vec3{{1, 0, 0}, {0.2, -0.9, 0.1}, {0, 1, 0}} {
		b := FacingBasis(dir)
		n := dir.Normalize()
		assertVec(t, n, b.Row(2))
		assert.InDelta(t, 0, b.Row(0).Dot(b.Row(1)), 1e-9)
		assert.InDelta(t, 0, b.Row(0).Dot(n), 1e-9)
		assert.InDelta(t, 1, b.Row(0).Len(), 1e-9)
	}
}

func TestAngleHelpers(t *testing.T) {
	assert.InDelta(t, math.Pi, Deg2Rad(180), 1e-12)
	assert.Equal(t, 2.0, Clamp(5, -2, 2))
	assert.Equal(t, -2.0, Clamp(-5, -2, 2))
}
