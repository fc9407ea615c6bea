package panorama

import (
	"testing"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraCentreProjectsToScreenCentre(t *testing.T) {
	c := NewCamera(75, 800, 600)
	c.LookAt(Orientation{Lon: 30, Lat: 10}.Direction(500))

	x, y, ok := c.Project(Orientation{Lon: 30, Lat: 10}.Direction(480))
	require.True(t, ok)
	assert.InDelta(t, 400, x, 1e-6)
	assert.InDelta(t, 300, y, 1e-6)
}

func TestCameraRayThroughProjectedPoint(t *testing.T) {
	c := NewCamera(75, 640, 360)
	c.LookAt(Orientation{Lon: -20, Lat: 5}.Direction(500))

	p := Orientation{Lon: -5, Lat: 12}.Direction(480)
	x, y, ok := c.Project(p)
	require.True(t, ok)

	r := c.Ray(x, y)
	assert.InDelta(t, 1, r.Dir.Len(), 1e-12)
	want := p.Normalize()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], r.Dir[i], 1e-9)
	}
}

func TestCameraRightIsPositiveScreenX(t *testing.T) {
	c := NewCamera(75, 400, 400)
	// Looking down +X, +Z is to the right and +Y is up.
	x, y, ok := c.Project(mathutil.Vec3{10, 0, 1})
	require.True(t, ok)
	assert.Greater(t, x, 200.0)
	assert.InDelta(t, 200, y, 1e-9)

	_, y, ok = c.Project(mathutil.Vec3{10, 1, 0})
	require.True(t, ok)
	assert.Less(t, y, 200.0)
}

func TestCameraBehindIsNotVisible(t *testing.T) {
	c := NewCamera(75, 400, 400)
	_, _, ok := c.Project(mathutil.Vec3{-10, 0, 0})
	assert.False(t, ok)
}

func TestCameraResize(t *testing.T) {
	c := NewCamera(75, 800, 600)
	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-12)

	require.True(t, c.Resize(1920, 1080))
	assert.InDelta(t, 1920.0/1080.0, c.Aspect(), 1e-12)
	w, h := c.Size()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	p := c.Projection()
	// Undistorted: x scale divided by aspect equals y scale.
	assert.InDelta(t, p[5]/c.Aspect(), p[0], 1e-12)

	assert.False(t, c.Resize(0, 1080))
	assert.False(t, c.Resize(100, -1))
	w, _ = c.Size()
	assert.Equal(t, 1920, w)
}
