package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsampleKeepsSolidColour(t *testing.T) {
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	out := Downsample(solid(64, 32, c), 16, 8)
	assert.Equal(t, image.Rect(0, 0, 16, 8), out.Bounds())
	got := out.NRGBAAt(8, 4)
	assert.InDelta(t, c.R, got.R, 1)
	assert.InDelta(t, c.G, got.G, 1)
	assert.InDelta(t, c.B, got.B, 1)
	assert.Equal(t, c.A, got.A)
}

func TestDownsampleNoopWhenSmall(t *testing.T) {
	in := solid(8, 8, color.NRGBA{A: 255})
	assert.Same(t, in, Downsample(in, 16, 16))
	assert.Same(t, in, Downsample(in, 0, 4))
}

func TestFitWidthKeepsAspect(t *testing.T) {
	out := FitWidth(solid(400, 200, color.NRGBA{G: 255, A: 255}), 100)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())

	in := solid(50, 25, color.NRGBA{A: 255})
	assert.Same(t, in, FitWidth(in, 100))
	assert.Same(t, in, FitWidth(in, 0))
}
