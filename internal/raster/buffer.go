package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	Depth  []float64 // nearest overlay ray parameter per pixel, initialized to +inf
}

// NewFrameBuffer allocates a zeroed color buffer and +inf depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		Depth:  make([]float64, w*h),
	}
	fb.ClearDepth()
	return fb
}

// ClearDepth resets every depth sample to +inf.
func (fb *FrameBuffer) ClearDepth() {
	for i := range fb.Depth {
		fb.Depth[i] = math.Inf(1)
	}
}

// Blend composites an opaque colour over pixel i with the given opacity.
func (fb *FrameBuffer) Blend(i int, r, g, b uint8, opacity float64) {
	o := i * 4
	inv := 1 - opacity
	fb.Color[o] = uint8(float64(r)*opacity + float64(fb.Color[o])*inv + 0.5)
	fb.Color[o+1] = uint8(float64(g)*opacity + float64(fb.Color[o+1])*inv + 0.5)
	fb.Color[o+2] = uint8(float64(b)*opacity + float64(fb.Color[o+2])*inv + 0.5)
	fb.Color[o+3] = 255
}

// Image copies the colour buffer into a new NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
