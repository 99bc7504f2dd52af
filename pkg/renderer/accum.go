package renderer

import (
	"image"
	"image/color"

	"github.com/simpala/grinder-trace/pkg/vecmath"
)

// accumBuffer is a floating-point W×H×4 image. Each pixel stores the
// component-wise sum of per-sample Vec4 contributions across a frame, per
// spec.md §3.
type accumBuffer struct {
	width, height int
	sum           []vecmath.Vec4
}

func newAccumBuffer(width, height int) *accumBuffer {
	return &accumBuffer{
		width:  width,
		height: height,
		sum:    make([]vecmath.Vec4, width*height),
	}
}

// resize zeros the buffer, reallocating it iff the resolution changed, and
// reports whether a reallocation happened.
func (b *accumBuffer) resize(width, height int) bool {
	if b.width == width && b.height == height {
		for i := range b.sum {
			b.sum[i] = vecmath.Vec4{}
		}
		return false
	}
	b.width, b.height = width, height
	b.sum = make([]vecmath.Vec4, width*height)
	return true
}

func (b *accumBuffer) add(x, y int, sample vecmath.Vec4) {
	i := y*b.width + x
	b.sum[i] = b.sum[i].Add(sample)
}

// tonemap renders the current accumulation (divided by sampleCount, clamped
// to [0,1], scaled to 8-bit) into an *image.RGBA, top-left origin per
// spec.md §6.
func (b *accumBuffer) tonemap(sampleCount int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	if sampleCount <= 0 {
		return img
	}
	n := float64(sampleCount)

	// Pixel (x,y) is already stored with y=0 at the image top — the v=0-at-
	// bottom convention from spec.md §4.3 is folded into the uv passed to
	// per_pixel, not into this buffer's row order — so no flip here.
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			s := b.sum[y*b.width+x]
			c := vecmath.Vec3{X: s.X / n, Y: s.Y / n, Z: s.Z / n}.Clamp01()
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X * 255),
				G: uint8(c.Y * 255),
				B: uint8(c.Z * 255),
				A: 255,
			})
		}
	}
	return img
}
