package augment

import (
	"math"
	"math/rand"
)

// ResizedCrop crops a randomly placed square region whose area
// is a random fraction of the original area, then resizes the
// crop back to the original dimensions with bilinear
// interpolation.
//
// The aspect ratio of the crop is always 1:1.
type ResizedCrop struct {
	// Bounds on the fraction of the original area to keep.
	MinScale float64
	MaxScale float64
}

// Apply crops and resizes the image.
// With a square input and a scale range of [1, 1], this is the
// identity transform.
func (c *ResizedCrop) Apply(r *rand.Rand, img *Image) *Image {
	scale := c.MinScale + r.Float64()*(c.MaxScale-c.MinScale)

	maxSide := img.Width
	if img.Height < maxSide {
		maxSide = img.Height
	}
	side := int(math.Round(math.Sqrt(scale) * float64(maxSide)))
	if side < 1 {
		side = 1
	} else if side > maxSide {
		side = maxSide
	}

	x0 := r.Intn(img.Width - side + 1)
	y0 := r.Intn(img.Height - side + 1)

	res := NewImage(img.Width, img.Height, img.Depth)
	xScale := scaleFactor(side, res.Width)
	yScale := scaleFactor(side, res.Height)
	for y := 0; y < res.Height; y++ {
		sy := float64(y0) + yScale*float64(y)
		for x := 0; x < res.Width; x++ {
			sx := float64(x0) + xScale*float64(x)
			for z := 0; z < res.Depth; z++ {
				res.Set(x, y, z, bilinear(img, sx, sy, z, 0))
			}
		}
	}
	return res
}

func scaleFactor(in, out int) float64 {
	if out <= 1 {
		return 0
	}
	return float64(in-1) / float64(out-1)
}
