package augment

import (
	"math"
	"math/rand"
)

// Rotation rotates images around their center by an angle
// drawn uniformly from [-Degrees, Degrees].
//
// Pixels exposed outside the original image bounds are filled
// with the Fill value (black by default), so large angles can
// discard image corners.
type Rotation struct {
	Degrees float64

	// Fill is the intensity used for pixels with no source.
	Fill float64
}

// Apply rotates the image by a freshly sampled angle.
// A Degrees bound of 0 is the identity transform.
func (rot *Rotation) Apply(r *rand.Rand, img *Image) *Image {
	angle := (2*r.Float64() - 1) * rot.Degrees * math.Pi / 180
	return rotate(img, angle, rot.Fill)
}

func rotate(img *Image, angle, fill float64) *Image {
	res := NewImage(img.Width, img.Height, img.Depth)
	cx := float64(img.Width-1) / 2
	cy := float64(img.Height-1) / 2

	// Map each destination pixel back to its source location.
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	for y := 0; y < res.Height; y++ {
		dy := float64(y) - cy
		for x := 0; x < res.Width; x++ {
			dx := float64(x) - cx
			sx := snap(cx + cos*dx - sin*dy)
			sy := snap(cy + sin*dx + cos*dy)
			for z := 0; z < res.Depth; z++ {
				res.Set(x, y, z, bilinear(img, sx, sy, z, fill))
			}
		}
	}
	return res
}

// snap rounds coordinates that are a rounding error away from
// a grid point, so that grid-aligned angles resample exactly.
func snap(v float64) float64 {
	r := math.Round(v)
	if math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}
