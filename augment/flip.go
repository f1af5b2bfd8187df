package augment

import "math/rand"

// HFlip mirrors images left-right with a fixed probability.
//
// There is deliberately no vertical counterpart: the inputs
// this package was built for are orientation-sensitive.
type HFlip struct {
	// Prob is the probability of flipping.
	// If it is 0, a default of 0.5 is used; to never flip,
	// use a negative value (or leave HFlip out of the
	// Pipeline entirely).
	Prob float64
}

// Apply flips the image or returns a copy of it unchanged.
func (h *HFlip) Apply(r *rand.Rand, img *Image) *Image {
	if r.Float64() >= h.prob() {
		return img.Clone()
	}
	res := NewImage(img.Width, img.Height, img.Depth)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			for z := 0; z < img.Depth; z++ {
				res.Set(x, y, z, img.At(img.Width-1-x, y, z))
			}
		}
	}
	return res
}

func (h *HFlip) prob() float64 {
	if h.Prob < 0 {
		return 0
	} else if h.Prob == 0 {
		return 0.5
	}
	return h.Prob
}
