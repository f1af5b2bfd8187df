package augment

import "math/rand"

// ColorJitter perturbs brightness and contrast by independent
// random factors and clamps the result to [0, 1].
//
// Saturation and hue are deliberately absent: single-channel
// inputs have no color to perturb.
type ColorJitter struct {
	// Brightness bounds the brightness factor, which is drawn
	// uniformly from [max(0, 1-Brightness), 1+Brightness].
	Brightness float64

	// Contrast bounds the contrast factor the same way.
	Contrast float64
}

// Apply jitters the image's brightness and then its contrast.
func (c *ColorJitter) Apply(r *rand.Rand, img *Image) *Image {
	res := img.Clone()

	if c.Brightness != 0 {
		factor := jitterFactor(r, c.Brightness)
		for i, v := range res.Data {
			res.Data[i] = clamp(v * factor)
		}
	}

	if c.Contrast != 0 {
		factor := jitterFactor(r, c.Contrast)
		var mean float64
		for _, v := range res.Data {
			mean += v
		}
		mean /= float64(len(res.Data))
		for i, v := range res.Data {
			res.Data[i] = clamp(mean + (v-mean)*factor)
		}
	}

	return res
}

func jitterFactor(r *rand.Rand, bound float64) float64 {
	min := 1 - bound
	if min < 0 {
		min = 0
	}
	max := 1 + bound
	return min + r.Float64()*(max-min)
}
