// Package augment provides randomized, label-preserving image
// transformations for training data.
//
// Transforms operate on small host-side tensors and draw all of
// their randomness from an explicit *rand.Rand, so a fixed seed
// reproduces a run exactly.
package augment

import "math/rand"

// An Image is a raster of intensity values, stored row-major
// depth-minor like anyconv tensors.
//
// Intensities are typically in the range [0, 1].
type Image struct {
	Width  int
	Height int
	Depth  int

	// Data has Width*Height*Depth components.
	Data []float64
}

// NewImage creates a zero'd out image.
func NewImage(width, height, depth int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Depth:  depth,
		Data:   make([]float64, width*height*depth),
	}
}

// At returns the intensity at a coordinate.
func (i *Image) At(x, y, z int) float64 {
	return i.Data[(y*i.Width+x)*i.Depth+z]
}

// Set sets the intensity at a coordinate.
func (i *Image) Set(x, y, z int, v float64) {
	i.Data[(y*i.Width+x)*i.Depth+z] = v
}

// Clone creates a deep copy of the image.
func (i *Image) Clone() *Image {
	res := *i
	res.Data = append([]float64{}, i.Data...)
	return &res
}

// A Transform produces a new image from an input image plus
// fresh randomness.
//
// Transforms are stateless: they never mutate their input and
// carry nothing across calls.
type Transform interface {
	Apply(r *rand.Rand, img *Image) *Image
}

// A Pipeline is a fixed sequence of transforms, applied in
// order with the output of each feeding the next.
type Pipeline []Transform

// Apply applies every transform in the pipeline.
// If the pipeline is empty, the input is returned as output.
func (p Pipeline) Apply(r *rand.Rand, img *Image) *Image {
	for _, t := range p {
		img = t.Apply(r, img)
	}
	return img
}

// bilinear samples an image at a fractional coordinate using
// the four nearest pixels.
//
// Coordinates outside the image evaluate to the fill value.
func bilinear(img *Image, sx, sy float64, z int, fill float64) float64 {
	if sx < 0 || sy < 0 || sx > float64(img.Width-1) || sy > float64(img.Height-1) {
		return fill
	}
	x1, y1 := int(sx), int(sy)
	x2, y2 := x1+1, y1+1
	if x2 > img.Width-1 {
		x2 = img.Width - 1
	}
	if y2 > img.Height-1 {
		y2 = img.Height - 1
	}

	x1A := 1 - (sx - float64(x1))
	y1A := 1 - (sy - float64(y1))

	return img.At(x1, y1, z)*x1A*y1A +
		img.At(x2, y1, z)*(1-x1A)*y1A +
		img.At(x1, y2, z)*x1A*(1-y1A) +
		img.At(x2, y2, z)*(1-x1A)*(1-y1A)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}
