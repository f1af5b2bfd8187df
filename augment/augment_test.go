package augment

import (
	"math"
	"math/rand"
	"testing"
)

func testImage(r *rand.Rand, width, height, depth int) *Image {
	img := NewImage(width, height, depth)
	for i := range img.Data {
		img.Data[i] = r.Float64()
	}
	return img
}

func testPipeline() Pipeline {
	return Pipeline{
		&Rotation{Degrees: 5},
		&ResizedCrop{MinScale: 0.9, MaxScale: 1},
		&HFlip{},
		&ColorJitter{Brightness: 0.2, Contrast: 0.5},
	}
}

func TestPipelineShape(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	img := testImage(r, 28, 28, 1)
	for i := 0; i < 100; i++ {
		out := testPipeline().Apply(r, img)
		if out.Width != 28 || out.Height != 28 || out.Depth != 1 {
			t.Fatalf("iteration %d: got %dx%dx%d", i, out.Width, out.Height, out.Depth)
		}
		if len(out.Data) != 28*28 {
			t.Fatalf("iteration %d: got %d components", i, len(out.Data))
		}
	}
}

func TestPipelineReproducible(t *testing.T) {
	img := testImage(rand.New(rand.NewSource(7)), 28, 28, 1)
	p := testPipeline()
	out1 := p.Apply(rand.New(rand.NewSource(123)), img)
	out2 := p.Apply(rand.New(rand.NewSource(123)), img)
	for i, x := range out1.Data {
		if out2.Data[i] != x {
			t.Fatalf("component %d: %f != %f", i, x, out2.Data[i])
		}
	}
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	img := testImage(r, 28, 28, 1)
	backup := append([]float64{}, img.Data...)
	testPipeline().Apply(r, img)
	for i, x := range backup {
		if img.Data[i] != x {
			t.Fatalf("component %d was mutated", i)
		}
	}
}

func imagesEqual(t *testing.T, expected, actual *Image, prec float64) {
	t.Helper()
	if expected.Width != actual.Width || expected.Height != actual.Height ||
		expected.Depth != actual.Depth {
		t.Fatalf("expected %dx%dx%d but got %dx%dx%d", expected.Width,
			expected.Height, expected.Depth, actual.Width, actual.Height,
			actual.Depth)
	}
	for i, x := range expected.Data {
		if math.Abs(x-actual.Data[i]) > prec {
			t.Fatalf("component %d: should be %f but got %f", i, x, actual.Data[i])
		}
	}
}
