package signmnist

import (
	"crypto/md5"
	"encoding/binary"
	"math"
	"math/rand"
	"sync"

	"github.com/unixpickle/anynet/anyff"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/signmnist/augment"
)

// AnyNetSamples creates a sample list for training or
// evaluating an anynet classifier.
// Inputs are image tensors and outputs are one-hot class
// vectors.
//
// The result implements anysgd.Hasher, so it can be split
// deterministically with anysgd.HashSplit.
func (d *DataSet) AnyNetSamples(c anyvec.Creator) anyff.SampleList {
	return &sampleList{
		creator: c,
		samples: append([]Sample{}, d.Samples...),
	}
}

// AugmentedSamples is like AnyNetSamples, but every fetched
// input passes through the augmentation pipeline with fresh
// randomness, so the same sample produces a different tensor
// on every fetch.
//
// The rng provides all of the pipeline's randomness; seeding
// it makes augmentation reproducible.
func (d *DataSet) AugmentedSamples(c anyvec.Creator, p augment.Pipeline,
	rng *rand.Rand) anyff.SampleList {
	return &sampleList{
		creator:  c,
		samples:  append([]Sample{}, d.Samples...),
		pipeline: p,
		rng:      rng,
		rngLock:  new(sync.Mutex),
	}
}

// WithoutAugmentation returns a copy of a sample list created
// by this package with augmentation stripped, for use as
// validation or evaluation data.
//
// Lists from other packages are returned unchanged.
func WithoutAugmentation(list anyff.SampleList) anyff.SampleList {
	if s, ok := list.(*sampleList); ok {
		res := *s
		res.pipeline = nil
		return &res
	}
	return list
}

type sampleList struct {
	creator  anyvec.Creator
	samples  []Sample
	pipeline augment.Pipeline
	rng      *rand.Rand
	rngLock  *sync.Mutex
}

func (s *sampleList) Len() int {
	return len(s.samples)
}

func (s *sampleList) Swap(i, j int) {
	s.samples[i], s.samples[j] = s.samples[j], s.samples[i]
}

func (s *sampleList) Slice(i, j int) anysgd.SampleList {
	res := *s
	res.samples = append([]Sample{}, s.samples[i:j]...)
	return &res
}

// GetSample produces the vector pair for one sample, applying
// augmentation if it is configured.
//
// It is safe to call GetSample from multiple goroutines, so
// batch fetchers can augment samples in parallel.
func (s *sampleList) GetSample(idx int) (*anyff.Sample, error) {
	sample := s.samples[idx]
	in := sample.Intensities
	if s.pipeline != nil {
		img := &augment.Image{
			Width:  ImageWidth,
			Height: ImageHeight,
			Depth:  ImageDepth,
			Data:   in,
		}
		in = s.pipeline.Apply(s.sampleRand(), img).Data
	}
	out := make([]float64, NumClasses)
	out[sample.Label] = 1
	return &anyff.Sample{
		Input:  s.creator.MakeVectorData(s.creator.MakeNumericList(in)),
		Output: s.creator.MakeVectorData(s.creator.MakeNumericList(out)),
	}, nil
}

// Hash returns a digest of a sample's contents.
func (s *sampleList) Hash(i int) []byte {
	sample := s.samples[i]
	h := md5.New()
	temp := make([]byte, 8)
	binary.BigEndian.PutUint64(temp, uint64(sample.Label))
	h.Write(temp)
	for _, v := range sample.Intensities {
		binary.BigEndian.PutUint64(temp, math.Float64bits(v))
		h.Write(temp)
	}
	return h.Sum(nil)
}

// sampleRand derives a fresh randomness source for one
// augmentation pass.
func (s *sampleList) sampleRand() *rand.Rand {
	s.rngLock.Lock()
	defer s.rngLock.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}
