// Package training implements an epoch-based training loop
// for feed-forward anynet classifiers.
package training

import (
	"errors"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyff"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

const defaultStepSize = 0.001

// Mode selects between training and evaluation behavior for
// mode-dependent layers like dropout.
type Mode int

const (
	ModeTrain Mode = iota
	ModeEval
)

// SetMode recursively switches every mode-dependent layer in
// a network.
func SetMode(layer anynet.Layer, m Mode) {
	switch layer := layer.(type) {
	case anynet.Net:
		for _, sub := range layer {
			SetMode(sub, m)
		}
	case *anynet.Dropout:
		layer.Enabled = m == ModeTrain
	}
}

// Metrics aggregates one pass over a sample list.
type Metrics struct {
	// Cost is the mean per-sample cost.
	Cost float64

	// Accuracy is the fraction of correct top-1 predictions.
	Accuracy float64
}

// A Loop trains a network for a fixed number of epochs.
//
// Every epoch is a shuffled training pass followed by a
// sequential validation pass.
// The training pass updates parameters; the validation pass
// only evaluates.
type Loop struct {
	// Net is the network being trained.
	Net anynet.Net

	// Cost measures the per-sample cost.
	Cost anynet.Cost

	// Params are the variables to optimize.
	Params []*anydiff.Var

	// Train is the training sample list.
	// It may not be empty.
	Train anyff.SampleList

	// Validation is the held-out sample list.
	// It may be nil or empty, in which case validation
	// metrics are zero.
	Validation anyff.SampleList

	// BatchSize is the mini-batch size.
	// If it is 0, the entire sample list is one batch.
	BatchSize int

	// NumEpochs is the number of full passes over Train.
	NumEpochs int

	// Transformer, if non-nil, transforms gradients before
	// every step (e.g. an *anysgd.Adam).
	Transformer anysgd.Transformer

	// Rater determines the step size.
	// If it is nil, a constant rate of 0.001 is used.
	Rater anysgd.Rater

	// Fetcher turns sample list slices into batches.
	// It must produce *anyff.Batch instances.
	// If it is nil, an anyff.Trainer is used, which fetches
	// (and thus augments) samples in parallel.
	Fetcher anysgd.Fetcher

	// StatusFunc, if non-nil, is called after every epoch.
	StatusFunc func(epoch int, train, validation Metrics)

	numProcessed int
}

// Run trains the network.
//
// If the stop channel is closed mid-run, Run finishes the
// current batch and returns nil.
func (l *Loop) Run(stop <-chan struct{}) error {
	if l.Train.Len() == 0 {
		return errors.New("train network: no training samples")
	}
	for epoch := 0; epoch < l.NumEpochs; epoch++ {
		anysgd.Shuffle(l.Train)
		SetMode(l.Net, ModeTrain)
		train, err := l.runPass(l.Train, true, stop)
		if err != nil {
			return essentials.AddCtx("train network", err)
		}

		SetMode(l.Net, ModeEval)
		var validation Metrics
		if l.Validation != nil && l.Validation.Len() > 0 {
			validation, err = l.runPass(l.Validation, false, stop)
			if err != nil {
				return essentials.AddCtx("train network", err)
			}
		}

		if l.StatusFunc != nil {
			l.StatusFunc(epoch, train, validation)
		}

		select {
		case <-stop:
			return nil
		default:
		}
	}
	return nil
}

// runPass evaluates every batch of a sample list, updating
// parameters if train is set.
func (l *Loop) runPass(samples anyff.SampleList, train bool,
	stop <-chan struct{}) (Metrics, error) {
	fetcher := l.fetcher()
	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = samples.Len()
	}

	var costSum float64
	var correct, processed int
	for i := 0; i < samples.Len(); i += batchSize {
		select {
		case <-stop:
			return passMetrics(costSum, correct, processed), nil
		default:
		}

		j := i + batchSize
		if j > samples.Len() {
			j = samples.Len()
		}
		fetched, err := fetcher.Fetch(samples.Slice(i, j))
		if err != nil {
			return Metrics{}, err
		}
		batch := fetched.(*anyff.Batch)

		out := l.Net.Apply(batch.Inputs, batch.Num)
		cost := l.Cost.Cost(batch.Outputs, out, batch.Num)
		if train {
			l.step(cost, batch.Num)
		}

		costSum += vectorSum(cost.Output())
		correct += numCorrect(out.Output(), batch.Outputs.Output(), batch.Num)
		processed += batch.Num
	}
	return passMetrics(costSum, correct, processed), nil
}

// step back-propagates an averaged cost and applies the
// resulting update to the parameters.
func (l *Loop) step(cost anydiff.Res, n int) {
	grad := anydiff.Grad{}
	for _, p := range l.Params {
		grad[p] = p.Vector.Creator().MakeVector(p.Vector.Len())
	}

	// Scale the upstream vector so that it's as if we took
	// the average of the cost.
	upstream := cost.Output().Creator().MakeVector(cost.Output().Len())
	upstream.AddScalar(upstream.Creator().MakeNumeric(1 / float64(n)))
	cost.Propagate(upstream, grad)

	if l.Transformer != nil {
		grad = l.Transformer.Transform(grad)
	}

	epoch := float64(l.numProcessed) / float64(l.Train.Len())
	scaleGradient(grad, -l.rater().Rate(epoch))
	grad.AddToVars()

	l.numProcessed += n
}

func (l *Loop) fetcher() anysgd.Fetcher {
	if l.Fetcher != nil {
		return l.Fetcher
	}
	return &anyff.Trainer{}
}

func (l *Loop) rater() anysgd.Rater {
	if l.Rater != nil {
		return l.Rater
	}
	return anysgd.ConstRater(defaultStepSize)
}

func passMetrics(costSum float64, correct, processed int) Metrics {
	if processed == 0 {
		return Metrics{}
	}
	return Metrics{
		Cost:     costSum / float64(processed),
		Accuracy: float64(correct) / float64(processed),
	}
}

// numCorrect counts the batch rows whose maximum output
// component matches the maximum desired component.
func numCorrect(actual, desired anyvec.Vector, n int) int {
	cols := actual.Len() / n
	var count int
	for i := 0; i < n; i++ {
		a := actual.Slice(cols*i, cols*(i+1))
		d := desired.Slice(cols*i, cols*(i+1))
		if anyvec.MaxIndex(a) == anyvec.MaxIndex(d) {
			count++
		}
	}
	return count
}

func vectorSum(v anyvec.Vector) float64 {
	switch data := v.Data().(type) {
	case []float32:
		var sum float32
		for _, x := range data {
			sum += x
		}
		return float64(sum)
	case []float64:
		var sum float64
		for _, x := range data {
			sum += x
		}
		return sum
	default:
		return 0
	}
}

func scaleGradient(g anydiff.Grad, s float64) {
	for _, v := range g {
		g.Scale(v.Creator().MakeNumeric(s))
		return
	}
}
