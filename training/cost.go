package training

import "github.com/unixpickle/anydiff"

// SoftmaxCE computes multi-class cross entropy from raw
// logits.
//
// The actual outputs pass through a log-softmax and are dotted
// with the desired distributions, which are typically one-hot.
type SoftmaxCE struct{}

// Cost produces one cost per batch row.
func (s SoftmaxCE) Cost(desired, actual anydiff.Res, n int) anydiff.Res {
	if actual.Output().Len()%n != 0 {
		panic("batch size must divide input length")
	}
	classes := actual.Output().Len() / n
	logProbs := anydiff.LogSoftmax(actual, classes)
	comb := anydiff.Mul(desired, logProbs)
	dots := anydiff.SumCols(&anydiff.Matrix{
		Data: comb,
		Rows: n,
		Cols: classes,
	})
	return anydiff.Scale(dots, dots.Output().Creator().MakeNumeric(-1))
}
