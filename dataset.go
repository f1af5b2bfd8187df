// Package signmnist loads the CSV-encoded sign language MNIST
// dataset and builds convolutional classifiers for it.
package signmnist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
)

const (
	// ImageWidth and ImageHeight are the dimensions of every
	// image in the dataset.
	ImageWidth  = 28
	ImageHeight = 28

	// ImageDepth is the number of color channels.
	ImageDepth = 1

	// NumClasses is the number of letter classes.
	// The letters J and Z require motion and have no class.
	NumClasses = 24
)

// A Sample is one labeled image.
type Sample struct {
	// Intensities contains ImageWidth*ImageHeight*ImageDepth
	// values in [0, 1], stored row-major depth-minor.
	Intensities []float64

	// Label is the class index, between 0 and NumClasses-1.
	Label int
}

// A DataSet is an ordered collection of samples.
type DataSet struct {
	Samples []Sample
}

// LoadDataSet reads a dataset from a CSV file.
func LoadDataSet(path string) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("load data set", err)
	}
	defer f.Close()
	ds, err := ReadDataSet(f)
	if err != nil {
		return nil, essentials.AddCtx("load data set "+path, err)
	}
	return ds, nil
}

// ReadDataSet reads CSV rows from r.
//
// Each row is an integer label followed by
// ImageWidth*ImageHeight pixel intensities between 0 and 255.
// A leading header row is detected and skipped.
func ReadDataSet(r io.Reader) (*DataSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 1 + ImageWidth*ImageHeight*ImageDepth

	res := &DataSet{}
	for i := 0; ; i++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, essentials.AddCtx("read data set", err)
		}
		if i == 0 {
			if _, err := strconv.Atoi(row[0]); err != nil {
				// Header row.
				continue
			}
		}
		sample, err := parseRow(row)
		if err != nil {
			return nil, essentials.AddCtx(fmt.Sprintf("read data set (row %d)", i+1), err)
		}
		res.Samples = append(res.Samples, sample)
	}
	return res, nil
}

func parseRow(row []string) (Sample, error) {
	label, err := strconv.Atoi(row[0])
	if err != nil {
		return Sample{}, err
	}
	if label < 0 || label >= NumClasses {
		return Sample{}, fmt.Errorf("label out of range: %d", label)
	}
	intensities := make([]float64, len(row)-1)
	for i, field := range row[1:] {
		val, err := strconv.Atoi(field)
		if err != nil {
			return Sample{}, err
		}
		intensities[i] = float64(val) / 0xff
	}
	return Sample{Intensities: intensities, Label: label}, nil
}

// ClassLetter returns the letter for a class index.
// The alphabet skips J, which has no class.
func ClassLetter(label int) rune {
	if label >= 9 {
		label++
	}
	return rune('A' + label)
}

// NumCorrect counts the samples which a classifier labels
// correctly.
// The classifier receives raw pixel intensities.
func (d *DataSet) NumCorrect(classifier func(img []float64) int) int {
	var count int
	for _, s := range d.Samples {
		if classifier(s.Intensities) == s.Label {
			count++
		}
	}
	return count
}

// CorrectnessHistogram returns a human-readable per-letter
// accuracy breakdown.
func (d *DataSet) CorrectnessHistogram(classifier func(img []float64) int) string {
	var correct, total [NumClasses]int
	for _, s := range d.Samples {
		total[s.Label]++
		if classifier(s.Intensities) == s.Label {
			correct[s.Label]++
		}
	}
	var parts []string
	for i, tot := range total {
		pct := 0.0
		if tot > 0 {
			pct = 100 * float64(correct[i]) / float64(tot)
		}
		parts = append(parts, fmt.Sprintf("%c=%.01f%%", ClassLetter(i), pct))
	}
	return strings.Join(parts, " ")
}
