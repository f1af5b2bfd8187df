package signmnist

import (
	"strconv"
	"strings"
	"testing"
)

func testCSV(header bool, labels []int) string {
	var lines []string
	if header {
		fields := []string{"label"}
		for i := 0; i < ImageWidth*ImageHeight; i++ {
			fields = append(fields, "pixel"+strconv.Itoa(i+1))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	for rowIdx, label := range labels {
		fields := []string{strconv.Itoa(label)}
		for i := 0; i < ImageWidth*ImageHeight; i++ {
			fields = append(fields, strconv.Itoa((rowIdx*31+i)%256))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func TestReadDataSet(t *testing.T) {
	labels := []int{0, 5, 23, 12}
	ds, err := ReadDataSet(strings.NewReader(testCSV(true, labels)))
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Samples) != len(labels) {
		t.Fatalf("expected %d samples but got %d", len(labels), len(ds.Samples))
	}
	for i, sample := range ds.Samples {
		if sample.Label != labels[i] {
			t.Errorf("sample %d: expected label %d but got %d", i, labels[i],
				sample.Label)
		}
		if len(sample.Intensities) != ImageWidth*ImageHeight {
			t.Fatalf("sample %d: got %d intensities", i, len(sample.Intensities))
		}
		for j, x := range sample.Intensities {
			if x < 0 || x > 1 {
				t.Fatalf("sample %d: intensity %d out of range: %f", i, j, x)
			}
		}
	}
}

func TestReadDataSetNoHeader(t *testing.T) {
	ds, err := ReadDataSet(strings.NewReader(testCSV(false, []int{3, 7})))
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Samples) != 2 {
		t.Fatalf("expected 2 samples but got %d", len(ds.Samples))
	}
}

func TestReadDataSetBadLabel(t *testing.T) {
	if _, err := ReadDataSet(strings.NewReader(testCSV(false, []int{24}))); err == nil {
		t.Error("expected error for out-of-range label")
	}
	if _, err := ReadDataSet(strings.NewReader(testCSV(false, []int{-1}))); err == nil {
		t.Error("expected error for negative label")
	}
}

func TestReadDataSetBadRow(t *testing.T) {
	csv := testCSV(false, []int{1}) + "\n1,2,3"
	if _, err := ReadDataSet(strings.NewReader(csv)); err == nil {
		t.Error("expected error for short row")
	}
}

func TestClassLetter(t *testing.T) {
	pairs := map[int]rune{0: 'A', 8: 'I', 9: 'K', 23: 'Y'}
	for label, letter := range pairs {
		if actual := ClassLetter(label); actual != letter {
			t.Errorf("label %d: expected %c but got %c", label, letter, actual)
		}
	}
}

func TestNumCorrect(t *testing.T) {
	ds, err := ReadDataSet(strings.NewReader(testCSV(false, []int{0, 5, 23})))
	if err != nil {
		t.Fatal(err)
	}
	count := ds.NumCorrect(func(img []float64) int {
		return 5
	})
	if count != 1 {
		t.Errorf("expected 1 correct but got %d", count)
	}
}

func TestCorrectnessHistogram(t *testing.T) {
	ds, err := ReadDataSet(strings.NewReader(testCSV(false, []int{0, 0, 5, 23})))
	if err != nil {
		t.Fatal(err)
	}
	hist := ds.CorrectnessHistogram(func(img []float64) int {
		return 0
	})

	parts := strings.Split(hist, " ")
	if len(parts) != NumClasses {
		t.Fatalf("expected %d entries but got %d", NumClasses, len(parts))
	}
	expected := map[int]string{
		0:  "A=100.0%",
		5:  "F=0.0%",
		10: "L=0.0%",
		23: "Y=0.0%",
	}
	for i, part := range expected {
		if parts[i] != part {
			t.Errorf("entry %d: expected %q but got %q", i, part, parts[i])
		}
	}
}
