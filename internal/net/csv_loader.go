package net

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Dataset represents a collection of inputs and expected outputs.
type Dataset struct {
	Inputs [][]float64
	Labels [][]float64
}

// LoadCSV loads data from a CSV file.
// labelCols specifies the indices of columns to be used as expected outputs,
// in that order. All other columns are inputs, in file order.
// hasHeader skips the first line if true.
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}

	if len(records) <= startRow {
		return nil, fmt.Errorf("csv file has no data rows")
	}

	numCols := len(records[0])
	isLabelCol := make(map[int]bool)
	for _, col := range labelCols {
		if col < 0 || col >= numCols {
			return nil, fmt.Errorf("label column %d out of range [0, %d)", col, numCols)
		}
		isLabelCol[col] = true
	}

	numSamples := len(records) - startRow
	inputs := make([][]float64, numSamples)
	labels := make([][]float64, numSamples)

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, fmt.Errorf("inconsistent number of columns at row %d", i)
		}

		inputRow := make([]float64, 0, numCols-len(isLabelCol))
		labelValues := make(map[int]float64, len(labelCols))

		for j, valStr := range record {
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value at row %d, col %d: %w", i, j, err)
			}

			if isLabelCol[j] {
				labelValues[j] = val
			} else {
				inputRow = append(inputRow, val)
			}
		}

		labelRow := make([]float64, 0, len(labelCols))
		for _, col := range labelCols {
			labelRow = append(labelRow, labelValues[col])
		}

		inputs[i-startRow] = inputRow
		labels[i-startRow] = labelRow
	}

	return &Dataset{
		Inputs: inputs,
		Labels: labels,
	}, nil
}

// Normalize performs min-max normalization on the inputs.
// Constant columns become zero.
func (d *Dataset) Normalize() {
	if len(d.Inputs) == 0 {
		return
	}

	numFeatures := len(d.Inputs[0])
	lo := make([]float64, numFeatures)
	hi := make([]float64, numFeatures)
	copy(lo, d.Inputs[0])
	copy(hi, d.Inputs[0])

	for _, sample := range d.Inputs {
		for i, val := range sample {
			if val < lo[i] {
				lo[i] = val
			}
			if val > hi[i] {
				hi[i] = val
			}
		}
	}

	for _, sample := range d.Inputs {
		for i := range sample {
			diff := hi[i] - lo[i]
			if diff != 0 {
				sample[i] = (sample[i] - lo[i]) / diff
			} else {
				sample[i] = 0
			}
		}
	}
}

// Split splits the dataset into two based on the given ratio (0.0 to 1.0).
// Returns two new Datasets (train, test) sharing rows with d.
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	if ratio <= 0 {
		return &Dataset{}, d
	}
	if ratio >= 1 {
		return d, &Dataset{}
	}

	splitIdx := int(float64(len(d.Inputs)) * ratio)

	train := &Dataset{
		Inputs: d.Inputs[:splitIdx],
		Labels: d.Labels[:splitIdx],
	}

	test := &Dataset{
		Inputs: d.Inputs[splitIdx:],
		Labels: d.Labels[splitIdx:],
	}

	return train, test
}

// Points converts every row into a TrainingPoint.
func (d *Dataset) Points() []TrainingPoint {
	points := make([]TrainingPoint, len(d.Inputs))
	for i := range d.Inputs {
		points[i] = NewTrainingPoint(d.Inputs[i], d.Labels[i])
	}
	return points
}
