package net

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCSV(t *testing.T, rows [][]string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "data.csv")
	file, err := os.Create(filename)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	writer := csv.NewWriter(file)
	writer.WriteAll(rows)
	file.Close()
	return filename
}

func TestCSVLoader(t *testing.T) {
	filename := writeCSV(t, [][]string{
		{"f1", "f2", "l1", "f3", "l2"},
		{"1.0", "2.0", "0.0", "3.0", "1.0"},
		{"4.0", "5.0", "1.0", "6.0", "0.0"},
	})

	dataset, err := LoadCSV(filename, []int{2, 4}, true)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	expectedInputs := [][]float64{
		{1.0, 2.0, 3.0},
		{4.0, 5.0, 6.0},
	}
	if !reflect.DeepEqual(dataset.Inputs, expectedInputs) {
		t.Errorf("expected inputs %v, got %v", expectedInputs, dataset.Inputs)
	}

	expectedLabels := [][]float64{
		{0.0, 1.0},
		{1.0, 0.0},
	}
	if !reflect.DeepEqual(dataset.Labels, expectedLabels) {
		t.Errorf("expected labels %v, got %v", expectedLabels, dataset.Labels)
	}

	points := dataset.Points()
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if !reflect.DeepEqual(points[1].Input(), expectedInputs[1]) || !reflect.DeepEqual(points[1].Expected(), expectedLabels[1]) {
		t.Errorf("unexpected point %v -> %v", points[1].Input(), points[1].Expected())
	}
}

func TestCSVLoaderLabelOrder(t *testing.T) {
	filename := writeCSV(t, [][]string{
		{"7", "8", "9"},
	})

	dataset, err := LoadCSV(filename, []int{2, 0}, false)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if want := [][]float64{{9, 7}}; !reflect.DeepEqual(dataset.Labels, want) {
		t.Errorf("expected labels %v, got %v", want, dataset.Labels)
	}
	if want := [][]float64{{8}}; !reflect.DeepEqual(dataset.Inputs, want) {
		t.Errorf("expected inputs %v, got %v", want, dataset.Inputs)
	}
}

func TestCSVLoaderErrors(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]string
		labelCols []int
		hasHeader bool
	}{
		{"header only", [][]string{{"a", "b"}}, []int{1}, true},
		{"label out of range", [][]string{{"1", "2"}}, []int{2}, false},
		{"not a number", [][]string{{"1", "x"}}, []int{1}, false},
	}

	for _, tt := range tests {
		filename := writeCSV(t, tt.rows)
		if _, err := LoadCSV(filename, tt.labelCols, tt.hasHeader); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil, false); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func readLog(t *testing.T, filename string) [][]string {
	t.Helper()
	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("failed to open logger file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	return records
}

func TestCSVLogger(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "log.csv")

	logger := NewCSVLogger(filename, false)
	n := &Network{}

	logger.OnTrainBegin(n)
	logger.OnPassEnd(0, []float64{0.5, 0.7}, n)
	logger.OnPassEnd(1, []float64{0.6, 0.4}, n)
	logger.OnTrainEnd(n, nil)
	if logger.Err != nil {
		t.Fatalf("logger error: %v", logger.Err)
	}

	records := readLog(t, filename)
	if len(records) != 3 { // Header + 2 passes
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	wantHeader := []string{"pass", "r2_0", "r2_1", "min_r2", "elapsed_seconds"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}
	if want := []string{"0", "0.500000", "0.700000", "0.500000"}; !reflect.DeepEqual(records[1][:4], want) {
		t.Errorf("unexpected record at pass 0: %v", records[1])
	}
	if want := []string{"1", "0.600000", "0.400000", "0.400000"}; !reflect.DeepEqual(records[2][:4], want) {
		t.Errorf("unexpected record at pass 1: %v", records[2])
	}
}

func TestCSVLoggerAppend(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "log.csv")
	n := &Network{}

	for run := 0; run < 2; run++ {
		logger := NewCSVLogger(filename, true)
		logger.Interval = 2
		logger.OnTrainBegin(n)
		for pass := 0; pass < 3; pass++ {
			logger.OnPassEnd(pass, []float64{0.1 * float64(pass)}, n)
		}
		logger.OnTrainEnd(n, nil)
		if logger.Err != nil {
			t.Fatalf("run %d: logger error: %v", run, logger.Err)
		}
	}

	records := readLog(t, filename)
	if len(records) != 5 { // Header + 2 rows per run
		t.Fatalf("expected 5 records, got %d: %v", len(records), records)
	}
	for i, want := range []string{"pass", "0", "2", "0", "2"} {
		if records[i][0] != want {
			t.Errorf("record %d pass column = %q, want %q", i, records[i][0], want)
		}
	}
}

func TestCSVLoggerWidthChange(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "log.csv")
	n := &Network{}

	logger := NewCSVLogger(filename, false)
	logger.OnTrainBegin(n)
	logger.OnPassEnd(0, []float64{0.5, 0.7}, n)
	logger.OnPassEnd(1, []float64{0.5}, n)
	logger.OnTrainEnd(n, nil)

	if logger.Err == nil {
		t.Errorf("expected an error for a changed row width")
	}
	if records := readLog(t, filename); len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestCSVLoggerOpenError(t *testing.T) {
	logger := NewCSVLogger(filepath.Join(t.TempDir(), "missing", "log.csv"), false)
	n := &Network{}

	logger.OnTrainBegin(n)
	logger.OnPassEnd(0, []float64{1}, n)
	logger.OnTrainEnd(n, nil)

	if logger.Err == nil {
		t.Errorf("expected an open error")
	}
}

func TestDatasetNormalization(t *testing.T) {
	dataset := &Dataset{
		Inputs: [][]float64{
			{10, 0, 3},
			{20, 5, 3},
			{30, 10, 3},
		},
	}

	dataset.Normalize()

	expected := [][]float64{
		{0.0, 0.0, 0.0},
		{0.5, 0.5, 0.0},
		{1.0, 1.0, 0.0},
	}

	for i := range expected {
		for j := range expected[i] {
			if dataset.Inputs[i][j] != expected[i][j] {
				t.Errorf("at [%d][%d] expected %f, got %f", i, j, expected[i][j], dataset.Inputs[i][j])
			}
		}
	}
}

func TestDatasetSplit(t *testing.T) {
	dataset := &Dataset{
		Inputs: [][]float64{{1}, {2}, {3}, {4}},
		Labels: [][]float64{{1}, {0}, {1}, {0}},
	}

	train, test := dataset.Split(0.75)
	if len(train.Inputs) != 3 || len(test.Inputs) != 1 {
		t.Errorf("split sizes = %d/%d, want 3/1", len(train.Inputs), len(test.Inputs))
	}
	if test.Inputs[0][0] != 4 {
		t.Errorf("test row = %v, want [4]", test.Inputs[0])
	}
}
