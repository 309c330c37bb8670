package net

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CSVLogger records the per-output R² of each BatchTrain pass as CSV rows:
//
//	pass,r2_0,...,r2_{k-1},min_r2,elapsed_seconds
//
// The header is written with the first row, once the output width is known.
// In append mode it is skipped when the file already has content.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool
	// Interval limits rows to every Interval passes; zero logs every pass.
	Interval int
	// Err holds the first open or write failure. Training is never stopped.
	Err error

	file       *os.File
	writer     *csv.Writer
	start      time.Time
	width      int
	needHeader bool
}

// NewCSVLogger creates a logger writing to filename.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

func (c *CSVLogger) fail(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

func (c *CSVLogger) OnTrainBegin(n *Network) {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0644)
	if err != nil {
		c.fail(fmt.Errorf("failed to open %s: %w", c.Filename, err))
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()
	c.width = 0

	c.needHeader = true
	if c.Append {
		if info, err := file.Stat(); err == nil && info.Size() > 0 {
			c.needHeader = false
		}
	}
}

func header(width int) []string {
	cols := make([]string, 0, width+3)
	cols = append(cols, "pass")
	for i := 0; i < width; i++ {
		cols = append(cols, "r2_"+strconv.Itoa(i))
	}
	return append(cols, "min_r2", "elapsed_seconds")
}

func (c *CSVLogger) OnPassEnd(pass int, rSquared []float64, n *Network) {
	if c.writer == nil {
		return
	}
	if c.Interval > 0 && pass%c.Interval != 0 {
		return
	}

	if c.width == 0 {
		c.width = len(rSquared)
	} else if len(rSquared) != c.width {
		c.fail(fmt.Errorf("pass %d has %d R² values, want %d", pass, len(rSquared), c.width))
		return
	}
	if c.needHeader {
		if err := c.writer.Write(header(c.width)); err != nil {
			c.fail(err)
			return
		}
		c.needHeader = false
	}

	record := make([]string, 0, c.width+3)
	record = append(record, strconv.Itoa(pass))
	for _, r2 := range rSquared {
		record = append(record, strconv.FormatFloat(r2, 'f', 6, 64))
	}
	record = append(record,
		strconv.FormatFloat(minimum(rSquared), 'f', 6, 64),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 3, 64),
	)
	if err := c.writer.Write(record); err != nil {
		c.fail(err)
		return
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.fail(err)
	}
}

func (c *CSVLogger) OnTrainEnd(n *Network, err error) {
	if c.file == nil {
		return
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.fail(err)
	}
	if err := c.file.Close(); err != nil {
		c.fail(err)
	}
	c.file = nil
	c.writer = nil
}
