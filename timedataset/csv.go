package timedataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrColumnNotFound = errors.New("column not found in csv header")
	ErrNoRows         = errors.New("csv has no data rows")
)

// CSVOptions configures how a dataset is read from a csv with a header row
type CSVOptions struct {
	ValueColumn string        // name of the numeric column holding the series
	TimeColumn  string        // optional name of the time column
	TimeLayout  string        // layout of the time column, defaults to RFC3339 then 2006-01-02
	Start       time.Time     // start time used when there is no time column
	Interval    time.Duration // spacing used when there is no time column
	Comma       rune
}

func NewDefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "value",
		Start:       time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:    24 * time.Hour,
		Comma:       ',',
	}
}

// LoadCSV reads a dataset from a csv file on disk
func LoadCSV(path string, opt *CSVOptions) (*TimeDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open csv, %w", err)
	}
	defer f.Close()

	return ReadCSV(f, opt)
}

// ReadCSV reads a dataset from a csv stream. Empty values are read in as NaN.
func ReadCSV(r io.Reader, opt *CSVOptions) (*TimeDataset, error) {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opt.Comma != 0 {
		reader.Comma = opt.Comma
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv header, %w", err)
	}

	valueIdx, timeIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == opt.ValueColumn:
			valueIdx = i
		case opt.TimeColumn != "" && h == opt.TimeColumn:
			timeIdx = i
		}
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("value column %q, %w", opt.ValueColumn, ErrColumnNotFound)
	}
	if opt.TimeColumn != "" && timeIdx < 0 {
		return nil, fmt.Errorf("time column %q, %w", opt.TimeColumn, ErrColumnNotFound)
	}

	var t []time.Time
	var y []float64
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read csv row %d, %w", row, err)
		}

		val, err := parseValue(record[valueIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", row, err)
		}
		y = append(y, val)

		if timeIdx < 0 {
			t = append(t, opt.Start.Add(time.Duration(row-1)*opt.Interval))
			continue
		}
		ts, err := parseTime(record[timeIdx], opt.TimeLayout)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", row, err)
		}
		t = append(t, ts)
	}
	if len(y) == 0 {
		return nil, ErrNoRows
	}

	return NewUnivariateDataset(t, y)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return strconv.ParseFloat("NaN", 64)
	}
	return strconv.ParseFloat(s, 64)
}

func parseTime(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if layout != "" {
		return time.Parse(layout, s)
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return ts, nil
	}
	return time.Parse(time.DateOnly, s)
}
