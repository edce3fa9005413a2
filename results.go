package forecaster

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-arima/sarima"
	"github.com/goccy/go-json"
)

// Results is a forecast over a horizon with its prediction interval
type Results struct {
	T        []time.Time `json:"time"`
	Forecast []float64   `json:"forecast"`
	Upper    []float64   `json:"upper"`
	Lower    []float64   `json:"lower"`
}

// TablePrint writes one line per forecast step with its prediction interval. Times are
// rendered with layout.
func (r *Results) TablePrint(w io.Writer, layout string) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "Time\tForecast\tLower\tUpper\t\n")
	for i, t := range r.T {
		fmt.Fprintf(tbl, "%s\t%.3f\t%.3f\t%.3f\t\n", t.Format(layout), r.Forecast[i], r.Lower[i], r.Upper[i])
	}
	return tbl.Flush()
}

// Row is the evaluation of a single run. CVRMSE is only set when the run was
// cross-validated.
type Row struct {
	Label  string        `json:"label"`
	Params sarima.Params `json:"params"`
	MSE    float64       `json:"mse"`
	R2     float64       `json:"r2"`
	RMSE   float64       `json:"rmse"`
	CVRMSE *float64      `json:"cv_rmse,omitempty"`
}

// ResultsTable accumulates rows across runs in the order they were appended. It is owned
// by the caller and passed into and returned from each run.
type ResultsTable []Row

// Append returns a new table with row added to the end, leaving r untouched
func (r ResultsTable) Append(row Row) ResultsTable {
	res := make(ResultsTable, len(r), len(r)+1)
	copy(res, r)
	return append(res, row)
}

// Best returns the row with the lowest test RMSE, the earliest on ties
func (r ResultsTable) Best() (Row, bool) {
	if len(r) == 0 {
		return Row{}, false
	}
	best := r[0]
	for _, row := range r[1:] {
		if row.RMSE < best.RMSE {
			best = row
		}
	}
	return best, true
}

func (r ResultsTable) TablePrint(w io.Writer) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "Label\tModel\tMSE\tRMSE\tR2\tCV RMSE\t\n")
	for _, row := range r {
		cv := "-"
		if row.CVRMSE != nil {
			cv = fmt.Sprintf("%.3f", *row.CVRMSE)
		}
		fmt.Fprintf(tbl, "%s\t%s\t%.3f\t%.3f\t%.3f\t%s\t\n",
			row.Label, row.Params, row.MSE, row.RMSE, row.R2, cv)
	}
	return tbl.Flush()
}

// WriteJSON writes the table as an indented json array
func (r ResultsTable) WriteJSON(w io.Writer) error {
	if r == nil {
		r = ResultsTable{}
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal results table, %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("unable to write results table, %w", err)
	}
	return nil
}

// SaveJSON writes the table to path through a temporary file in the same directory that
// replaces path only once fully written. A failed write leaves any existing file untouched.
func (r ResultsTable) SaveJSON(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary results table, %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := r.WriteJSON(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temporary results table, %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to replace results table, %w", err)
	}
	return nil
}

// ReadResultsTable decodes a table previously written with WriteJSON
func ReadResultsTable(rd io.Reader) (ResultsTable, error) {
	var table ResultsTable
	if err := json.NewDecoder(rd).Decode(&table); err != nil {
		return nil, fmt.Errorf("unable to decode results table, %w", err)
	}
	return table, nil
}
