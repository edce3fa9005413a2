package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	forecaster "github.com/aouyang1/go-arima"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("no input csv, set --input or data.path")

func newRunCmd(a *app) *cobra.Command {
	var (
		label   string
		results string
		plot    string
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the forecasting pipeline and append a row to the results table",
		Long: `Run preprocesses the series, splits it into train and test sets, selects the model
order by grid search or from the configured params, evaluates the forecast on the test
set and optionally cross-validates it.

When --results points at an existing json table the new row is appended to it. The table
is printed to stdout.

Examples:

  arimasearch run --input sales.csv --column sales --results results.json
  arimasearch run -c sarima.yaml --plot fit.html --horizon 12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if label != "" {
				cfg.Pipeline.Label = label
			}
			if results != "" {
				cfg.Output.ResultsPath = results
			}
			if plot != "" {
				cfg.Output.PlotPath = plot
			}
			if cmd.Flags().Changed("horizon") {
				cfg.Pipeline.Horizon = horizon
			}

			td, err := timedataset.LoadCSV(cfg.Data.Path, cfg.CSVOptions())
			if err != nil {
				return err
			}

			table, err := loadTable(cfg.Output.ResultsPath)
			if err != nil {
				return err
			}

			opt := cfg.ForecasterOptions(a.logger)
			if cfg.Output.PlotPath != "" {
				file, err := os.Create(cfg.Output.PlotPath)
				if err != nil {
					return fmt.Errorf("unable to create plot file, %w", err)
				}
				defer file.Close()
				opt.Plot = file
			}

			f, err := forecaster.New(opt)
			if err != nil {
				return err
			}
			table, report, err := f.Run(cmd.Context(), td.T, td.Y, table)
			if err != nil {
				return err
			}

			if err := table.TablePrint(a.stdout); err != nil {
				return err
			}
			if report.Future != nil {
				fmt.Fprintln(a.stdout)
				if err := report.Future.TablePrint(a.stdout, time.RFC3339); err != nil {
					return err
				}
			}
			return saveTable(cfg.Output.ResultsPath, table)
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "label of the results row, defaults to the selected model")
	cmd.Flags().StringVarP(&results, "results", "o", "", "json results table to append to")
	cmd.Flags().StringVar(&plot, "plot", "", "html file to render the fit and forecast to")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "steps to forecast past the end of the series, overrides pipeline.horizon")
	return cmd
}

// loadTable reads the results table at path. A missing file starts an empty table.
func loadTable(path string) (forecaster.ResultsTable, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open results table, %w", err)
	}
	defer file.Close()
	return forecaster.ReadResultsTable(file)
}

func saveTable(path string, table forecaster.ResultsTable) error {
	if path == "" {
		return nil
	}
	return table.SaveJSON(path)
}
