package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aouyang1/go-arima/stats"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/spf13/cobra"
)

func newADFCmd(a *app) *cobra.Command {
	var (
		diff     int
		seasonal int
	)

	cmd := &cobra.Command{
		Use:   "adf",
		Short: "Run the augmented Dickey-Fuller stationarity test on the series",
		RunE: func(cmd *cobra.Command, _ []string) error {
			td, err := timedataset.LoadCSV(a.cfg.Data.Path, a.cfg.CSVOptions())
			if err != nil {
				return err
			}
			td = td.DropNan()

			for i := 0; i < diff; i++ {
				if td, err = td.Diff(1); err != nil {
					return err
				}
			}
			if seasonal > 1 {
				if td, err = td.Diff(seasonal); err != nil {
					return err
				}
			}

			stationary, res, err := stats.Stationary(td.Y, a.cfg.Preprocess.Significance, nil)
			if err != nil {
				return err
			}

			tbl := tabwriter.NewWriter(a.stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tbl, "ADF Statistic:\t%.4f\t\n", res.Statistic)
			fmt.Fprintf(tbl, "p-value:\t%.4f\t\n", res.PValue)
			fmt.Fprintf(tbl, "Lags Used:\t%d\t\n", res.UsedLag)
			fmt.Fprintf(tbl, "Observations:\t%d\t\n", res.NObs)

			for _, level := range []string{"1%", "5%", "10%"} {
				fmt.Fprintf(tbl, "Critical Value (%s):\t%.4f\t\n", level, res.CriticalValues[level])
			}
			fmt.Fprintf(tbl, "Stationary:\t%t\t\n", stationary)
			if err := tbl.Flush(); err != nil {
				return err
			}

			a.logger.Info().
				Float64("statistic", res.Statistic).
				Float64("p_value", res.PValue).
				Bool("stationary", stationary).
				Msg("adf test complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&diff, "diff", 0, "number of ordinary differencing rounds to apply first")
	cmd.Flags().IntVar(&seasonal, "seasonal", 0, "seasonal period to difference at after ordinary rounds")
	return cmd
}
