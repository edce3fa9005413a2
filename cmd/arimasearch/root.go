package main

import (
	"fmt"
	"io"

	"github.com/aouyang1/go-arima/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	input      string
	column     string
	timeColumn string

	cfg    *config.Config
	logger zerolog.Logger
	closer io.Closer

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		logger: zerolog.Nop(),
		stdout: out,
		stderr: errOut,
	}

	cmd := &cobra.Command{
		Use:           "arimasearch",
		Short:         "Select and evaluate ARIMA and SARIMA models",
		Long:          "arimasearch checks a series for stationarity, searches ARIMA and SARIMA orders, evaluates the forecast on a held out test set and cross-validates the selected model.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the yaml config file")
	cmd.PersistentFlags().StringVarP(&a.input, "input", "i", "", "csv file to read the series from, overrides data.path")
	cmd.PersistentFlags().StringVar(&a.column, "column", "", "name of the value column, overrides data.value_column")
	cmd.PersistentFlags().StringVar(&a.timeColumn, "time-column", "", "name of the time column, overrides data.time_column")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		if a.input != "" {
			cfg.Data.Path = a.input
		}
		if a.column != "" {
			cfg.Data.ValueColumn = a.column
		}
		if a.timeColumn != "" {
			cfg.Data.TimeColumn = a.timeColumn
		}
		if cfg.Data.Path == "" {
			return errNoInput
		}

		logger, closer, err := config.NewLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("unable to create logger, %w", err)
		}
		a.cfg = cfg
		a.logger = logger
		a.closer = closer
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		if a.closer == nil {
			return nil
		}
		return a.closer.Close()
	}

	cmd.AddCommand(
		newRunCmd(a),
		newADFCmd(a),
	)
	return cmd
}
