package main

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	forecaster "github.com/aouyang1/go-arima"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeries(t *testing.T, dir string, y []float64) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("sales\n")
	for _, v := range y {
		fmt.Fprintf(&sb, "%f\n", v)
	}
	path := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const explicitConfig = `
pipeline:
  split_ratio: 0.8
preprocess:
  enabled: false
search:
  enabled: false
model:
  params:
    order:
      p: 0
      d: 1
      q: 0
logging:
  level: error
`

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewPCG(3, 4))
	input := writeSeries(t, dir, timedataset.GenerateRandomWalk(rng, 120, 0, 1))
	cfgPath := writeConfig(t, dir, explicitConfig)
	results := filepath.Join(dir, "results.json")
	plot := filepath.Join(dir, "fit.html")

	out, err := execute(t, "run", "-c", cfgPath, "--input", input, "--column", "sales", "--results", results, "--plot", plot)
	require.NoError(t, err)
	assert.Contains(t, out, "ARIMA(0,1,0)")
	assert.Contains(t, out, "CV RMSE")

	out, err = execute(t, "run", "-c", cfgPath, "--input", input, "--column", "sales", "--results", results, "--label", "second", "--horizon", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Forecast")
	assert.Contains(t, out, "Upper")

	file, err := os.Open(results)
	require.NoError(t, err)
	defer file.Close()

	table, err := forecaster.ReadResultsTable(file)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "ARIMA(0,1,0)", table[0].Label)
	assert.Equal(t, "second", table[1].Label)
	assert.Equal(t, table[0].RMSE, table[1].RMSE)

	html, err := os.ReadFile(plot)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Original Series")
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, explicitConfig)

	testData := map[string]struct {
		args []string
		err  error
	}{
		"no input": {
			args: []string{"run", "-c", cfgPath},
			err:  errNoInput,
		},
		"missing column": {
			args: []string{"run", "-c", cfgPath, "--input", writeSeries(t, dir, []float64{1, 2, 3}), "--column", "passengers"},
			err:  timedataset.ErrColumnNotFound,
		},
		"missing config": {
			args: []string{"run", "-c", filepath.Join(dir, "missing.yaml")},
			err:  os.ErrNotExist,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, td.args...)
			require.ErrorIs(t, err, td.err)
		})
	}
}

func TestRunCommandStageError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, explicitConfig)
	input := writeSeries(t, dir, []float64{1, 2})

	_, err := execute(t, "run", "-c", cfgPath, "--input", input, "--column", "sales")
	var stageErr *forecaster.StageError
	require.ErrorAs(t, err, &stageErr)
}

func TestADFCommand(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewPCG(1, 2))
	input := writeSeries(t, dir, timedataset.GenerateRandomWalk(rng, 300, 1, 1))
	cfgPath := writeConfig(t, dir, explicitConfig)

	testData := map[string]struct {
		args       []string
		stationary string
	}{
		"levels": {
			args:       []string{"adf", "-c", cfgPath, "--input", input, "--column", "sales"},
			stationary: "false",
		},
		"differenced": {
			args:       []string{"adf", "-c", cfgPath, "--input", input, "--column", "sales", "--diff", "1"},
			stationary: "true",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, td.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "ADF Statistic:")
			assert.Contains(t, out, "p-value:")
			assert.Contains(t, out, "Critical Value (5%):")

			lines := strings.Split(strings.TrimSpace(out), "\n")
			assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[len(lines)-1]), td.stationary))
		})
	}
}
