package forecaster

import (
	"math"
	"time"

	"github.com/aouyang1/go-arima/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// lineData converts values to echarts points. NaN values are rendered as gaps.
func lineData(y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			data = append(data, opts.LineData{Value: "-"})
			continue
		}
		data = append(data, opts.LineData{Value: v})
	}
	return data
}

func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
	)
	return line
}

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. Each
// series in y is named by the matching entry of seriesName and must have the same length as t.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := newLine(title, "")
	line.SetXAxis(t)
	for i, name := range seriesName {
		if i >= len(y) {
			break
		}
		line.AddSeries(name, lineData(y[i]))
	}
	return line
}

// LineForecaster plots the test values against the forecast. The prediction interval bounds
// are drawn dashed when present.
func LineForecaster(title string, testData *timedataset.TimeDataset, res *Results) *charts.Line {
	line := newLine("Forecast", title)
	line.SetXAxis(res.T).
		AddSeries("Actual", lineData(testData.Y)).
		AddSeries("Forecast", lineData(res.Forecast))

	dashed := charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"})
	if len(res.Upper) == len(res.T) {
		line.AddSeries("Upper", lineData(res.Upper), dashed)
	}
	if len(res.Lower) == len(res.T) {
		line.AddSeries("Lower", lineData(res.Lower), dashed)
	}
	return line
}
