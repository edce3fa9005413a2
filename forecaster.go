// Package forecaster runs ARIMA and SARIMA forecasting workflows: stationarity
// preprocessing, train/test splitting, order selection, evaluation, cross-validation and
// plotting, accumulating one result row per run.
package forecaster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-arima/crossval"
	"github.com/aouyang1/go-arima/forecast"
	"github.com/aouyang1/go-arima/gridsearch"
	"github.com/aouyang1/go-arima/sarima"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/go-echarts/go-echarts/v2/components"
)

var ErrNothingToPlot = errors.New("report has no fit or forecast to plot")

// Stage names a step of the forecasting pipeline
type Stage string

const (
	StageDataset         Stage = "dataset"
	StagePreprocess      Stage = "preprocess"
	StageSplit           Stage = "split"
	StageSelect          Stage = "select"
	StageEvaluate        Stage = "evaluate"
	StageCrossValidation Stage = "crossvalidate"
	StageHorizon         Stage = "horizon"
	StagePlot            Stage = "plot"
)

// StageError reports the pipeline stage that failed
type StageError struct {
	Stage Stage
	Label string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed for %q, %v", e.Stage, e.Label, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Report carries the intermediate outputs of a successful run
type Report struct {
	Label           string                   `json:"label"`
	Params          sarima.Params            `json:"params"`
	Preprocess      *PreprocessResult        `json:"preprocess,omitempty"`
	Train           *timedataset.TimeDataset `json:"train"`
	Test            *timedataset.TimeDataset `json:"test"`
	Search          *gridsearch.Report       `json:"search,omitempty"`
	Evaluation      *forecast.Evaluation     `json:"evaluation"`
	Forecast        *Results                 `json:"forecast"`
	CrossValidation *crossval.Result         `json:"cross_validation,omitempty"`
	Future          *Results                 `json:"future,omitempty"`
	Elapsed         time.Duration            `json:"elapsed"`
}

// Forecaster runs the forecasting pipeline with a fixed set of options
type Forecaster struct {
	opt     *Options
	fitFunc sarima.FitFunc
}

// New creates a new instance of a Forecaster using the provided options. If no options
// are provided the defaults are used which still require a domain or params.
func New(opt *Options) (*Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Forecaster{
		opt:     opt,
		fitFunc: sarima.NewFitFunc(opt.Model),
	}, nil
}

// Run builds a dataset from t and y, preprocesses it, selects model params, evaluates the
// forecast on the held out test set and appends one row to table. On failure the table is
// returned unchanged along with a *StageError naming the failed stage.
func (f *Forecaster) Run(ctx context.Context, t []time.Time, y []float64, table ResultsTable) (ResultsTable, *Report, error) {
	start := time.Now()
	label := f.opt.Label
	if label == "" && f.opt.Params != nil && f.opt.Domain == nil {
		label = f.opt.Params.String()
	}

	fail := func(stage Stage, err error) (ResultsTable, *Report, error) {
		stageErr := &StageError{Stage: stage, Label: label, Err: err}
		f.opt.Logger.Error().Err(err).Str("stage", string(stage)).Str("label", label).Msg("forecast pipeline failed")
		return table, nil, stageErr
	}

	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fail(StageDataset, fmt.Errorf("unable to create dataset, %w", err))
	}
	if clean := td.DropNan(); clean.Len() != td.Len() {
		f.opt.Logger.Warn().Int("dropped", td.Len()-clean.Len()).Msg("dropped missing observations")
		if clean.Len() == 0 {
			return fail(StageDataset, timedataset.ErrNoTrainingData)
		}
		td = clean
	}

	if f.opt.Preprocess.SeasonalPeriod > 1 && !timedataset.TimeSlice(td.T).IsRegular() {
		f.opt.Logger.Warn().
			Int("seasonal_period", f.opt.Preprocess.SeasonalPeriod).
			Msg("series is not regularly spaced, seasonal lags may not line up")
	}

	report := &Report{}
	if f.opt.Preprocess.Enabled {
		td, report.Preprocess, err = Preprocess(td, f.opt.Preprocess)
		if err != nil {
			return fail(StagePreprocess, err)
		}
		f.opt.Logger.Info().
			Int("rounds", len(report.Preprocess.Rounds)).
			Float64("p_value", report.Preprocess.PValue).
			Bool("stationary", report.Preprocess.Stationary).
			Msg("preprocessed series")
	}

	report.Train, report.Test, err = td.Split(f.opt.SplitRatio)
	if err != nil {
		return fail(StageSplit, err)
	}

	report.Params, report.Search, err = f.selectParams(ctx, report.Train.Y)
	if err != nil {
		return fail(StageSelect, err)
	}
	if label == "" {
		label = report.Params.String()
	}
	report.Label = label

	report.Evaluation, err = forecast.Evaluate(report.Train.Y, report.Test.Y, report.Params, f.fitFunc)
	if err != nil {
		return fail(StageEvaluate, err)
	}
	report.Forecast, err = f.forecastResults(report.Test, report.Evaluation)
	if err != nil {
		return fail(StageEvaluate, err)
	}
	f.opt.Logger.Info().
		Str("label", label).
		Str("params", report.Params.String()).
		Float64("mse", report.Evaluation.Scores.MSE).
		Float64("rmse", report.Evaluation.Scores.RMSE).
		Float64("r2", report.Evaluation.Scores.R2).
		Msg("evaluated forecast")

	row := Row{
		Label:  label,
		Params: report.Params,
		MSE:    report.Evaluation.Scores.MSE,
		R2:     report.Evaluation.Scores.R2,
		RMSE:   report.Evaluation.Scores.RMSE,
	}

	if f.opt.CrossValidation != nil {
		cvOpt := *f.opt.CrossValidation
		if cvOpt.FitFunc == nil {
			cvOpt.FitFunc = f.fitFunc
		}
		cvOpt.Logger = f.opt.Logger
		report.CrossValidation, err = crossval.CrossValidate(ctx, report.Train.Y, report.Params, &cvOpt)
		if err != nil {
			return fail(StageCrossValidation, err)
		}
		cvRMSE := report.CrossValidation.MeanRMSE
		row.CVRMSE = &cvRMSE
		f.opt.Logger.Info().
			Str("label", label).
			Int("folds", len(report.CrossValidation.Folds)).
			Float64("mean_rmse", cvRMSE).
			Msg("cross-validated params")
	}

	if f.opt.Horizon > 0 {
		report.Future, err = f.projectFuture(td, report.Params)
		if err != nil {
			return fail(StageHorizon, err)
		}
		f.opt.Logger.Info().
			Str("label", label).
			Int("horizon", f.opt.Horizon).
			Time("end", report.Future.T[len(report.Future.T)-1]).
			Msg("projected future forecast")
	}

	if f.opt.Plot != nil {
		if err := PlotFit(f.opt.Plot, report); err != nil {
			return fail(StagePlot, err)
		}
	}

	report.Elapsed = time.Since(start)
	return table.Append(row), report, nil
}

// selectParams runs a grid search over the configured domain or falls back to the
// explicitly configured params
func (f *Forecaster) selectParams(ctx context.Context, y []float64) (sarima.Params, *gridsearch.Report, error) {
	if f.opt.Domain == nil {
		return *f.opt.Params, nil, nil
	}

	var searchOpt gridsearch.Options
	if f.opt.Search != nil {
		searchOpt = *f.opt.Search
	}
	if searchOpt.FitFunc == nil {
		searchOpt.FitFunc = f.fitFunc
	}
	searchOpt.Logger = f.opt.Logger

	report, err := gridsearch.Search(ctx, y, *f.opt.Domain, &searchOpt)
	if err != nil {
		return sarima.Params{}, nil, err
	}
	return report.Best.Params, report, nil
}

// forecastResults pairs the test forecast with its timestamps and prediction interval
func (f *Forecaster) forecastResults(test *timedataset.TimeDataset, eval *forecast.Evaluation) (*Results, error) {
	return f.intervalResults(test.T, eval.Model, eval.Forecast)
}

// projectFuture refits params on the whole series and forecasts Horizon steps past its end
func (f *Forecaster) projectFuture(td *timedataset.TimeDataset, params sarima.Params) (*Results, error) {
	t, err := timedataset.TimeSlice(td.T).Project(f.opt.Horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to project timestamps, %w", err)
	}
	model, err := f.fitFunc(td.Y, params)
	if err != nil {
		return nil, fmt.Errorf("unable to fit %s on the full series, %w", params, err)
	}
	fc, err := model.Forecast(f.opt.Horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to forecast %d steps, %w", f.opt.Horizon, err)
	}
	return f.intervalResults(t, model, fc)
}

// intervalResults attaches the prediction interval to a forecast. Predictors other than
// *sarima.Model get a zero width interval.
func (f *Forecaster) intervalResults(t []time.Time, model sarima.Predictor, fc []float64) (*Results, error) {
	res := &Results{
		T:        append([]time.Time(nil), t...),
		Forecast: fc,
		Upper:    fc,
		Lower:    fc,
	}

	m, ok := model.(*sarima.Model)
	if !ok {
		return res, nil
	}
	_, lower, upper, err := m.ForecastInterval(len(fc), f.opt.IntervalAlpha)
	if err != nil {
		return nil, fmt.Errorf("unable to compute prediction interval, %w", err)
	}
	res.Lower = lower
	res.Upper = upper
	return res, nil
}

// PlotFit uses the Apache Echarts library to render an html page showing the training fit
// and the forecast against the test set
func PlotFit(w io.Writer, report *Report) error {
	if report == nil || report.Train == nil || report.Evaluation == nil || report.Forecast == nil {
		return ErrNothingToPlot
	}

	page := components.NewPage()
	page.AddCharts(
		LineForecaster(report.Label, report.Test, report.Forecast),
		LineTSeries(
			"Training Fit",
			[]string{"Actual", "Fitted"},
			report.Train.T,
			[][]float64{report.Train.Y, report.Evaluation.Fitted},
		),
	)
	if report.Preprocess != nil && report.Preprocess.Original != nil {
		page.AddCharts(
			LineTSeries(
				"Original Series",
				[]string{"Original"},
				report.Preprocess.Original.T,
				[][]float64{report.Preprocess.Original.Y},
			),
		)
	}
	if report.Future != nil {
		page.AddCharts(
			LineTSeries(
				"Future Forecast",
				[]string{"Forecast", "Upper", "Lower"},
				report.Future.T,
				[][]float64{report.Future.Forecast, report.Future.Upper, report.Future.Lower},
			),
		)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("unable to render plot, %w", err)
	}
	return nil
}
