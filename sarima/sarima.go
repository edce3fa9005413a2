// Package sarima fits seasonal ARIMA models by conditional sum of squares and produces
// in-sample fitted values and out-of-sample forecasts.
package sarima

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-arima/stats"
	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// penalty is returned by the objective for non-stationary or non-invertible parameters
const penalty = 1e100

var (
	ErrInsufficientData = errors.New("not enough observations to fit model")
	ErrNonFiniteData    = errors.New("series contains non-finite values")
	ErrFitFailed        = errors.New("unable to find stationary and invertible parameters")
	ErrInvalidSteps     = errors.New("forecast steps must be positive")
	ErrInvalidAlpha     = errors.New("alpha must be in (0, 1)")
)

type Options struct {
	// MaxEvaluations bounds the number of objective evaluations of the optimizer
	MaxEvaluations int `json:"max_evaluations" mapstructure:"max_evaluations"`

	// Tolerance is the absolute change in the objective below which the fit is converged
	Tolerance float64 `json:"tolerance" mapstructure:"tolerance"`

	// IncludeMean estimates a constant mean when the model is not differenced
	IncludeMean bool `json:"include_mean" mapstructure:"include_mean"`

	// IncludeDrift estimates a constant mean of the differenced series when the model is
	// differenced, which becomes a deterministic trend on the original scale
	IncludeDrift bool `json:"include_drift" mapstructure:"include_drift"`
}

func NewDefaultOptions() *Options {
	return &Options{
		MaxEvaluations: 5000,
		Tolerance:      1e-10,
		IncludeMean:    true,
	}
}

// Validate fills in defaults for unset fields
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	res := *o
	if res.MaxEvaluations <= 0 {
		res.MaxEvaluations = NewDefaultOptions().MaxEvaluations
	}
	if res.Tolerance <= 0 {
		res.Tolerance = NewDefaultOptions().Tolerance
	}
	return &res, nil
}

// Predictor is a fitted model able to report in-sample fitted values and forecast
type Predictor interface {
	FittedValues() []float64
	Forecast(steps int) ([]float64, error)
}

// FitFunc fits params to a series
type FitFunc func(y []float64, params Params) (Predictor, error)

// NewFitFunc returns a FitFunc fitting models by conditional sum of squares
func NewFitFunc(opt *Options) FitFunc {
	return func(y []float64, params Params) (Predictor, error) {
		m, err := Fit(y, params, opt)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// Model is a fitted SARIMA model
type Model struct {
	params Params
	opt    *Options

	mean float64
	ar   []float64
	sar  []float64
	ma   []float64
	sma  []float64

	sigma2    float64
	llf       float64
	nEff      int
	converged bool

	y     []float64 // training series
	w     []float64 // differenced training series
	resid []float64 // residuals aligned with w

	arFull []float64
	maFull []float64
	burnIn int
}

// Fit estimates the model on y by minimizing the conditional sum of squares of the
// residuals of the differenced series. The first max autoregressive lag residuals are
// conditioned on and excluded from the objective.
func Fit(y []float64, params Params, opt *Options) (*Model, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("at index %d, %w", i, ErrNonFiniteData)
		}
	}

	w, err := differenceSeries(y, params)
	if err != nil {
		return nil, err
	}

	m := &Model{
		params: params,
		opt:    opt,
		y:      append([]float64(nil), y...),
		w:      w,
	}

	o, s := params.Order, params.Seasonal
	s.S = params.period()
	withMean := m.hasMean()
	numCoef := o.P + s.P + o.Q + s.Q
	if withMean {
		numCoef++
	}

	m.burnIn = o.P + s.P*s.S
	m.nEff = len(w) - m.burnIn
	if m.nEff <= numCoef+1 {
		return nil, fmt.Errorf("%d usable observations for %d coefficients of %s, %w", m.nEff, numCoef, params, ErrInsufficientData)
	}

	// optimize on the centered series so the mean parameter starts near zero
	var center float64
	if withMean {
		center = stat.Mean(w, nil)
	}
	z := make([]float64, len(w))
	copy(z, w)
	floats.AddConst(-center, z)

	unpack := func(x []float64) (float64, []float64, []float64, []float64, []float64) {
		var mu float64
		if withMean {
			mu, x = x[0], x[1:]
		}
		ar, x := x[:o.P], x[o.P:]
		sar, x := x[:s.P], x[s.P:]
		ma, x := x[:o.Q], x[o.Q:]
		sma := x[:s.Q]
		return mu, ar, sar, ma, sma
	}

	resid := make([]float64, len(z))
	objective := func(x []float64) float64 {
		mu, ar, sar, ma, sma := unpack(x)
		if !stationary(ar) || !stationary(sar) || !invertible(ma) || !invertible(sma) {
			return penalty
		}
		sse := cssResiduals(resid, z, mu, arLags(ar, sar, s.S), maLags(ma, sma, s.S), m.burnIn)
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return penalty
		}
		return sse / float64(m.nEff)
	}

	x := make([]float64, numCoef)
	m.converged = true
	if numCoef > 0 {
		settings := &optimize.Settings{
			FuncEvaluations: opt.MaxEvaluations,
			Converger: &optimize.FunctionConverge{
				Absolute:   opt.Tolerance,
				Iterations: 100,
			},
		}
		result, err := optimize.Minimize(optimize.Problem{Func: objective}, x, settings, &optimize.NelderMead{})
		if result == nil {
			return nil, fmt.Errorf("unable to optimize %s, %w", params, err)
		}
		if result.F >= penalty || math.IsNaN(result.F) {
			return nil, fmt.Errorf("%s, %w", params, ErrFitFailed)
		}
		x = result.X
		m.converged = err == nil && result.Status == optimize.FunctionConvergence
	}

	mu, ar, sar, ma, sma := unpack(x)
	m.mean = center + mu
	m.ar = append([]float64(nil), ar...)
	m.sar = append([]float64(nil), sar...)
	m.ma = append([]float64(nil), ma...)
	m.sma = append([]float64(nil), sma...)
	m.arFull = arLags(m.ar, m.sar, s.S)
	m.maFull = maLags(m.ma, m.sma, s.S)

	m.resid = make([]float64, len(w))
	sse := cssResiduals(m.resid, z, mu, m.arFull, m.maFull, m.burnIn)
	m.sigma2 = sse / float64(m.nEff)

	n := float64(m.nEff)
	m.llf = -n / 2.0 * (math.Log(2.0*math.Pi*m.sigma2) + 1.0)
	return m, nil
}

func differenceSeries(y []float64, params Params) ([]float64, error) {
	w := y
	var err error
	for i := 0; i < params.Order.D; i++ {
		if w, err = stats.Difference(w, 1); err != nil {
			return nil, fmt.Errorf("unable to difference %s, %w, %w", params, ErrInsufficientData, err)
		}
	}
	for i := 0; i < params.Seasonal.D; i++ {
		if w, err = stats.SeasonalDifference(w, params.period()); err != nil {
			return nil, fmt.Errorf("unable to seasonally difference %s, %w, %w", params, ErrInsufficientData, err)
		}
	}
	return append([]float64(nil), w...), nil
}

// cssResiduals writes e[t] = x[t] - sum(a[k]*x[t-k-1]) - sum(b[k]*e[t-k-1]) with
// x = z - mu into resid for t >= burnIn and returns the sum of squared residuals.
func cssResiduals(resid, z []float64, mu float64, a, b []float64, burnIn int) float64 {
	var sse float64
	for t := range z {
		if t < burnIn {
			resid[t] = 0
			continue
		}
		e := z[t] - mu
		for k, ak := range a {
			e -= ak * (z[t-k-1] - mu)
		}
		for k, bk := range b {
			if t-k-1 < 0 {
				break
			}
			e -= bk * resid[t-k-1]
		}
		resid[t] = e
		sse += e * e
	}
	return sse
}

func (m *Model) Params() Params {
	return m.params
}

// Mean is the estimated mean of the differenced series, zero when not estimated
func (m *Model) Mean() float64 {
	return m.mean
}

func (m *Model) AR() []float64 {
	return append([]float64(nil), m.ar...)
}

func (m *Model) SeasonalAR() []float64 {
	return append([]float64(nil), m.sar...)
}

func (m *Model) MA() []float64 {
	return append([]float64(nil), m.ma...)
}

func (m *Model) SeasonalMA() []float64 {
	return append([]float64(nil), m.sma...)
}

// Sigma2 is the residual variance
func (m *Model) Sigma2() float64 {
	return m.sigma2
}

func (m *Model) LogLikelihood() float64 {
	return m.llf
}

// NumParams counts the estimated coefficients including the mean and residual variance
func (m *Model) NumParams() int {
	k := len(m.ar) + len(m.sar) + len(m.ma) + len(m.sma) + 1
	if m.hasMean() {
		k++
	}
	return k
}

func (m *Model) hasMean() bool {
	if m.params.numDiff() == 0 {
		return m.opt.IncludeMean
	}
	return m.opt.IncludeDrift
}

func (m *Model) AIC() float64 {
	return -2.0*m.llf + 2.0*float64(m.NumParams())
}

func (m *Model) BIC() float64 {
	return -2.0*m.llf + math.Log(float64(m.nEff))*float64(m.NumParams())
}

// NObs is the number of residuals contributing to the objective
func (m *Model) NObs() int {
	return m.nEff
}

func (m *Model) Converged() bool {
	return m.converged
}

// Residuals returns the residuals aligned with the training series. Points lost to
// differencing or conditioned on are NaN.
func (m *Model) Residuals() []float64 {
	offset := len(m.y) - len(m.w)
	res := make([]float64, len(m.y))
	for t := range res {
		i := t - offset
		if i < m.burnIn {
			res[t] = math.NaN()
			continue
		}
		res[t] = m.resid[i]
	}
	return res
}

// FittedValues returns the one step ahead in-sample predictions on the original scale.
// Points without a prediction are NaN.
func (m *Model) FittedValues() []float64 {
	res := m.Residuals()
	for t, e := range res {
		if math.IsNaN(e) {
			continue
		}
		res[t] = m.y[t] - e
	}
	return res
}

// Forecast predicts the next steps values after the end of the training series
func (m *Model) Forecast(steps int) ([]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%d steps, %w", steps, ErrInvalidSteps)
	}

	n := len(m.w)
	x := make([]float64, n+steps)
	for i, v := range m.w {
		x[i] = v - m.mean
	}
	e := make([]float64, n+steps)
	copy(e, m.resid)

	for t := n; t < n+steps; t++ {
		var val float64
		for k, ak := range m.arFull {
			val += ak * x[t-k-1]
		}
		for k, bk := range m.maFull {
			if t-k-1 < 0 {
				break
			}
			val += bk * e[t-k-1]
		}
		x[t] = val
	}

	// undo differencing with y[t] = w[t] - c[1]*y[t-1] - c[2]*y[t-2] - ...
	c := diffPoly(m.params.Order.D, m.params.Seasonal.D, m.params.period())
	ny := len(m.y)
	y := make([]float64, ny+steps)
	copy(y, m.y)
	for h := 0; h < steps; h++ {
		t := ny + h
		val := x[n+h] + m.mean
		for k := 1; k < len(c); k++ {
			val -= c[k] * y[t-k]
		}
		y[t] = val
	}
	return y[ny:], nil
}

// ForecastInterval returns the forecast with lower and upper bounds of the 1-alpha
// prediction interval derived from the psi weights of the integrated model.
func (m *Model) ForecastInterval(steps int, alpha float64) ([]float64, []float64, []float64, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, nil, nil, fmt.Errorf("alpha %v, %w", alpha, ErrInvalidAlpha)
	}
	mean, err := m.Forecast(steps)
	if err != nil {
		return nil, nil, nil, err
	}

	psi := m.psiWeights(steps)
	z := distuv.UnitNormal.Quantile(1 - alpha/2)

	lower := make([]float64, steps)
	upper := make([]float64, steps)
	var cum float64
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		width := z * math.Sqrt(m.sigma2*cum)
		lower[h] = mean[h] - width
		upper[h] = mean[h] + width
	}
	return mean, lower, upper, nil
}

// psiWeights expands the integrated model into its moving average representation
func (m *Model) psiWeights(steps int) []float64 {
	// phi(B)(1-B)^d(1-B^s)^D written as 1 - a[0]B - a[1]B^2 - ...
	arPoly := make([]float64, len(m.arFull)+1)
	arPoly[0] = 1
	for i, v := range m.arFull {
		arPoly[i+1] = -v
	}
	full := polyMul(arPoly, diffPoly(m.params.Order.D, m.params.Seasonal.D, m.params.period()))

	psi := make([]float64, steps)
	psi[0] = 1
	for j := 1; j < steps; j++ {
		var val float64
		if j-1 < len(m.maFull) {
			val = m.maFull[j-1]
		}
		for k := 1; k <= j && k < len(full); k++ {
			val -= full[k] * psi[j-k]
		}
		psi[j] = val
	}
	return psi
}

// Summary is a serializable description of a fitted model
type Summary struct {
	Model     string    `json:"model"`
	Params    Params    `json:"params"`
	Mean      float64   `json:"mean"`
	AR        []float64 `json:"ar"`
	SAR       []float64 `json:"seasonal_ar"`
	MA        []float64 `json:"ma"`
	SMA       []float64 `json:"seasonal_ma"`
	Sigma2    float64   `json:"sigma2"`
	LLF       float64   `json:"log_likelihood"`
	AIC       float64   `json:"aic"`
	BIC       float64   `json:"bic"`
	NObs      int       `json:"nobs"`
	Converged bool      `json:"converged"`
}

func (m *Model) Summary() Summary {
	return Summary{
		Model:     m.params.String(),
		Params:    m.params,
		Mean:      m.mean,
		AR:        m.AR(),
		SAR:       m.SeasonalAR(),
		MA:        m.MA(),
		SMA:       m.SeasonalMA(),
		Sigma2:    m.sigma2,
		LLF:       m.llf,
		AIC:       m.AIC(),
		BIC:       m.BIC(),
		NObs:      m.nEff,
		Converged: m.converged,
	}
}

// MarshalJSON encodes the model summary
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Summary())
}
