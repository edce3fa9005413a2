package stats

import (
	"errors"
	"fmt"
	"math"

	mat_ "github.com/aouyang1/go-arima/mat"
	"github.com/aouyang1/go-arima/models"
	"gonum.org/v1/gonum/mat"
)

// DefaultSignificance is the p-value at or below which the unit root hypothesis is rejected
const DefaultSignificance = 0.05

var ErrInsufficientSamples = errors.New("sample size is too short to use the selected lag length")

// ADFOptions configures the augmented Dickey-Fuller regression. A negative MaxLag uses
// 12*(n/100)^(1/4). With AutoLag the number of lagged differences is chosen by minimum
// AIC from 0 to MaxLag, otherwise MaxLag lagged differences are used.
type ADFOptions struct {
	MaxLag  int
	AutoLag bool
}

func NewDefaultADFOptions() *ADFOptions {
	return &ADFOptions{
		MaxLag:  -1,
		AutoLag: true,
	}
}

// ADFResult holds the outcome of an augmented Dickey-Fuller test with a constant term
type ADFResult struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	UsedLag        int                `json:"used_lag"`
	NObs           int                `json:"nobs"`
	CriticalValues map[string]float64 `json:"critical_values"`
	ICBest         float64            `json:"ic_best"`
}

// ADF runs the augmented Dickey-Fuller unit root test regressing the first difference on
// a constant, the lagged level and lagged differences. The null hypothesis is a unit root.
func ADF(y []float64, opt *ADFOptions) (*ADFResult, error) {
	if opt == nil {
		opt = NewDefaultADFOptions()
	}

	n := len(y)
	ntrend := 1
	limit := n/2 - ntrend - 1

	maxLag := opt.MaxLag
	if maxLag < 0 {
		maxLag = int(math.Ceil(12.0 * math.Pow(float64(n)/100.0, 0.25)))
		maxLag = min(limit, maxLag)
		if maxLag < 0 {
			return nil, fmt.Errorf("%d observations, %w", n, ErrInsufficientSamples)
		}
	} else if maxLag > limit {
		return nil, fmt.Errorf("max lag %d with %d observations, %w", maxLag, n, ErrInsufficientSamples)
	}

	dy, err := Difference(y, 1)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInsufficientSamples, err)
	}

	usedLag := maxLag
	icBest := math.NaN()
	if opt.AutoLag {
		usedLag, icBest, err = selectLag(y, dy, maxLag)
		if err != nil {
			return nil, err
		}
	}

	reg, nobs, err := adfRegression(y, dy, usedLag, usedLag)
	if err != nil {
		return nil, err
	}

	stat := reg.TValues()[0]
	if math.IsNaN(stat) || math.IsInf(stat, 0) {
		return nil, fmt.Errorf("adf statistic is %v, %w", stat, models.ErrSingularMatrix)
	}

	res := &ADFResult{
		Statistic:      stat,
		PValue:         MacKinnonPValue(stat),
		UsedLag:        usedLag,
		NObs:           nobs,
		CriticalValues: MacKinnonCriticalValues(nobs),
		ICBest:         icBest,
	}
	return res, nil
}

// selectLag fits every lag length on a common sample starting at maxLag and returns the
// lag with the smallest AIC. Ties keep the shorter lag.
func selectLag(y, dy []float64, maxLag int) (int, float64, error) {
	bestLag := 0
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxLag; lag++ {
		reg, _, err := adfRegression(y, dy, lag, maxLag)
		if err != nil {
			return 0, 0, fmt.Errorf("unable to fit adf regression with %d lags, %w", lag, err)
		}
		aic, err := reg.AIC()
		if err != nil {
			return 0, 0, err
		}
		if aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}
	return bestLag, bestAIC, nil
}

// adfRegression regresses dy[t] on [y[t], dy[t-1], ..., dy[t-lag]] with an intercept for
// every t starting at start.
func adfRegression(y, dy []float64, lag, start int) (*models.OLSRegression, int, error) {
	nobs := len(dy) - start
	if nobs <= lag+2 {
		return nil, 0, fmt.Errorf("%d observations for %d lags, %w", nobs, lag, ErrInsufficientSamples)
	}

	rows := make([][]float64, 0, nobs)
	target := make([]float64, 0, nobs)
	for t := start; t < len(dy); t++ {
		row := make([]float64, 0, lag+1)
		row = append(row, y[t])
		for j := 1; j <= lag; j++ {
			row = append(row, dy[t-j])
		}
		rows = append(rows, row)
		target = append(target, dy[t])
	}

	x, err := mat_.NewDenseFromArray(rows)
	if err != nil {
		return nil, 0, err
	}

	reg, err := models.NewOLSRegression(models.NewDefaultOLSOptions())
	if err != nil {
		return nil, 0, err
	}
	if err := reg.Fit(x, mat.NewDense(nobs, 1, target)); err != nil {
		return nil, 0, err
	}
	return reg, nobs, nil
}

// IsStationary reports whether the ADF test rejects a unit root at DefaultSignificance.
func IsStationary(y []float64) (bool, error) {
	stationary, _, err := Stationary(y, DefaultSignificance, nil)
	return stationary, err
}

// Stationary runs the ADF test and reports whether its p-value is at or below the
// significance level.
func Stationary(y []float64, significance float64, opt *ADFOptions) (bool, *ADFResult, error) {
	res, err := ADF(y, opt)
	if err != nil {
		return false, nil, err
	}
	return res.PValue <= significance, res, nil
}
