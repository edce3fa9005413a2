package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const singularTolerance = 1e-10

type OLSOptions struct {
	FitIntercept bool
}

func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// Validate returns the default options when none are provided
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		return NewDefaultOLSOptions(), nil
	}
	return o, nil
}

// OLSRegression computes ordinary least squares using QR factorization. Besides the
// coefficients it keeps the standard errors and residual sum of squares so t-statistics
// and information criteria can be derived from a fit.
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64

	stdErr          []float64
	interceptStdErr float64
	ssr             float64
	nObs            int
	trained         bool
}

func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

func (o *OLSRegression) withOnes(x mat.Matrix) mat.Matrix {
	m, _ := x.Dims()
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)
	onesMx := mat.NewDense(1, m, ones)

	var xWithOnes mat.Dense
	xWithOnes.Stack(onesMx, x.T())
	return xWithOnes.T()
}

func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}

	if o.opt.FitIntercept {
		x = o.withOnes(x)
	}
	_, n := x.Dims()
	if m <= n {
		return fmt.Errorf("%d observations for %d coefficients, %w", m, n, ErrInsufficientDOF)
	}

	qr := new(mat.QR)
	qr.Factorize(x)
	if rankDeficient(qr, n) {
		return ErrSingularMatrix
	}

	var c mat.Dense
	if err := qr.SolveTo(&c, false, y); err != nil {
		return fmt.Errorf("unable to solve least squares, %w, %w", ErrSingularMatrix, err)
	}
	coef := mat.Col(nil, 0, &c)

	var fitted mat.VecDense
	fitted.MulVec(x, mat.NewVecDense(n, coef))
	ssr := 0.0
	for i := 0; i < m; i++ {
		r := y.At(i, 0) - fitted.AtVec(i)
		ssr += r * r
	}

	// covariance of the coefficients is s2*(X'X)^-1
	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return fmt.Errorf("unable to invert normal matrix, %w, %w", ErrSingularMatrix, err)
	}
	s2 := ssr / float64(m-n)
	stdErr := make([]float64, n)
	for i := 0; i < n; i++ {
		stdErr[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}

	if o.opt.FitIntercept {
		o.intercept = coef[0]
		o.coef = coef[1:]
		o.interceptStdErr = stdErr[0]
		o.stdErr = stdErr[1:]
	} else {
		o.intercept = 0
		o.coef = coef
		o.interceptStdErr = 0
		o.stdErr = stdErr
	}
	o.ssr = ssr
	o.nObs = m
	o.trained = true

	return nil
}

// rankDeficient flags a design matrix whose R factor has a diagonal entry that is
// negligible relative to the largest one
func rankDeficient(qr *mat.QR, n int) bool {
	var r mat.Dense
	qr.RTo(&r)

	maxDiag := 0.0
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(i, i)))
	}
	if maxDiag == 0 {
		return true
	}
	for i := 0; i < n; i++ {
		if math.Abs(r.At(i, i)) <= singularTolerance*maxDiag {
			return true
		}
	}
	return false
}

func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	coef := o.coef
	if o.opt.FitIntercept {
		coef = append([]float64{o.intercept}, o.coef...)
		x = o.withOnes(x)
	}
	n := len(coef)

	xT := x.T()
	xn, _ := xT.Dims()
	if xn != n {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, n, ErrFeatureLenMismatch)
	}
	coefMx := mat.NewDense(1, n, coef)

	var res mat.Dense
	res.Mul(coefMx, xT)
	return res.RawRowView(0), nil
}

func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if m != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)

	return stat.RSquaredFrom(res, ySlice, nil), nil
}

func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// StdErr returns the standard error of each coefficient excluding the intercept
func (o *OLSRegression) StdErr() []float64 {
	s := make([]float64, len(o.stdErr))
	copy(s, o.stdErr)
	return s
}

// TValues returns the t-statistic of each coefficient excluding the intercept
func (o *OLSRegression) TValues() []float64 {
	t := make([]float64, len(o.coef))
	for i, c := range o.coef {
		t[i] = c / o.stdErr[i]
	}
	return t
}

// SSR returns the residual sum of squares of the fit
func (o *OLSRegression) SSR() float64 {
	return o.ssr
}

// NumParams is the number of estimated coefficients including the intercept
func (o *OLSRegression) NumParams() int {
	k := len(o.coef)
	if o.opt != nil && o.opt.FitIntercept {
		k++
	}
	return k
}

// LogLikelihood returns the gaussian log likelihood of the fit residuals
func (o *OLSRegression) LogLikelihood() (float64, error) {
	if !o.trained {
		return 0, ErrUntrainedModel
	}
	n := float64(o.nObs)
	return -n / 2.0 * (math.Log(2.0*math.Pi) + math.Log(o.ssr/n) + 1.0), nil
}

// AIC returns the akaike information criterion of the fit
func (o *OLSRegression) AIC() (float64, error) {
	llf, err := o.LogLikelihood()
	if err != nil {
		return 0, err
	}
	return -2.0*llf + 2.0*float64(o.NumParams()), nil
}
