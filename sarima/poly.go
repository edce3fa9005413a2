package sarima

import (
	"math/cmplx"

	mat_ "github.com/aouyang1/go-arima/mat"
	"gonum.org/v1/gonum/mat"
)

// polyMul multiplies two polynomials in the backshift operator given by their
// coefficients in increasing lag order.
func polyMul(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	res := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			res[i+j] += av * bv
		}
	}
	return res
}

// lagPoly builds 1 + sign*(c[0]*B^step + c[1]*B^(2*step) + ...)
func lagPoly(c []float64, step int, sign float64) []float64 {
	res := make([]float64, len(c)*step+1)
	res[0] = 1
	for i, v := range c {
		res[(i+1)*step] = sign * v
	}
	return res
}

// arLags converts the autoregressive polynomial phi(B)Phi(B^s) into coefficients a such
// that x[t] = a[0]*x[t-1] + a[1]*x[t-2] + ...
func arLags(ar, sar []float64, s int) []float64 {
	poly := polyMul(lagPoly(ar, 1, -1), lagPoly(sar, max(s, 1), -1))
	res := make([]float64, len(poly)-1)
	for i := range res {
		res[i] = -poly[i+1]
	}
	return res
}

// maLags converts the moving average polynomial theta(B)Theta(B^s) into coefficients b
// on e[t-1], e[t-2], ...
func maLags(ma, sma []float64, s int) []float64 {
	poly := polyMul(lagPoly(ma, 1, 1), lagPoly(sma, max(s, 1), 1))
	return poly[1:]
}

// diffPoly expands (1-B)^d (1-B^s)^sd
func diffPoly(d, sd, s int) []float64 {
	res := []float64{1}
	for i := 0; i < d; i++ {
		res = polyMul(res, []float64{1, -1})
	}
	for i := 0; i < sd; i++ {
		res = polyMul(res, lagPoly([]float64{1}, s, -1))
	}
	return res
}

// stableLags reports whether x[t] = a[0]*x[t-1] + ... + a[k-1]*x[t-k] is stationary, which
// holds when every eigenvalue of the companion matrix lies strictly inside the unit circle.
func stableLags(a []float64) bool {
	k := len(a)
	for k > 0 && a[k-1] == 0 {
		k--
	}
	if k == 0 {
		return true
	}
	if k == 1 {
		return a[0] > -1 && a[0] < 1
	}

	companion, err := mat_.Companion(a[:k])
	if err != nil {
		return false
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return false
	}
	for _, v := range eig.Values(nil) {
		if cmplx.Abs(v) >= 1 {
			return false
		}
	}
	return true
}

// stationary checks 1 - c[0]*B - c[1]*B^2 - ... has all roots outside the unit circle
func stationary(c []float64) bool {
	return stableLags(c)
}

// invertible checks 1 + c[0]*B + c[1]*B^2 + ... has all roots outside the unit circle
func invertible(c []float64) bool {
	neg := make([]float64, len(c))
	for i, v := range c {
		neg[i] = -v
	}
	return stableLags(neg)
}
