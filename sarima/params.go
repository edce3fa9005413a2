package sarima

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeOrder         = errors.New("model orders must be non-negative")
	ErrInvalidSeasonalPeriod = errors.New("seasonal period must be greater than 1 when seasonal terms are set")
	ErrOverlappingLags       = errors.New("non-seasonal lags overlap the seasonal lags")
)

// Order is the non-seasonal (p, d, q) order of a model
type Order struct {
	P int `json:"p" mapstructure:"p"`
	D int `json:"d" mapstructure:"d"`
	Q int `json:"q" mapstructure:"q"`
}

// SeasonalOrder is the seasonal (P, D, Q, S) order of a model where S is the number of
// observations per season
type SeasonalOrder struct {
	P int `json:"P" mapstructure:"sp"`
	D int `json:"D" mapstructure:"sd"`
	Q int `json:"Q" mapstructure:"sq"`
	S int `json:"S" mapstructure:"s"`
}

// IsZero is true when there are no seasonal terms regardless of the period
func (s SeasonalOrder) IsZero() bool {
	return s.P == 0 && s.D == 0 && s.Q == 0
}

// Params fully describes the structure of an ARIMA or SARIMA model
type Params struct {
	Order    Order         `json:"order" mapstructure:"order"`
	Seasonal SeasonalOrder `json:"seasonal_order" mapstructure:"seasonal"`
}

func NewARIMA(p, d, q int) Params {
	return Params{Order: Order{P: p, D: d, Q: q}}
}

func NewSARIMA(p, d, q, sp, sd, sq, s int) Params {
	return Params{
		Order:    Order{P: p, D: d, Q: q},
		Seasonal: SeasonalOrder{P: sp, D: sd, Q: sq, S: s},
	}
}

func (p Params) IsSeasonal() bool {
	return !p.Seasonal.IsZero()
}

func (p Params) String() string {
	if !p.IsSeasonal() {
		return fmt.Sprintf("ARIMA(%d,%d,%d)", p.Order.P, p.Order.D, p.Order.Q)
	}
	return fmt.Sprintf("SARIMA(%d,%d,%d)(%d,%d,%d)[%d]",
		p.Order.P, p.Order.D, p.Order.Q,
		p.Seasonal.P, p.Seasonal.D, p.Seasonal.Q, p.Seasonal.S,
	)
}

// Validate rejects negative orders, seasonal terms without a usable period and
// non-seasonal lags reaching into the seasonal lags.
func (p Params) Validate() error {
	o, s := p.Order, p.Seasonal
	if o.P < 0 || o.D < 0 || o.Q < 0 || s.P < 0 || s.D < 0 || s.Q < 0 || s.S < 0 {
		return fmt.Errorf("%s, %w", p, ErrNegativeOrder)
	}
	if !s.IsZero() && s.S <= 1 {
		return fmt.Errorf("%s, %w", p, ErrInvalidSeasonalPeriod)
	}
	if s.P > 0 && o.P >= s.S {
		return fmt.Errorf("autoregressive order %d with seasonal period %d, %w", o.P, s.S, ErrOverlappingLags)
	}
	if s.Q > 0 && o.Q >= s.S {
		return fmt.Errorf("moving average order %d with seasonal period %d, %w", o.Q, s.S, ErrOverlappingLags)
	}
	return nil
}

// period returns the seasonal period or 0 when the model has no seasonal terms
func (p Params) period() int {
	if p.Seasonal.IsZero() {
		return 0
	}
	return p.Seasonal.S
}

// numDiff is the number of observations consumed by differencing
func (p Params) numDiff() int {
	return p.Order.D + p.Seasonal.D*p.period()
}
