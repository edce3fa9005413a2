package forecaster

import (
	"fmt"

	"github.com/aouyang1/go-arima/stats"
	"github.com/aouyang1/go-arima/timedataset"
)

// DifferencingRound records one round of differencing and the ADF result after it
type DifferencingRound struct {
	Seasonal bool    `json:"seasonal"`
	Lag      int     `json:"lag"`
	PValue   float64 `json:"p_value"`
}

// PreprocessResult describes how the series was made stationary
type PreprocessResult struct {
	Original      *timedataset.TimeDataset `json:"-"`
	InitialPValue float64                  `json:"initial_p_value"`
	PValue        float64                  `json:"p_value"`
	Stationary    bool                     `json:"stationary"`
	Rounds        []DifferencingRound      `json:"rounds"`
}

// Preprocess runs the ADF test on td and differences it while the test fails to reject a
// unit root, first up to MaxDifferencing times at lag 1 then once at the seasonal period.
// The returned dataset may still be non-stationary once the rounds are exhausted.
func Preprocess(td *timedataset.TimeDataset, opt PreprocessOptions) (*timedataset.TimeDataset, *PreprocessResult, error) {
	significance := opt.Significance
	if significance == 0 {
		significance = stats.DefaultSignificance
	}

	stationary, adf, err := stats.Stationary(td.Y, significance, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to test stationarity, %w", err)
	}
	res := &PreprocessResult{
		Original:      td,
		InitialPValue: adf.PValue,
		PValue:        adf.PValue,
		Stationary:    stationary,
	}

	difference := func(lag int, seasonal bool) error {
		diffed, err := td.Diff(lag)
		if err != nil {
			return fmt.Errorf("unable to difference at lag %d, %w", lag, err)
		}
		stationary, adf, err := stats.Stationary(diffed.Y, significance, nil)
		if err != nil {
			return fmt.Errorf("unable to test stationarity after differencing at lag %d, %w", lag, err)
		}
		td = diffed
		res.PValue = adf.PValue
		res.Stationary = stationary
		res.Rounds = append(res.Rounds, DifferencingRound{
			Seasonal: seasonal,
			Lag:      lag,
			PValue:   adf.PValue,
		})
		return nil
	}

	for i := 0; i < opt.MaxDifferencing && !res.Stationary; i++ {
		if err := difference(1, false); err != nil {
			return nil, nil, err
		}
	}
	if !res.Stationary && opt.SeasonalPeriod > 1 {
		if err := difference(opt.SeasonalPeriod, true); err != nil {
			return nil, nil, err
		}
	}
	return td, res, nil
}
