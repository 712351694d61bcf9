package strategy

import (
	"github.com/evdnx/goti"

	"patternbot/types"
)

// TrendFilter is an optional confirmation gate built on the GoTI indicator
// suite. A Buy is vetoed only when the HMA reports a bearish crossover on the
// same window, and a Sell only on a bullish one. Indicator errors (not enough
// data, warm-up) fail open: the filter never withholds a signal it cannot
// judge.
type TrendFilter struct{}

func NewTrendFilter() *TrendFilter { return &TrendFilter{} }

func (f *TrendFilter) Confirm(bars []types.Bar, sig types.Signal) bool {
	if sig == types.NoSignal {
		return false
	}
	suite, err := goti.NewIndicatorSuiteWithConfig(goti.DefaultConfig())
	if err != nil {
		return true
	}
	for _, b := range bars {
		if err := suite.Add(b.High, b.Low, b.Close, b.Volume); err != nil {
			return true
		}
	}
	switch sig {
	case types.SignalBuy:
		if bearish, err := suite.GetHMA().IsBearishCrossover(); err == nil && bearish {
			return false
		}
	case types.SignalSell:
		if bullish, err := suite.GetHMA().IsBullishCrossover(); err == nil && bullish {
			return false
		}
	}
	return true
}
