// Package volatility computes the Average True Range series used for
// stop-loss and take-profit placement.
package volatility

import (
	"math"

	"patternbot/types"
)

// Series returns the ATR values aligned index-by-index with bars. The true
// range at index i (i ≥ 1) is max(high−low, |high−prevClose|, |low−prevClose|);
// the ATR at index i is the simple mean of the trailing period true ranges
// ending at i. Indices before period carry NaN. A window shorter than
// period+1 bars yields a series with no defined values.
func Series(bars []types.Bar, period int) []float64 {
	out := make([]float64, len(bars))
	for i := range out {
		out[i] = math.NaN()
	}
	if period < 1 || len(bars) < period+1 {
		return out
	}

	tr := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		b := bars[i]
		prevClose := bars[i-1].Close
		r := b.High - b.Low
		if hc := math.Abs(b.High - prevClose); hc > r {
			r = hc
		}
		if lc := math.Abs(b.Low - prevClose); lc > r {
			r = lc
		}
		tr[i] = r
	}

	for i := period; i < len(bars); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// Latest returns the ATR of the most recent bar. ok is false when the window
// has not accumulated enough bars, which callers must treat as "cannot trade
// yet" rather than a fault.
func Latest(bars []types.Bar, period int) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}
	s := Series(bars, period)
	v := s[len(s)-1]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
