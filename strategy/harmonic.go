package strategy

import "patternbot/types"

// Fibonacci leg ratios an ABCD structure must satisfy.
const (
	retracementRatio = 0.618
	extensionRatio   = 1.618
)

// DefaultTolerance is the historical acceptance band around the two ratios.
// It is loose relative to the ratios themselves and accepts most shapes;
// tighten it via config if that is not what you want.
const DefaultTolerance = 0.618

// Harmonic scans a trailing sub-window for four-point ABCD structures whose
// BC/AB and CD/BC leg ratios sit near the Fibonacci retracement/extension
// values. D is pinned to the most recent bar's extreme.
type Harmonic struct {
	Tolerance float64
}

func NewHarmonic(tolerance float64) *Harmonic {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Harmonic{Tolerance: tolerance}
}

func (h *Harmonic) Name() string { return "abcd" }

// Detect walks candidate offsets oldest-first and returns the first match, so
// earlier structures take priority. Needs at least 10 bars; scans from
// len−20 to len−5.
func (h *Harmonic) Detect(bars []types.Bar) types.Signal {
	n := len(bars)
	if n < 10 {
		return types.NoSignal
	}

	start := n - 20
	if start < 0 {
		start = 0
	}
	for i := start; i <= n-5; i++ {
		// Bullish: leg up, leg down, leg up into the latest low.
		a := bars[i+1].Low
		b := bars[i+2].High
		c := bars[i+3].Low
		d := bars[n-1].Low
		if b-a > 0 && c-b < 0 && d-c > 0 {
			if h.ratiosMatch(b-a, b-c, d-c) {
				return types.SignalBuy
			}
		}

		// Bearish mirror into the latest high.
		a = bars[i+1].High
		b = bars[i+2].Low
		c = bars[i+3].High
		d = bars[n-1].High
		if a-b > 0 && c-b > 0 && c-d > 0 {
			if h.ratiosMatch(a-b, c-b, c-d) {
				return types.SignalSell
			}
		}
	}
	return types.NoSignal
}

// ratiosMatch applies the dual ratio test. Degenerate zero legs are a
// non-match, never a division fault.
func (h *Harmonic) ratiosMatch(ab, bc, cd float64) bool {
	if ab == 0 || bc == 0 {
		return false
	}
	return abs(bc/ab-retracementRatio) < h.Tolerance &&
		abs(cd/bc-extensionRatio) < h.Tolerance
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
