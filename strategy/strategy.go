// Package strategy holds the pattern matchers that turn a bar window into a
// trading signal.
package strategy

import (
	"fmt"
	"strings"

	"patternbot/types"
)

// Matcher evaluates a bar window (oldest→newest) and reports a signal.
// Implementations are pure: they keep no state between evaluations and never
// fail — anything ambiguous is NoSignal.
type Matcher interface {
	Name() string
	Detect(bars []types.Bar) types.Signal
}

// Confirmer optionally vetoes a matcher signal before it becomes an order.
type Confirmer interface {
	Confirm(bars []types.Bar, sig types.Signal) bool
}

// Build returns the matcher for the configured mode string.
func Build(mode string, tolerance float64) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "abcd", "harmonic":
		return NewHarmonic(tolerance), nil
	case "price_action", "priceaction":
		return NewPriceAction(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", mode)
	}
}
