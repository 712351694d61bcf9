package strategy

import "patternbot/types"

// PriceAction classifies the most recent candles as pin-bar or engulfing
// reversals. Only the current and previous candles enter the published
// conditions; the three-bar minimum reserves room for a third.
type PriceAction struct{}

func NewPriceAction() *PriceAction { return &PriceAction{} }

func (p *PriceAction) Name() string { return "price_action" }

func (p *PriceAction) Detect(bars []types.Bar) types.Signal {
	if len(bars) < 3 {
		return types.NoSignal
	}
	cur := bars[len(bars)-1]
	prev := bars[len(bars)-2]

	// Pin bar: long rejection wick opposite the close, small wick over the
	// body on the close side.
	bullishPin := cur.Close > cur.Open &&
		(cur.Open-cur.Low) > 2*(cur.High-cur.Close) &&
		(cur.High-cur.Close) < (cur.Close-cur.Open)

	bullishEngulfing := cur.Close > prev.Open &&
		cur.Open < prev.Close &&
		cur.Close > prev.High &&
		prev.Close < prev.Open

	bearishPin := cur.Close < cur.Open &&
		(cur.High-cur.Open) > 2*(cur.Close-cur.Low) &&
		(cur.Close-cur.Low) < (cur.Open-cur.Close)

	bearishEngulfing := cur.Close < prev.Open &&
		cur.Open > prev.Close &&
		cur.Close < prev.Low &&
		prev.Close > prev.Open

	// Bullish wins if both somehow hold.
	if bullishPin || bullishEngulfing {
		return types.SignalBuy
	}
	if bearishPin || bearishEngulfing {
		return types.SignalSell
	}
	return types.NoSignal
}
