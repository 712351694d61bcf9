// Package risk turns a signal plus a volatility estimate into a fully formed
// order request.
package risk

import (
	"fmt"
	"math"

	"patternbot/types"
)

const (
	// Stop sits 2×ATR away from entry, target 3×ATR.
	stopMultiple   = 2.0
	targetMultiple = 3.0

	// MagicNumber tags every order this bot places.
	MagicNumber = 123456
)

// BuildOrder prices an entry off the quote (ask for a buy, bid for a sell)
// and derives stop-loss and take-profit from the latest ATR. ok is false when
// the signal is not tradable or the ATR is undefined — insufficient data,
// not a fault.
func BuildOrder(symbol, strategyName string, sig types.Signal, q types.Quote, atr, lot float64) (types.OrderRequest, bool) {
	side, tradable := sig.Side()
	if !tradable {
		return types.OrderRequest{}, false
	}
	if math.IsNaN(atr) || atr <= 0 {
		return types.OrderRequest{}, false
	}

	var price, stop, target float64
	if side == types.Buy {
		price = q.Ask
		stop = price - stopMultiple*atr
		target = price + targetMultiple*atr
	} else {
		price = q.Bid
		stop = price + stopMultiple*atr
		target = price - targetMultiple*atr
	}

	return types.OrderRequest{
		Symbol:     symbol,
		Side:       side,
		Volume:     lot,
		Price:      price,
		StopLoss:   stop,
		TakeProfit: target,
		Comment:    fmt.Sprintf("%s_%s", strategyName, sig),
		Magic:      MagicNumber,
	}, true
}
