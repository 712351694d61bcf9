package types

import "time"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Signal is the outcome of one matcher evaluation over a bar window.
type Signal int

const (
	NoSignal Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	}
	return "none"
}

// Side maps a tradable signal onto an order side. ok is false for NoSignal.
func (s Signal) Side() (Side, bool) {
	switch s {
	case SignalBuy:
		return Buy, true
	case SignalSell:
		return Sell, true
	}
	return "", false
}

// Bar is a single OHLCV candle. Windows are ordered oldest→newest and
// immutable once fetched.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Quote is the current two-sided market for a symbol.
type Quote struct {
	Bid float64
	Ask float64
}

// OrderRequest is a fully formed order: entry hint plus volatility-derived
// stop-loss and take-profit levels.
type OrderRequest struct {
	Symbol     string
	Side       Side
	Volume     float64
	Price      float64 // entry hint (ask for BUY, bid for SELL)
	StopLoss   float64
	TakeProfit float64
	Comment    string
	Magic      int
}

// OrderResult reports the gateway's verdict on a submission or modification.
type OrderResult struct {
	Accepted bool
	Reason   string
}

// Position is a broker-owned open trade. The core only reads snapshots and
// requests stop modifications by ticket.
type Position struct {
	Ticket     int64
	Symbol     string
	Side       Side
	Volume     float64
	OpenPrice  float64
	StopLoss   float64
	TakeProfit float64
}
