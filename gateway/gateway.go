// Package gateway abstracts the broker session the engine trades through.
package gateway

import (
	"time"

	"patternbot/types"
)

// Gateway is the capability set the engine consumes, polymorphic over any
// real broker or simulator. All calls block; timeout and retry policy belong
// to the implementation. The handle is exclusively owned by the trading loop
// for its lifetime.
type Gateway interface {
	// Open establishes the session. An error here is fatal: the loop must
	// not begin.
	Open() error
	Close()

	// Bars returns up to count most recent bars, oldest first. Empty means
	// no data for this cycle.
	Bars(symbol string, timeframe time.Duration, count int) []types.Bar

	// Quote returns the current bid/ask. ok is false when no price is
	// available.
	Quote(symbol string) (types.Quote, bool)

	OpenPositions() []types.Position

	Submit(req types.OrderRequest) types.OrderResult

	ModifyStopLoss(ticket int64, newStop float64) types.OrderResult
}

// Rejection reasons shared by implementations.
const (
	ReasonNoSession     = "no session"
	ReasonBadVolume     = "bad volume"
	ReasonUnknownTicket = "unknown ticket"
)
