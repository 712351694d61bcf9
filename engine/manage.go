package engine

import (
	"patternbot/logger"
	"patternbot/metrics"
	"patternbot/types"
)

// manage sweeps every open position and ratchets its stop toward breakeven
// once price has moved 1.5× the initial risk in its favour. Rejections are
// logged, not retried; the condition persists so next cycle tries again.
func (e *Engine) manage() {
	for _, pos := range e.gw.OpenPositions() {
		quote, ok := e.gw.Quote(pos.Symbol)
		if !ok {
			continue
		}
		price := quote.Bid
		if pos.Side == types.Sell {
			price = quote.Ask
		}

		newStop, ok := ratchetStop(pos, price)
		if !ok {
			continue
		}

		res := e.gw.ModifyStopLoss(pos.Ticket, newStop)
		if res.Accepted {
			metrics.StopModifications.WithLabelValues("accepted").Inc()
			e.log.Info("stop_moved",
				logger.String("symbol", pos.Symbol),
				logger.Int64("ticket", pos.Ticket),
				logger.Float64("new_sl", newStop),
			)
		} else {
			metrics.StopModifications.WithLabelValues("rejected").Inc()
			e.log.Warn("stop_move_rejected",
				logger.String("symbol", pos.Symbol),
				logger.Int64("ticket", pos.Ticket),
				logger.String("reason", res.Reason),
			)
		}
	}
}

// ratchetStop computes the breakeven-ratchet stop for pos at the current
// price. The rule only ever tightens: ok is false when the trigger distance
// has not been reached or the candidate stop would loosen the current one.
func ratchetStop(pos types.Position, price float64) (float64, bool) {
	if pos.Side == types.Buy {
		initialRisk := pos.OpenPrice - pos.StopLoss
		if price > pos.OpenPrice+1.5*initialRisk {
			newStop := pos.OpenPrice + 0.5*initialRisk
			if newStop > pos.StopLoss {
				return newStop, true
			}
		}
		return 0, false
	}

	initialRisk := pos.StopLoss - pos.OpenPrice
	if price < pos.OpenPrice-1.5*initialRisk {
		newStop := pos.OpenPrice - 0.5*initialRisk
		if newStop < pos.StopLoss {
			return newStop, true
		}
	}
	return 0, false
}
