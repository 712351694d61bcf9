// Package engine runs the trading loop: scan the instrument basket for
// signals, submit orders under the concurrent-position cap, then ratchet the
// stops of whatever is open.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patternbot/config"
	"patternbot/gateway"
	"patternbot/logger"
	"patternbot/metrics"
	"patternbot/risk"
	"patternbot/strategy"
	"patternbot/types"
	"patternbot/volatility"
)

// Engine owns the gateway handle for the lifetime of the run. Single
// threaded: one cycle runs to completion before the next sleep.
type Engine struct {
	cfg     config.Config
	gw      gateway.Gateway
	matcher strategy.Matcher
	confirm strategy.Confirmer // optional, may be nil
	log     logger.Logger

	cycles int64
}

// New validates the config and wires the engine. confirm may be nil.
func New(cfg config.Config, gw gateway.Gateway, matcher strategy.Matcher,
	confirm strategy.Confirmer, log logger.Logger) (*Engine, error) {

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if gw == nil {
		return nil, errors.New("gateway is nil")
	}
	if matcher == nil {
		return nil, errors.New("matcher is nil")
	}
	if log == nil {
		return nil, errors.New("logger is nil")
	}
	return &Engine{cfg: cfg, gw: gw, matcher: matcher, confirm: confirm, log: log}, nil
}

// Run opens the session and cycles until ctx is cancelled. A session that
// cannot open is fatal; cancellation lands between cycles, never inside one.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.gw.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer e.gw.Close()

	e.log.Info("engine_started",
		logger.String("strategy", e.matcher.Name()),
		logger.Int("symbols", len(e.cfg.Symbols)),
		logger.Int("max_concurrent_trades", e.cfg.MaxConcurrentTrades),
	)

	ticker := time.NewTicker(e.cfg.PollInterval())
	defer ticker.Stop()

	for {
		e.Cycle()
		select {
		case <-ctx.Done():
			e.log.Info("engine_stopped", logger.Int64("cycles", e.cycles))
			return nil
		case <-ticker.C:
		}
	}
}

// Cycle executes one scan phase followed by one manage phase.
func (e *Engine) Cycle() {
	e.cycles++
	metrics.Cycles.Inc()

	open := e.gw.OpenPositions()
	metrics.PositionsOpen.Set(float64(len(open)))
	e.log.Info("cycle",
		logger.Int64("n", e.cycles),
		logger.Int("open_positions", len(open)),
	)

	if len(open) < e.cfg.MaxConcurrentTrades {
		e.scan()
	}
	e.manage()
}

// scan walks the basket in configured order. Per-instrument data gaps are
// skipped, not surfaced; the scan short-circuits the moment the cap fills.
func (e *Engine) scan() {
	for _, symbol := range e.cfg.Symbols {
		bars := e.gw.Bars(symbol, e.cfg.Timeframe(), e.cfg.BarWindow)
		if len(bars) < e.cfg.ATRPeriod+1 {
			e.log.Info("data_unavailable", logger.String("symbol", symbol), logger.Int("bars", len(bars)))
			continue
		}

		atr, ok := volatility.Latest(bars, e.cfg.ATRPeriod)
		if !ok {
			e.log.Info("data_unavailable", logger.String("symbol", symbol))
			continue
		}

		sig := e.matcher.Detect(bars)
		if sig == types.NoSignal {
			continue
		}
		metrics.Signals.WithLabelValues(e.matcher.Name(), sig.String()).Inc()
		e.log.Info("signal_detected",
			logger.String("symbol", symbol),
			logger.String("strategy", e.matcher.Name()),
			logger.String("side", sig.String()),
		)

		if e.confirm != nil && !e.confirm.Confirm(bars, sig) {
			e.log.Info("signal_vetoed", logger.String("symbol", symbol))
			continue
		}

		quote, ok := e.gw.Quote(symbol)
		if !ok {
			e.log.Info("data_unavailable", logger.String("symbol", symbol))
			continue
		}

		req, ok := risk.BuildOrder(symbol, e.matcher.Name(), sig, quote, atr, e.cfg.LotSize)
		if !ok {
			continue
		}

		res := e.gw.Submit(req)
		if res.Accepted {
			metrics.Orders.WithLabelValues(string(req.Side), "accepted").Inc()
			e.log.Info("order_submitted",
				logger.String("symbol", symbol),
				logger.String("side", string(req.Side)),
				logger.Float64("price", req.Price),
				logger.Float64("sl", req.StopLoss),
				logger.Float64("tp", req.TakeProfit),
			)
		} else {
			metrics.Orders.WithLabelValues(string(req.Side), "rejected").Inc()
			e.log.Warn("order_rejected",
				logger.String("symbol", symbol),
				logger.String("reason", res.Reason),
			)
		}

		// Submission is not atomic with the count, so re-check after every
		// attempt and abandon the rest of this cycle's scan once full.
		if len(e.gw.OpenPositions()) >= e.cfg.MaxConcurrentTrades {
			e.log.Info("trade_cap_reached", logger.Int("cap", e.cfg.MaxConcurrentTrades))
			return
		}
	}
}
