package gateway

import (
	"sync"
	"time"

	"patternbot/types"
)

// PaperGateway is an in-memory broker: perfect fills, no slippage, positions
// tracked per ticket. A feed (or a test) pushes bars in with Advance/Seed;
// the engine reads them back out. Safe for one feeder and one trading loop.
type PaperGateway struct {
	mu         sync.RWMutex
	open       bool
	spread     float64
	series     map[string][]types.Bar
	positions  []types.Position
	closed     []types.Position
	nextTicket int64
}

// NewPaperGateway builds a simulator quoting last-close ± spread/2.
func NewPaperGateway(spread float64) *PaperGateway {
	return &PaperGateway{
		spread:     spread,
		series:     make(map[string][]types.Bar),
		nextTicket: 1,
	}
}

func (p *PaperGateway) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	return nil
}

func (p *PaperGateway) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// Seed replaces the full bar history for a symbol.
func (p *PaperGateway) Seed(symbol string, bars []types.Bar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.series[symbol] = append([]types.Bar(nil), bars...)
}

// Advance appends one bar and sweeps open positions against its range,
// closing any whose stop-loss or take-profit was touched.
func (p *PaperGateway) Advance(symbol string, bar types.Bar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.series[symbol] = append(p.series[symbol], bar)

	kept := p.positions[:0]
	for _, pos := range p.positions {
		if pos.Symbol == symbol && stopOrTargetHit(pos, bar) {
			p.closed = append(p.closed, pos)
			continue
		}
		kept = append(kept, pos)
	}
	p.positions = kept
}

func stopOrTargetHit(pos types.Position, bar types.Bar) bool {
	if pos.Side == types.Buy {
		return bar.Low <= pos.StopLoss || (pos.TakeProfit > 0 && bar.High >= pos.TakeProfit)
	}
	return bar.High >= pos.StopLoss || (pos.TakeProfit > 0 && bar.Low <= pos.TakeProfit)
}

func (p *PaperGateway) Bars(symbol string, _ time.Duration, count int) []types.Bar {
	p.mu.RLock()
	defer p.mu.RUnlock()
	bars := p.series[symbol]
	if len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return append([]types.Bar(nil), bars...)
}

func (p *PaperGateway) Quote(symbol string) (types.Quote, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	bars := p.series[symbol]
	if len(bars) == 0 {
		return types.Quote{}, false
	}
	mid := bars[len(bars)-1].Close
	half := p.spread / 2
	return types.Quote{Bid: mid - half, Ask: mid + half}, true
}

func (p *PaperGateway) OpenPositions() []types.Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.Position(nil), p.positions...)
}

// ClosedPositions reports trades the simulator closed on a stop or target.
func (p *PaperGateway) ClosedPositions() []types.Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.Position(nil), p.closed...)
}

func (p *PaperGateway) Submit(req types.OrderRequest) types.OrderResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return types.OrderResult{Reason: ReasonNoSession}
	}
	if req.Volume <= 0 {
		return types.OrderResult{Reason: ReasonBadVolume}
	}
	pos := types.Position{
		Ticket:     p.nextTicket,
		Symbol:     req.Symbol,
		Side:       req.Side,
		Volume:     req.Volume,
		OpenPrice:  req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	}
	p.nextTicket++
	p.positions = append(p.positions, pos)
	return types.OrderResult{Accepted: true}
}

func (p *PaperGateway) ModifyStopLoss(ticket int64, newStop float64) types.OrderResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return types.OrderResult{Reason: ReasonNoSession}
	}
	for i := range p.positions {
		if p.positions[i].Ticket == ticket {
			p.positions[i].StopLoss = newStop
			return types.OrderResult{Accepted: true}
		}
	}
	return types.OrderResult{Reason: ReasonUnknownTicket}
}
