package gateway

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"patternbot/types"
)

// RandomWalk generates a synthetic bar stream for the paper simulator.
// Deterministic for a given symbol and seed.
type RandomWalk struct {
	rng  *rand.Rand
	last float64
	step float64
}

// NewRandomWalk starts a walk at price start with per-bar moves on the order
// of step.
func NewRandomWalk(symbol string, seed int64, start, step float64) *RandomWalk {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return &RandomWalk{
		rng:  rand.New(rand.NewSource(seed ^ int64(h.Sum64()))),
		last: start,
		step: step,
	}
}

// Next produces the following bar of the walk.
func (w *RandomWalk) Next(t time.Time) types.Bar {
	open := w.last
	close := open + (w.rng.Float64()-0.5)*2*w.step
	high := maxf(open, close) + w.rng.Float64()*w.step*0.5
	low := minf(open, close) - w.rng.Float64()*w.step*0.5
	w.last = close
	return types.Bar{
		Time:   t,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 500 + w.rng.Float64()*1000,
	}
}

// History pre-fills n bars ending just before now, spaced by timeframe.
func (w *RandomWalk) History(n int, now time.Time, timeframe time.Duration) []types.Bar {
	bars := make([]types.Bar, 0, n)
	t := now.Add(-time.Duration(n) * timeframe)
	for i := 0; i < n; i++ {
		bars = append(bars, w.Next(t))
		t = t.Add(timeframe)
	}
	return bars
}

// RunFeed pushes one fresh bar per symbol into the simulator every timeframe
// until the context ends. Used by the paper binary; tests drive Advance
// directly.
func RunFeed(ctx context.Context, gw *PaperGateway, walks map[string]*RandomWalk, timeframe time.Duration) {
	ticker := time.NewTicker(timeframe)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for sym, walk := range walks {
				gw.Advance(sym, walk.Next(now))
			}
		}
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
