package engine

import (
	"context"
	"errors"
	"testing"

	"patternbot/config"
	"patternbot/testutils"
	"patternbot/types"
)

// stubMatcher always reports the same signal, so tests control exactly when
// the engine thinks it has found something.
type stubMatcher struct{ sig types.Signal }

func (s stubMatcher) Name() string                      { return "stub" }
func (s stubMatcher) Detect(_ []types.Bar) types.Signal { return s.sig }

// vetoAll is a Confirmer that blocks everything.
type vetoAll struct{}

func (vetoAll) Confirm(_ []types.Bar, _ types.Signal) bool { return false }

func testConfig(symbols ...string) config.Config {
	cfg := config.Default()
	cfg.Symbols = symbols
	cfg.ATRPeriod = 3
	cfg.BarWindow = 50
	cfg.PollIntervalSecs = 1
	return cfg
}

// rampBars yields n bars with a steady unit range so ATR(3) is defined.
func rampBars(n int, start float64) []types.Bar {
	bars := make([]types.Bar, n)
	for i := range bars {
		p := start + float64(i)*0.1
		bars[i] = types.Bar{Open: p, High: p + 1, Low: p, Close: p + 0.5}
	}
	return bars
}

func newEngine(t *testing.T, cfg config.Config, gw *testutils.MockGateway, sig types.Signal) (*Engine, *testutils.MockLogger) {
	t.Helper()
	log := testutils.NewMockLogger()
	e, err := New(cfg, gw, stubMatcher{sig: sig}, nil, log)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e, log
}

/*
-----------------------------------------------------------------------
Cap already full at scan start → no instrument is even fetched, but the
manage phase still runs over the open positions.
-----------------------------------------------------------------------
*/
func TestCycle_ScanSkippedAtCap(t *testing.T) {
	gw := testutils.NewMockGateway()
	gw.AddPosition(types.Position{Symbol: "GBPUSD", Side: types.Buy, Volume: 0.1, OpenPrice: 100, StopLoss: 96})
	gw.AddPosition(types.Position{Symbol: "XAUUSD", Side: types.Buy, Volume: 0.1, OpenPrice: 200, StopLoss: 196})
	// Price far beyond the 1.5× trigger so the manage phase has work to do.
	gw.SetQuote("GBPUSD", types.Quote{Bid: 110, Ask: 110.1})
	gw.SetQuote("XAUUSD", types.Quote{Bid: 210, Ask: 210.1})

	cfg := testConfig("GBPUSD", "XAUUSD", "EURJPY")
	e, _ := newEngine(t, cfg, gw, types.SignalBuy)
	e.Cycle()

	if got := gw.BarsRequests(); len(got) != 0 {
		t.Fatalf("scan ran at cap: bars fetched for %v", got)
	}
	if got := gw.Submitted(); len(got) != 0 {
		t.Fatalf("order submitted at cap: %+v", got)
	}
	if got := gw.Modifications(); len(got) != 2 {
		t.Fatalf("manage phase should still run at cap, got %d modifications", len(got))
	}
}

/*
-----------------------------------------------------------------------
End-to-end short-circuit: cap 2, three symbols all signalling Buy.
Exactly two orders go out and the third symbol is never fetched — the
cap re-check fires after the second submission, not before the third's
evaluation would have begun.
-----------------------------------------------------------------------
*/
func TestCycle_ScanShortCircuitsMidScan(t *testing.T) {
	gw := testutils.NewMockGateway()
	for _, sym := range []string{"GBPUSD", "XAUUSD", "EURJPY"} {
		gw.SetBars(sym, rampBars(20, 100))
		gw.SetQuote(sym, types.Quote{Bid: 101.9, Ask: 102})
	}

	cfg := testConfig("GBPUSD", "XAUUSD", "EURJPY")
	e, _ := newEngine(t, cfg, gw, types.SignalBuy)
	e.Cycle()

	sub := gw.Submitted()
	if len(sub) != 2 {
		t.Fatalf("expected exactly 2 orders, got %d", len(sub))
	}
	if sub[0].Symbol != "GBPUSD" || sub[1].Symbol != "XAUUSD" {
		t.Fatalf("orders out of configured scan order: %+v", sub)
	}
	if reqs := gw.BarsRequests(); len(reqs) != 2 {
		t.Fatalf("third symbol should not be fetched after the cap fills, got %v", reqs)
	}
}

// Empty bar windows are skipped for the cycle, not fatal; later symbols are
// still evaluated.
func TestCycle_DataUnavailableSkipsSymbol(t *testing.T) {
	gw := testutils.NewMockGateway()
	// GBPUSD has no data this cycle; XAUUSD is healthy.
	gw.SetBars("XAUUSD", rampBars(20, 200))
	gw.SetQuote("XAUUSD", types.Quote{Bid: 201.9, Ask: 202})

	cfg := testConfig("GBPUSD", "XAUUSD")
	cfg.MaxConcurrentTrades = 1
	e, _ := newEngine(t, cfg, gw, types.SignalBuy)
	e.Cycle()

	sub := gw.Submitted()
	if len(sub) != 1 || sub[0].Symbol != "XAUUSD" {
		t.Fatalf("expected one order for XAUUSD, got %+v", sub)
	}
	if reqs := gw.BarsRequests(); len(reqs) != 2 {
		t.Fatalf("both symbols should be fetched, got %v", reqs)
	}
}

// A rejected submission does not open a position, so the scan goes on and
// the next cycle retries naturally.
func TestCycle_RejectedOrderKeepsScanning(t *testing.T) {
	gw := testutils.NewMockGateway()
	gw.RejectSubmits = true
	for _, sym := range []string{"GBPUSD", "XAUUSD"} {
		gw.SetBars(sym, rampBars(20, 100))
		gw.SetQuote(sym, types.Quote{Bid: 101.9, Ask: 102})
	}

	cfg := testConfig("GBPUSD", "XAUUSD")
	cfg.MaxConcurrentTrades = 1
	e, log := newEngine(t, cfg, gw, types.SignalBuy)
	e.Cycle()

	if got := gw.Submitted(); len(got) != 2 {
		t.Fatalf("both symbols should be attempted after a rejection, got %d", len(got))
	}
	if len(gw.OpenPositions()) != 0 {
		t.Fatal("rejected orders must not open positions")
	}
	if !log.Has("order_rejected") {
		t.Fatal("rejection should be logged")
	}

	e.Cycle()
	if got := gw.Submitted(); len(got) != 4 {
		t.Fatalf("next cycle is the retry mechanism, got %d attempts total", len(got))
	}
}

// The trend filter hook can veto a matcher signal before it becomes an order.
func TestCycle_ConfirmerVeto(t *testing.T) {
	gw := testutils.NewMockGateway()
	gw.SetBars("GBPUSD", rampBars(20, 100))
	gw.SetQuote("GBPUSD", types.Quote{Bid: 101.9, Ask: 102})

	log := testutils.NewMockLogger()
	e, err := New(testConfig("GBPUSD"), gw, stubMatcher{sig: types.SignalBuy}, vetoAll{}, log)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	e.Cycle()

	if got := gw.Submitted(); len(got) != 0 {
		t.Fatalf("vetoed signal reached the gateway: %+v", got)
	}
	if !log.Has("signal_vetoed") {
		t.Fatal("veto should be logged")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig() // empty symbol list
	if _, err := New(cfg, testutils.NewMockGateway(), stubMatcher{}, nil, testutils.NewMockLogger()); err == nil {
		t.Fatal("expected an error for invalid config")
	}
}

// Session failure at startup is fatal: the loop never begins and nothing is
// released because nothing was acquired.
func TestRun_SessionFailureIsFatal(t *testing.T) {
	gw := testutils.NewMockGateway()
	gw.OpenErr = errors.New("login refused")

	e, _ := newEngine(t, testConfig("GBPUSD"), gw, types.NoSignal)
	if err := e.Run(context.Background()); err == nil {
		t.Fatal("expected Run to fail on session failure")
	}
	if gw.Closed() != 0 {
		t.Fatal("Close should not run when Open failed")
	}
	if len(gw.BarsRequests()) != 0 {
		t.Fatal("no cycle should run after a failed session open")
	}
}

// An external stop request ends the loop gracefully and releases the session.
func TestRun_GracefulStop(t *testing.T) {
	gw := testutils.NewMockGateway()
	gw.SetBars("GBPUSD", rampBars(20, 100))
	gw.SetQuote("GBPUSD", types.Quote{Bid: 101.9, Ask: 102})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // stop after the first cycle

	e, log := newEngine(t, testConfig("GBPUSD"), gw, types.NoSignal)
	if err := e.Run(ctx); err != nil {
		t.Fatalf("graceful stop should not error: %v", err)
	}
	if gw.Closed() != 1 {
		t.Fatalf("session should be released exactly once, got %d", gw.Closed())
	}
	if len(gw.BarsRequests()) != 1 {
		t.Fatalf("exactly one cycle should have run, fetched %v", gw.BarsRequests())
	}
	if !log.Has("engine_stopped") {
		t.Fatal("shutdown should be logged")
	}
}
