package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Cycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "patternbot_cycles_total",
			Help: "Completed scan/manage cycles.",
		},
	)

	Signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patternbot_signals_total",
			Help: "Signals detected (by strategy and side).",
		},
		[]string{"strategy", "side"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patternbot_orders_total",
			Help: "Order submissions (by side and outcome).",
		},
		[]string{"side", "outcome"},
	)

	StopModifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patternbot_stop_modifications_total",
			Help: "Stop-loss ratchet requests (by outcome).",
		},
		[]string{"outcome"},
	)

	PositionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "patternbot_positions_open",
			Help: "Open positions at the last cycle boundary.",
		},
	)
)

func init() {
	prometheus.MustRegister(Cycles, Signals, Orders, StopModifications, PositionsOpen)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
