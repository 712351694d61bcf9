// Binary patternbot runs the trading loop against the paper simulator with a
// synthetic price feed. Wire a real broker gateway here for live use.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"patternbot/config"
	"patternbot/engine"
	"patternbot/gateway"
	"patternbot/logger"
	"patternbot/metrics"
	"patternbot/strategy"
)

func main() {
	_ = godotenv.Load() // best-effort

	cfgPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	strategyMode := flag.String("strategy", "", "abcd or price_action (skips the prompt)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for the synthetic price feed")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *strategyMode != "" {
		cfg.Strategy = *strategyMode
	}
	if cfg.Strategy == "" {
		cfg.Strategy = promptStrategy(os.Stdin, os.Stdout)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	matcher, err := strategy.Build(cfg.Strategy, cfg.Tolerance)
	if err != nil {
		log.Fatalf("select strategy: %v", err)
	}
	var confirm strategy.Confirmer
	if cfg.TrendFilter {
		confirm = strategy.NewTrendFilter()
	}

	_ = metrics.Serve(cfg.MetricsAddr)
	lg.Info("metrics_up", logger.String("addr", cfg.MetricsAddr))

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Paper gateway with a pre-filled synthetic history per symbol; the feed
	// keeps pushing fresh bars while the engine trades.
	gw := gateway.NewPaperGateway(0.0002)
	walks := make(map[string]*gateway.RandomWalk, len(cfg.Symbols))
	now := time.Now()
	for _, sym := range cfg.Symbols {
		walk := gateway.NewRandomWalk(sym, *seed, 100, 0.5)
		gw.Seed(sym, walk.History(cfg.BarWindow, now, cfg.Timeframe()))
		walks[sym] = walk
	}
	go gateway.RunFeed(ctx, gw, walks, cfg.PollInterval())

	bot, err := engine.New(cfg, gw, matcher, confirm, lg)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	if err := bot.Run(ctx); err != nil {
		lg.Error("engine_failed", logger.Err(err))
		os.Exit(1)
	}
}

// promptStrategy asks the operator to pick a strategy once at startup,
// re-prompting until the answer is 1 or 2.
func promptStrategy(in io.Reader, out io.Writer) string {
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "TRADING BOT STRATEGY SELECTION")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "1. ABCD Harmonic Pattern Strategy")
	fmt.Fprintln(out, "2. Pure Price Action Strategy")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Please select strategy (1 or 2): ")
		if !scanner.Scan() {
			return "abcd"
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			return "abcd"
		case "2":
			return "price_action"
		}
		fmt.Fprintln(out, "Invalid selection. Please enter 1 or 2.")
	}
}
