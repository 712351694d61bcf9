// Package config exposes the strongly typed runtime configuration, loaded
// from YAML and immutable for the lifetime of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config collects every tunable the engine needs at startup.
type Config struct {
	// Instrument basket, scanned in this exact order each cycle.
	Symbols []string `yaml:"symbols"`

	// Bar timeframe and how many bars make up the rolling window.
	TimeframeMinutes int `yaml:"timeframe_minutes"`
	BarWindow        int `yaml:"bar_window"`

	// Volatility / risk knobs.
	ATRPeriod int     `yaml:"atr_period"`
	LotSize   float64 `yaml:"lot_size"`

	// Concurrent-position cap; no new order is submitted at or above it.
	MaxConcurrentTrades int `yaml:"max_concurrent_trades"`

	// Strategy selection. Empty means "prompt at startup".
	Strategy    string  `yaml:"strategy"`
	Tolerance   float64 `yaml:"tolerance"`
	TrendFilter bool    `yaml:"trend_filter"`

	PollIntervalSecs int `yaml:"poll_interval_secs"`

	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the stock settings: the usual FX/metals basket, M15 bars,
// ATR(14), 0.1 lots, two concurrent trades, the loose 0.618 tolerance and a
// 60 s poll.
func Default() Config {
	return Config{
		Symbols: []string{
			"USDJPYm", "AUDUSDm", "NZDUSDm", "CADJPY",
			"CHFJPY", "EURJPY", "GBPUSD", "XAUUSD",
		},
		TimeframeMinutes:    15,
		BarWindow:           100,
		ATRPeriod:           14,
		LotSize:             0.1,
		MaxConcurrentTrades: 2,
		Tolerance:           0.618,
		PollIntervalSecs:    60,
		MetricsAddr:         ":9100",
		LogLevel:            "info",
	}
}

// Load reads a YAML file over the defaults, so a file only needs to name the
// fields it changes.
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

// Validate returns the first configuration problem, letting the caller
// surface it before any trading starts.
func (c Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("symbol list cannot be empty")
	}
	for _, s := range c.Symbols {
		if s == "" {
			return errors.New("symbol list contains an empty entry")
		}
	}
	if c.TimeframeMinutes <= 0 {
		return fmt.Errorf("timeframe_minutes (%d) must be positive", c.TimeframeMinutes)
	}
	if c.ATRPeriod < 2 {
		return fmt.Errorf("atr_period (%d) must be at least 2", c.ATRPeriod)
	}
	if c.BarWindow < c.ATRPeriod+1 {
		return fmt.Errorf("bar_window (%d) must exceed atr_period (%d)", c.BarWindow, c.ATRPeriod)
	}
	if c.LotSize <= 0 {
		return fmt.Errorf("lot_size (%f) must be positive", c.LotSize)
	}
	if c.MaxConcurrentTrades < 1 {
		return fmt.Errorf("max_concurrent_trades (%d) must be at least 1", c.MaxConcurrentTrades)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance (%f) must be positive", c.Tolerance)
	}
	if c.PollIntervalSecs <= 0 {
		return fmt.Errorf("poll_interval_secs (%d) must be positive", c.PollIntervalSecs)
	}
	return nil
}

// Timeframe is the duration of one bar.
func (c Config) Timeframe() time.Duration {
	return time.Duration(c.TimeframeMinutes) * time.Minute
}

// PollInterval is the sleep between cycles.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecs) * time.Second
}
