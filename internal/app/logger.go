// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/config"
	"github.com/relabs-tech/weather_logger/internal/csvlog"
	"github.com/relabs-tech/weather_logger/internal/davis"
	"github.com/relabs-tech/weather_logger/internal/relay"
	"github.com/relabs-tech/weather_logger/internal/wx"
)

// RunLogger opens the weather console, identifies it, and then takes one
// sample per configured interval, handing each to the CSV log and every
// enabled relay. Cycles run strictly one after another; a cycle that
// overruns its interval just swallows the missed tick. A failed cycle
// still produces a row so gaps stay visible in the record.
func RunLogger() error {
	cfg := config.Get()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Device == "" {
		return fmt.Errorf("no station device configured (set device or WEATHER_DEVICE)")
	}

	// ---- 1) Open and identify the station ----
	conn, err := davis.Open(cfg.Device, logger.Named("davis"))
	if err != nil {
		return err
	}
	defer conn.Close()

	station := davis.NewStation(conn, logger.Named("davis"))
	model, err := station.Identify()
	if err != nil {
		return fmt.Errorf("identify station: %w", err)
	}
	if model != davis.ModelVantagePro {
		return fmt.Errorf("%w: %s (0x%02x)", davis.ErrUnsupportedStation, davis.ModelName(model), model)
	}
	logger.Infow("station identified", "model", davis.ModelName(model), "device", cfg.Device)

	// ---- 2) Gust window and sample consumers ----
	window, err := wx.NewGustWindow(cfg.Interval)
	if err != nil {
		return err
	}

	var csv *csvlog.Writer
	if cfg.LogDir != "" {
		csv = csvlog.New(cfg.LogDir)
		logger.Infow("csv log enabled", "dir", cfg.LogDir)
	}

	relays, err := relay.FromConfig(cfg, logger.Named("relay"))
	if err != nil {
		return err
	}
	for _, r := range relays {
		logger.Infow("relay enabled", "relay", r.Name())
	}

	// ---- 3) Acquisition loop, one cycle per tick ----
	ticker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	logger.Infow("acquisition started", "interval_s", cfg.Interval)
	for {
		sample, err := station.TakeSample(window)
		if err != nil {
			logger.Warnw("acquisition cycle failed", "error", err)
		}

		if csv != nil {
			if err := csv.Append(sample); err != nil {
				logger.Errorw("csv append failed", "error", err)
			}
		}
		for _, r := range relays {
			if err := r.Send(sample); err != nil {
				logger.Warnw("relay send failed", "relay", r.Name(), "error", err)
			}
		}

		select {
		case <-ticker.C:
		case <-sigCh:
			logger.Infow("shutting down")
			return nil
		}
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) (*zap.SugaredLogger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log_level %q: %w", level, err)
		}
		zcfg.Level = lvl
	}
	z, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}
