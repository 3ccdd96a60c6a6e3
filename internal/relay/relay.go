// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package relay pushes finished samples to the outside world: MQTT for
// local consumers, and the public weather networks over HTTP and APRS.
// Relays are best-effort; a failed send is reported and the sample is
// gone, there is no queueing or retry.
package relay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/config"
	"github.com/relabs-tech/weather_logger/internal/wx"
)

// What the uplinks report as the station software.
const (
	softwareName    = "wxlog"
	softwareVersion = "1.0"
)

// Relay delivers one sample to one destination.
type Relay interface {
	Name() string
	Send(smp *wx.Sample) error
}

// FromConfig builds every relay the configuration enables. A relay is
// enabled by the presence of its credentials; nothing is implicit.
func FromConfig(cfg *config.Config, log *zap.SugaredLogger) ([]Relay, error) {
	var relays []Relay

	if cfg.MQTTBroker != "" {
		m, err := NewMQTT(cfg.MQTTBroker, cfg.MQTTTopic, log)
		if err != nil {
			return nil, fmt.Errorf("mqtt relay: %w", err)
		}
		relays = append(relays, m)
	}
	if cfg.WundergroundStation != "" && cfg.WundergroundPassword != "" {
		relays = append(relays, NewWunderground(cfg.WundergroundStation, cfg.WundergroundPassword, cfg.Interval, log))
	}
	if cfg.PWSWeatherStation != "" && cfg.PWSWeatherPassword != "" {
		relays = append(relays, NewPWSWeather(cfg.PWSWeatherStation, cfg.PWSWeatherPassword, log))
	}
	if cfg.CWOPServer != "" && cfg.CWOPUser != "" && cfg.CWOPLocation != "" {
		relays = append(relays, NewCWOP(cfg.CWOPServer, cfg.CWOPUser, cfg.CWOPLocation, log))
	}

	return relays, nil
}
