// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/relabs-tech/weather_logger/internal/app"
	"github.com/relabs-tech/weather_logger/internal/config"
)

func main() {
	log.Println("starting weather-logger acquisition daemon")

	// Load configuration
	if err := config.InitGlobal("weather_config.toml"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunLogger(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
