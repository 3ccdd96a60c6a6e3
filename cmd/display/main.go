package main

import (
	"log"

	"github.com/relabs-tech/weather_logger/internal/app"
	"github.com/relabs-tech/weather_logger/internal/config"
)

func main() {
	log.Println("starting weather-logger OLED display (MQTT subscriber)")

	if err := config.InitGlobal("weather_config.toml"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
