package app

import (
	"fmt"

	"github.com/relabs-tech/weather_logger/internal/config"
	"github.com/relabs-tech/weather_logger/internal/davis"
)

// RunIdent is a one-shot diagnostic: wake the console, ask what kind of
// station is attached, and report it. Anything but a Vantage Pro/Pro2 is
// an error so scripts can gate on the exit code.
func RunIdent() error {
	cfg := config.Get()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Device == "" {
		return fmt.Errorf("no station device configured (set device or WEATHER_DEVICE)")
	}

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

	fmt.Printf("station type 0x%02x: %s\n", model, davis.ModelName(model))
	if model != davis.ModelVantagePro {
		return fmt.Errorf("%w: %s", davis.ErrUnsupportedStation, davis.ModelName(model))
	}
	return nil
}
