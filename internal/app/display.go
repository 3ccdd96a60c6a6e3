package app

import (
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/weather_logger/internal/config"
	"github.com/relabs-tech/weather_logger/internal/wx"
)

// RunDisplay renders the latest sample on an SSD1306 OLED: outdoor
// temperature and humidity, wind, gust, and barometer.
func RunDisplay() error {
	cfg := config.Get()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.MQTTBroker == "" {
		return fmt.Errorf("mqtt_broker is not configured")
	}

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}

	// Show splash screen
	if err := showSplash(dev); err != nil {
		logger.Warnw("splash error", "error", err)
	}

	var (
		mu   sync.RWMutex
		last wx.Sample
		have bool
	)

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID("weather-display")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	logger.Infow("connected to MQTT broker", "broker", cfg.MQTTBroker)

	token := client.Subscribe(cfg.MQTTTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var smp wx.Sample
		if err := json.Unmarshal(msg.Payload(), &smp); err != nil {
			logger.Warnw("sample unmarshal error", "error", err)
			return
		}
		mu.Lock()
		last = smp
		have = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	logger.Infow("subscribed", "topic", cfg.MQTTTopic)

	// Display update loop
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		mu.RLock()
		smp, ok := last, have
		mu.RUnlock()

		if err := updateWeatherDisplay(dev, smp, ok); err != nil {
			logger.Warnw("display update error", "error", err)
		}
	}

	return nil
}

func updateWeatherDisplay(dev *ssd1306.Dev, smp wx.Sample, haveData bool) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Weather"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("Out %sF %s%%", measText(smp.TempOut), measText(smp.HumOut))))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("Wind %d @ %d", smp.Wind.Speed, smp.Wind.Direction)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("Gust %d mph", smp.WindGust.Speed)))

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("Baro %s in", measText(smp.Barometer))))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Weather Pi"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Waiting for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("samples"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
