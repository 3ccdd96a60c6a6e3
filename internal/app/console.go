package app

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/weather_logger/internal/config"
	"github.com/relabs-tech/weather_logger/internal/wx"
)

// RunConsole subscribes to the sample topic and prints one line per
// sample until interrupted.
func RunConsole() error {
	cfg := config.Get()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.MQTTBroker == "" {
		return fmt.Errorf("mqtt_broker is not configured")
	}

	// Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID("weather-console")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	logger.Infow("connected to MQTT broker", "broker", cfg.MQTTBroker)

	token := client.Subscribe(cfg.MQTTTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var smp wx.Sample
		if err := json.Unmarshal(msg.Payload(), &smp); err != nil {
			logger.Warnw("sample unmarshal error", "error", err)
			return
		}
		fmt.Printf("[WX] %s  out=%sF hum=%s%%  wind=%d mph @ %d  gust=%d  baro=%s in  rain=%s in/hr\n",
			smp.Time.Format("15:04:05"),
			measText(smp.TempOut), measText(smp.HumOut),
			smp.Wind.Speed, smp.Wind.Direction, smp.WindGust.Speed,
			measText(smp.Barometer), measText(smp.RainRate))
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	logger.Infow("subscribed", "topic", cfg.MQTTTopic)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Infow("shutting down")
	return nil
}

// measText renders a measurement for human output, "-" when invalid.
func measText(m wx.Measurement) string {
	if !m.Valid {
		return "-"
	}
	return m.Text()
}
