package relay

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

// MQTT publishes every sample as retained JSON so late subscribers start
// with the most recent reading instead of waiting a full interval.
type MQTT struct {
	client mqtt.Client
	topic  string
	log    *zap.SugaredLogger
}

func NewMQTT(broker, topic string, log *zap.SugaredLogger) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("weather-logger").
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.Infow("connected to MQTT broker", "broker", broker)

	return &MQTT{client: client, topic: topic, log: log}, nil
}

func (m *MQTT) Name() string { return "mqtt" }

func (m *MQTT) Send(smp *wx.Sample) error {
	payload, err := json.Marshal(smp)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, 0, true, payload)
	token.Wait()
	return token.Error()
}
