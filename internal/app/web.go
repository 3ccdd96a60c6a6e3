package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/weather_logger/internal/config"
	"github.com/relabs-tech/weather_logger/internal/wx"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is served on the local network
	},
}

// RunWeb subscribes to the sample topic and serves the dashboard: the
// latest sample as JSON, a websocket that pushes every new sample, and
// the static files.
func RunWeb() error {
	cfg := config.Get()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.MQTTBroker == "" {
		return fmt.Errorf("mqtt_broker is not configured")
	}

	var (
		mu         sync.RWMutex
		lastSample wx.Sample
		haveSample bool
		clients    = map[*websocket.Conn]bool{}
	)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID("weather-web")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	logger.Infow("connected to MQTT broker", "broker", cfg.MQTTBroker)

	// 2) Track the latest sample and fan it out to websocket clients
	token := client.Subscribe(cfg.MQTTTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var smp wx.Sample
		if err := json.Unmarshal(msg.Payload(), &smp); err != nil {
			logger.Warnw("sample unmarshal error", "error", err)
			return
		}
		mu.Lock()
		lastSample = smp
		haveSample = true
		for c := range clients {
			if err := c.WriteJSON(smp); err != nil {
				c.Close()
				delete(clients, c)
			}
		}
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	logger.Infow("subscribed", "topic", cfg.MQTTTopic)

	// 3) JSON API endpoint: latest sample
	http.HandleFunc("/api/current", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			logger.Warnw("json encode error", "error", err)
		}
	})

	// 4) Websocket: push each new sample as it arrives
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warnw("websocket upgrade error", "error", err)
			return
		}

		mu.Lock()
		clients[conn] = true
		if haveSample {
			if err := conn.WriteJSON(lastSample); err != nil {
				logger.Warnw("websocket write error", "error", err)
			}
		}
		mu.Unlock()

		// Reads only detect the client going away.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					mu.Lock()
					delete(clients, conn)
					mu.Unlock()
					conn.Close()
					return
				}
			}
		}()
	})

	// 5) Static files as the root
	http.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	logger.Infow("web server listening", "addr", cfg.HTTPAddr)
	return http.ListenAndServe(cfg.HTTPAddr, nil)
}
