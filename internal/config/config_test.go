package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather_config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
device = "cuau0"
interval = 60
log_dir = "/var/log/wx"
mqtt_broker = "tcp://localhost:1883"
wunderground_station = "KCODENVE1"
wunderground_password = "secret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cuau0", cfg.Device)
	assert.Equal(t, 60, cfg.Interval)
	assert.Equal(t, "/var/log/wx", cfg.LogDir)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "KCODENVE1", cfg.WundergroundStation)
	assert.Equal(t, "secret", cfg.WundergroundPassword)

	// Defaults fill whatever the file leaves out.
	assert.Equal(t, "weather/sample", cfg.MQTTTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "web", cfg.StaticDir)
	assert.Equal(t, "cwop.aprs.net:14580", cfg.CWOPServer)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFileUsesDefaultsAndEnvironment(t *testing.T) {
	t.Setenv("WEATHER_DEVICE", "ttyU0")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "ttyU0", cfg.Device)
	assert.Equal(t, 30, cfg.Interval)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `device = "cuau0"`)
	t.Setenv("WEATHER_DEVICE", "ttyU1")
	t.Setenv("WEATHER_MQTT_BROKER", "tcp://pi:1883")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ttyU1", cfg.Device)
	assert.Equal(t, "tcp://pi:1883", cfg.MQTTBroker)
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	_, err := Load(writeConfig(t, "interval = 0"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "interval = -5"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "interval = ["))
	assert.Error(t, err)
}
