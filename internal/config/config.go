package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Station
	Device   string `mapstructure:"device"`    // serial device, bare name or absolute path
	Interval int    `mapstructure:"interval"`  // seconds between samples
	LogDir   string `mapstructure:"log_dir"`   // CSV directory, empty disables the CSV log
	LogLevel string `mapstructure:"log_level"` // zap level: debug, info, warn, error

	// MQTT
	MQTTBroker string `mapstructure:"mqtt_broker"` // empty disables publishing
	MQTTTopic  string `mapstructure:"mqtt_topic"`

	// Web dashboard
	HTTPAddr  string `mapstructure:"http_addr"`
	StaticDir string `mapstructure:"static_dir"`

	// OLED display
	I2CBus string `mapstructure:"i2c_bus"` // empty means the first available bus

	// Weather Underground
	WundergroundStation  string `mapstructure:"wunderground_station"`
	WundergroundPassword string `mapstructure:"wunderground_password"`

	// PWS Weather
	PWSWeatherStation  string `mapstructure:"pwsweather_station"`
	PWSWeatherPassword string `mapstructure:"pwsweather_password"`

	// CWOP
	CWOPServer   string `mapstructure:"cwop_server"`
	CWOPUser     string `mapstructure:"cwop_user"`
	CWOPLocation string `mapstructure:"cwop_location"` // APRS position block, e.g. 4903.50N/07201.75W
}

// Package-level unexported variables for the singleton pattern:
//   - globalConfig: unexported so other packages cannot modify it without
//     going through InitGlobal.
//   - configOnce: ensures InitGlobal() only runs once, even if called
//     multiple times.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the TOML config file at path, applies WEATHER_* environment
// overrides, and returns the validated result. A missing file is not an
// error; defaults and the environment still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("weather")
	v.AutomaticEnv()

	v.SetDefault("device", "")
	v.SetDefault("interval", 30)
	v.SetDefault("log_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("mqtt_broker", "")
	v.SetDefault("mqtt_topic", "weather/sample")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("static_dir", "web")
	v.SetDefault("i2c_bus", "")
	v.SetDefault("wunderground_station", "")
	v.SetDefault("wunderground_password", "")
	v.SetDefault("pwsweather_station", "")
	v.SetDefault("pwsweather_password", "")
	v.SetDefault("cwop_server", "cwop.aprs.net:14580")
	v.SetDefault("cwop_user", "")
	v.SetDefault("cwop_location", "")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the fields every binary depends on. Per-binary
// requirements, like the serial device for the acquisition daemon, are
// checked where they are used.
func (c *Config) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", c.Interval)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
