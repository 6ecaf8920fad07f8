package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
	Device   *DeviceConfig
	MQTT     *MQTTConfig
}

type DeviceConfig struct {
	URL            string        `env:"DEVICE_URL"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
	StatusSchedule string        `env:"STATUS_SCHEDULE"`
}

type MQTTConfig struct {
	BrokerURI          string        `env:"BROKER_URI"`
	Topic              string        `env:"MQTT_TOPIC" envDefault:"as3935/lightning"`
	Username           string        `env:"MQTT_USER"`
	Password           string        `env:"MQTT_PASS"`
	ClientID           string        `env:"MQTT_CLIENT_ID"`
	QoS                byte          `env:"MQTT_QOS" envDefault:"0"`
	KeepAlive          time.Duration `env:"MQTT_KEEPALIVE" envDefault:"60s"`
	CACertFile         string        `env:"MQTT_CA_CERT"`
	InsecureSkipVerify bool          `env:"MQTT_INSECURE"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Device: &DeviceConfig{},
		MQTT:   &MQTTConfig{},
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
