package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/anicoll/as3935-integration/internal/pkg/config"
	"github.com/anicoll/as3935-integration/internal/pkg/transport"
	"github.com/anicoll/as3935-integration/pkg/clientid"
)

const (
	clientIDPrefix   = "as3935_sub"
	maxReconnectWait = 60 * time.Second
	tlsMinVersion    = tls.VersionTLS12
)

// NewClient builds a paho client for the broker described by d.
func NewClient(d transport.Descriptor, cfg *config.MQTTConfig) (paho_mqtt.Client, error) {
	opts, err := buildClientOptions(d, cfg)
	if err != nil {
		return nil, err
	}
	return paho_mqtt.NewClient(opts), nil
}

func buildClientOptions(d transport.Descriptor, cfg *config.MQTTConfig) (*paho_mqtt.ClientOptions, error) {
	opts := paho_mqtt.NewClientOptions()
	opts.AddBroker(d.BrokerURL())

	id := cfg.ClientID
	if id == "" {
		var err error
		if id, err = clientid.New(clientIDPrefix); err != nil {
			return nil, err
		}
	}
	opts.SetClientID(id)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(maxReconnectWait)
	opts.SetConnectTimeout(connectTimeout)
	if cfg.KeepAlive > 0 {
		opts.SetKeepAlive(cfg.KeepAlive)
	}

	if d.Secure {
		tlsCfg, err := buildTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

func buildTLSConfig(cfg *config.MQTTConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		MinVersion:         tlsMinVersion,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	if cfg.CACertFile == "" {
		return tlsCfg, nil
	}
	pem, err := os.ReadFile(cfg.CACertFile)
	if err != nil {
		return nil, fmt.Errorf("read ca cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("mqtt: no certificates found in " + cfg.CACertFile)
	}
	tlsCfg.RootCAs = pool
	return tlsCfg, nil
}
