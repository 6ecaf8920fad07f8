package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/anicoll/as3935-integration/internal/pkg/model"
)

const (
	connectTimeout    = 5 * time.Second
	subscribeTimeout  = 5 * time.Second
	disconnectQuiesce = 250 // milliseconds
)

var (
	ErrConnectTimeout   = errors.New("mqtt: unable to connect in time")
	ErrSubscribeTimeout = errors.New("mqtt: subscribe not acknowledged in time")
	ErrInvalidQoS       = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")
)

type service struct {
	client paho_mqtt.Client
	logger *zap.Logger
}

func New(client paho_mqtt.Client) *service {
	return &service{
		client: client,
		logger: zap.L(),
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return ErrConnectTimeout
	}
	return token.Error()
}

// Subscribe forwards every message on topic to fn as a model.Event.
func (s *service) Subscribe(topic string, qos byte, fn func(model.Event)) error {
	if qos > 2 {
		return ErrInvalidQoS
	}
	token := s.client.Subscribe(topic, qos, func(_ paho_mqtt.Client, msg paho_mqtt.Message) {
		payload := make([]byte, len(msg.Payload()))
		copy(payload, msg.Payload())
		s.logger.Debug("received message", zap.String("topic", msg.Topic()), zap.Int("bytes", len(payload)))
		fn(model.Event{
			Source:   model.SourceMQTT,
			Topic:    msg.Topic(),
			Payload:  payload,
			Received: time.Now(),
		})
	})
	if !token.WaitTimeout(subscribeTimeout) {
		return ErrSubscribeTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	s.logger.Info("subscribed", zap.String("topic", topic), zap.Uint8("qos", qos))
	return nil
}

func (s *service) Disconnect() {
	s.client.Disconnect(disconnectQuiesce)
}
