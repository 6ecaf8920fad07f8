package mqtt

import (
	"errors"
	"testing"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/as3935-integration/internal/pkg/model"
)

type mockToken struct {
	complete bool
	err      error
}

func (t *mockToken) Wait() bool                     { return t.complete }
func (t *mockToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *mockToken) Error() error                   { return t.err }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.complete {
		close(ch)
	}
	return ch
}

// MockClient implements paho_mqtt.Client; methods without a Func panic.
type MockClient struct {
	paho_mqtt.Client
	ConnectFunc    func() paho_mqtt.Token
	SubscribeFunc  func(topic string, qos byte, callback paho_mqtt.MessageHandler) paho_mqtt.Token
	DisconnectFunc func(quiesce uint)
}

func (m *MockClient) Connect() paho_mqtt.Token { return m.ConnectFunc() }
func (m *MockClient) Subscribe(topic string, qos byte, callback paho_mqtt.MessageHandler) paho_mqtt.Token {
	return m.SubscribeFunc(topic, qos, callback)
}
func (m *MockClient) Disconnect(quiesce uint) { m.DisconnectFunc(quiesce) }

type mockMessage struct {
	paho_mqtt.Message
	topic   string
	payload []byte
}

func (m *mockMessage) Topic() string   { return m.topic }
func (m *mockMessage) Payload() []byte { return m.payload }

func TestService_Connect(t *testing.T) {
	tests := map[string]struct {
		token   *mockToken
		wantErr error
	}{
		"connected":   {token: &mockToken{complete: true}},
		"refused":     {token: &mockToken{complete: true, err: errors.New("not authorized")}, wantErr: errors.New("not authorized")},
		"never acked": {token: &mockToken{complete: false}, wantErr: ErrConnectTimeout},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := New(&MockClient{ConnectFunc: func() paho_mqtt.Token { return tt.token }})
			err := svc.Connect()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr.Error())
		})
	}
}

func TestService_Subscribe(t *testing.T) {
	var handler paho_mqtt.MessageHandler
	client := &MockClient{
		SubscribeFunc: func(topic string, qos byte, callback paho_mqtt.MessageHandler) paho_mqtt.Token {
			assert.Equal(t, "as3935/lightning", topic)
			assert.Equal(t, byte(1), qos)
			handler = callback
			return &mockToken{complete: true}
		},
	}

	var got []model.Event
	svc := New(client)
	require.NoError(t, svc.Subscribe("as3935/lightning", 1, func(ev model.Event) {
		got = append(got, ev)
	}))
	require.NotNil(t, handler)

	payload := []byte(`{"distance_km":12}`)
	handler(client, &mockMessage{topic: "as3935/lightning", payload: payload})
	payload[0] = 'X'

	require.Len(t, got, 1)
	assert.Equal(t, model.SourceMQTT, got[0].Source)
	assert.Equal(t, "as3935/lightning", got[0].Topic)
	assert.Equal(t, `{"distance_km":12}`, string(got[0].Payload))
	assert.False(t, got[0].Received.IsZero())
}

func TestService_SubscribeErrors(t *testing.T) {
	svc := New(&MockClient{})
	assert.ErrorIs(t, svc.Subscribe("t", 3, func(model.Event) {}), ErrInvalidQoS)

	svc = New(&MockClient{SubscribeFunc: func(string, byte, paho_mqtt.MessageHandler) paho_mqtt.Token {
		return &mockToken{complete: false}
	}})
	assert.ErrorIs(t, svc.Subscribe("t", 0, func(model.Event) {}), ErrSubscribeTimeout)

	svc = New(&MockClient{SubscribeFunc: func(string, byte, paho_mqtt.MessageHandler) paho_mqtt.Token {
		return &mockToken{complete: true, err: errors.New("denied")}
	}})
	assert.ErrorContains(t, svc.Subscribe("t", 0, func(model.Event) {}), "subscribe t: denied")
}

func TestService_Disconnect(t *testing.T) {
	var quiesce uint
	svc := New(&MockClient{DisconnectFunc: func(q uint) { quiesce = q }})
	svc.Disconnect()
	assert.Equal(t, uint(disconnectQuiesce), quiesce)
}
