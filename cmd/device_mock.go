package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/anicoll/as3935-integration/internal/pkg/jsondoc"
	"github.com/anicoll/as3935-integration/internal/pkg/model"
	"github.com/anicoll/as3935-integration/internal/pkg/registers"
)

// MockDeviceClient is a mock implementation of the DeviceClient interface.
type MockDeviceClient struct {
	SaveRegistersFunc func(ctx context.Context, regs registers.Map) (*model.SaveResult, error)
	SavePinsFunc      func(ctx context.Context, pins model.Pins) (*model.SaveResult, error)
	SaveMQTTFunc      func(ctx context.Context, settings model.MQTTSettings) (*model.SaveResult, error)
	StatusFunc        func(ctx context.Context) (jsondoc.Object, error)
	PinsStatusFunc    func(ctx context.Context) (jsondoc.Object, error)
	EventStreamFunc   func(ctx context.Context) (io.ReadCloser, error)
}

func (m *MockDeviceClient) SaveRegisters(ctx context.Context, regs registers.Map) (*model.SaveResult, error) {
	if m.SaveRegistersFunc != nil {
		return m.SaveRegistersFunc(ctx, regs)
	}
	return nil, errors.New("mocked SaveRegisters not implemented")
}

func (m *MockDeviceClient) SavePins(ctx context.Context, pins model.Pins) (*model.SaveResult, error) {
	if m.SavePinsFunc != nil {
		return m.SavePinsFunc(ctx, pins)
	}
	return nil, errors.New("mocked SavePins not implemented")
}

func (m *MockDeviceClient) SaveMQTT(ctx context.Context, settings model.MQTTSettings) (*model.SaveResult, error) {
	if m.SaveMQTTFunc != nil {
		return m.SaveMQTTFunc(ctx, settings)
	}
	return nil, errors.New("mocked SaveMQTT not implemented")
}

func (m *MockDeviceClient) Status(ctx context.Context) (jsondoc.Object, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return nil, errors.New("mocked Status not implemented")
}

func (m *MockDeviceClient) PinsStatus(ctx context.Context) (jsondoc.Object, error) {
	if m.PinsStatusFunc != nil {
		return m.PinsStatusFunc(ctx)
	}
	return nil, errors.New("mocked PinsStatus not implemented")
}

func (m *MockDeviceClient) EventStream(ctx context.Context) (io.ReadCloser, error) {
	if m.EventStreamFunc != nil {
		return m.EventStreamFunc(ctx)
	}
	return nil, errors.New("mocked EventStream not implemented")
}

// MockSubscriber is a mock implementation of the Subscriber interface.
type MockSubscriber struct {
	ConnectFunc    func() error
	SubscribeFunc  func(topic string, qos byte, fn func(model.Event)) error
	DisconnectFunc func()
}

func (m *MockSubscriber) Connect() error {
	if m.ConnectFunc != nil {
		return m.ConnectFunc()
	}
	return nil
}

func (m *MockSubscriber) Subscribe(topic string, qos byte, fn func(model.Event)) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(topic, qos, fn)
	}
	return nil
}

func (m *MockSubscriber) Disconnect() {
	if m.DisconnectFunc != nil {
		m.DisconnectFunc()
	}
}
