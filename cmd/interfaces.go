package cmd

import (
	"context"
	"io"

	"github.com/anicoll/as3935-integration/internal/pkg/jsondoc"
	"github.com/anicoll/as3935-integration/internal/pkg/model"
	"github.com/anicoll/as3935-integration/internal/pkg/registers"
)

// DeviceClient is what the commands need from device.Client.
type DeviceClient interface {
	SaveRegisters(ctx context.Context, regs registers.Map) (*model.SaveResult, error)
	SavePins(ctx context.Context, pins model.Pins) (*model.SaveResult, error)
	SaveMQTT(ctx context.Context, settings model.MQTTSettings) (*model.SaveResult, error)
	Status(ctx context.Context) (jsondoc.Object, error)
	PinsStatus(ctx context.Context) (jsondoc.Object, error)
	EventStream(ctx context.Context) (io.ReadCloser, error)
}

// Subscriber is the broker side of the subscribe command.
type Subscriber interface {
	Connect() error
	Subscribe(topic string, qos byte, fn func(model.Event)) error
	Disconnect()
}

// streamFunc delivers events to fn until ctx is cancelled or the source ends.
type streamFunc func(ctx context.Context, fn func(model.Event)) error
