package events

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/as3935-integration/internal/pkg/jsondoc"
	"github.com/anicoll/as3935-integration/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("sink already registered")

type Sink interface {
	// Write hands a received event to the sink.
	Write(ctx context.Context, ev model.Event) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, ev model.Event) error

func (f SinkFunc) Write(ctx context.Context, ev model.Event) error {
	return f(ctx, ev)
}

type Dispatcher struct {
	mu     sync.RWMutex
	sinks  map[string]Sink
	logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sinks:  make(map[string]Sink),
		logger: logger,
	}
}

func (d *Dispatcher) Register(name string, sink Sink) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sinks[name]; ok {
		return errAlreadyRegistered
	}
	d.sinks[name] = sink
	return nil
}

// Sinks returns the registered sink names in sorted order.
func (d *Dispatcher) Sinks() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sortedNames()
}

// Dispatch decodes the event payload into ev.Data and delivers the event to
// every sink. Payloads that are not JSON are still delivered with Data unset.
func (d *Dispatcher) Dispatch(ctx context.Context, ev model.Event) {
	if ev.Data == nil && len(ev.Payload) > 0 {
		data, err := jsondoc.Decode(ev.Payload)
		if err != nil {
			d.logger.Debug("payload is not json", zap.Stringer("source", ev.Source), zap.String("topic", ev.Topic), zap.Error(err))
		} else {
			ev.Data = data
		}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, name := range d.sortedNames() {
		if err := d.sinks[name].Write(ctx, ev); err != nil {
			d.logger.Error("failed to write event", zap.Error(err), zap.String("sink", name))
			continue
		}
		d.logger.Debug("event written", zap.String("sink", name), zap.Stringer("source", ev.Source))
	}
}

func (d *Dispatcher) sortedNames() []string {
	names := lo.Keys(d.sinks)
	slices.Sort(names)
	return names
}
