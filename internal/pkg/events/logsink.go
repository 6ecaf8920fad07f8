package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/anicoll/as3935-integration/internal/pkg/model"
)

// LogSink writes every event to a zap logger at info level.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(_ context.Context, ev model.Event) error {
	fields := []zap.Field{
		zap.Stringer("source", ev.Source),
		zap.Time("received", ev.Received),
	}
	if ev.Topic != "" {
		fields = append(fields, zap.String("topic", ev.Topic))
	}
	if ev.Name != "" {
		fields = append(fields, zap.String("event", ev.Name))
	}
	if ev.Data != nil {
		fields = append(fields, zap.Any("data", ev.Data))
	} else {
		fields = append(fields, zap.ByteString("payload", ev.Payload))
	}
	s.logger.Info("lightning event", fields...)
	return nil
}
