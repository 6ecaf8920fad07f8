package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/as3935-integration/internal/pkg/config"
	"github.com/anicoll/as3935-integration/internal/pkg/contxt"
	"github.com/anicoll/as3935-integration/internal/pkg/events"
	"github.com/anicoll/as3935-integration/internal/pkg/model"
)

const (
	oneShotTimeout = 30 * time.Second
	eventBuffer    = 64
)

type command func(ctx context.Context, c *cli.Context, cfg *config.Config, logger *zap.Logger) error

// action wraps a command with config loading, logger setup and a signal
// aware context. A positive timeout bounds the whole command.
func action(timeout time.Duration, fn command) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync() // flushes buffer, if any.
		}()
		zap.ReplaceGlobals(logger)

		ctx, cancel := contxt.NewContext(c.Context, timeout)
		defer cancel()

		if err := fn(ctx, c, cfg, logger); err != nil {
			logger.Error("command failed", zap.String("command", c.Command.Name), zap.Error(err))
			return err
		}
		return nil
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var err error
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	return logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// loadConfig reads the environment and lets flags that were set win.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("device-url") {
		cfg.Device.URL = c.String("device-url")
	}
	if c.IsSet("http-timeout") {
		cfg.Device.Timeout = c.Duration("http-timeout")
	}
	if c.IsSet("every") {
		cfg.Device.StatusSchedule = c.String("every")
	}
	if c.IsSet("broker-uri") {
		cfg.MQTT.BrokerURI = c.String("broker-uri")
	}
	if c.IsSet("topic") {
		cfg.MQTT.Topic = c.String("topic")
	}
	if c.IsSet("mqtt-user") {
		cfg.MQTT.Username = c.String("mqtt-user")
	}
	if c.IsSet("mqtt-pass") {
		cfg.MQTT.Password = c.String("mqtt-pass")
	}
	if c.IsSet("mqtt-client-id") {
		cfg.MQTT.ClientID = c.String("mqtt-client-id")
	}
	if c.IsSet("qos") {
		qos := c.Uint("qos")
		if qos > 2 {
			return nil, fmt.Errorf("qos must be 0, 1 or 2, got %d", qos)
		}
		cfg.MQTT.QoS = byte(qos)
	}
	if c.IsSet("mqtt-ca-cert") {
		cfg.MQTT.CACertFile = c.String("mqtt-ca-cert")
	}
	if c.IsSet("mqtt-insecure") {
		cfg.MQTT.InsecureSkipVerify = c.Bool("mqtt-insecure")
	}
	return cfg, nil
}

// run pumps events from stream into the dispatcher until the stream ends or
// ctx is cancelled. Events still queued at shutdown are dispatched.
func run(ctx context.Context, stream streamFunc, dispatcher *events.Dispatcher, logger *zap.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)
	streamCtx, stop := context.WithCancel(ctx)
	defer stop()

	queue := make(chan model.Event, eventBuffer)
	deliver := func(ev model.Event) {
		select {
		case queue <- ev:
		case <-streamCtx.Done():
		}
	}

	eg.Go(func() error {
		defer stop()
		return stream(streamCtx, deliver)
	})

	eg.Go(func() error {
		for {
			select {
			case ev := <-queue:
				dispatcher.Dispatch(ctx, ev)
			case <-streamCtx.Done():
				for {
					select {
					case ev := <-queue:
						dispatcher.Dispatch(context.WithoutCancel(ctx), ev)
					default:
						logger.Info("event stream closed")
						return nil
					}
				}
			}
		}
	})

	return eg.Wait()
}
