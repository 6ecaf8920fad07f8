package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/anicoll/as3935-integration/internal/pkg/config"
	"github.com/anicoll/as3935-integration/internal/pkg/device"
	"github.com/anicoll/as3935-integration/internal/pkg/events"
	"github.com/anicoll/as3935-integration/internal/pkg/jsondoc"
	"github.com/anicoll/as3935-integration/internal/pkg/model"
	"github.com/anicoll/as3935-integration/internal/pkg/mqtt"
	"github.com/anicoll/as3935-integration/internal/pkg/registers"
	"github.com/anicoll/as3935-integration/internal/pkg/transport"
)

var (
	errMissingDeviceURL = errors.New("device url is required (--device-url or DEVICE_URL)")
	errMissingBrokerURI = errors.New("broker uri is required (--broker-uri or BROKER_URI)")
	errMissingURI       = errors.New("usage: uri <uri>")
)

// ValidateCommand validates a register map read from a file or stdin and
// prints it normalised.
var ValidateCommand = action(0, func(_ context.Context, c *cli.Context, _ *config.Config, _ *zap.Logger) error {
	in, err := openInput(c)
	if err != nil {
		return err
	}
	defer in.Close()
	return validateRegisters(in, c.App.Writer)
})

// URICommand validates a broker URI and prints its descriptor.
var URICommand = action(0, func(_ context.Context, c *cli.Context, _ *config.Config, _ *zap.Logger) error {
	if c.NArg() != 1 {
		return errMissingURI
	}
	return describeURI(c.Args().First(), c.App.Writer)
})

var ApplyCommand = action(oneShotTimeout, func(ctx context.Context, c *cli.Context, cfg *config.Config, logger *zap.Logger) error {
	dev, err := newDevice(cfg, logger)
	if err != nil {
		return err
	}
	in, err := openInput(c)
	if err != nil {
		return err
	}
	defer in.Close()
	return applyRegisters(ctx, dev, in, c.App.Writer)
})

var PinsCommand = action(oneShotTimeout, func(ctx context.Context, c *cli.Context, cfg *config.Config, logger *zap.Logger) error {
	dev, err := newDevice(cfg, logger)
	if err != nil {
		return err
	}
	pins := model.Pins{
		SPIHost: c.Int("spi-host"),
		SCLK:    c.Int("sclk"),
		MOSI:    c.Int("mosi"),
		MISO:    c.Int("miso"),
		CS:      c.Int("cs"),
		IRQ:     c.Int("irq"),
	}
	return configurePins(ctx, dev, pins, c.App.Writer)
})

var MQTTConfigCommand = action(oneShotTimeout, func(ctx context.Context, c *cli.Context, cfg *config.Config, logger *zap.Logger) error {
	dev, err := newDevice(cfg, logger)
	if err != nil {
		return err
	}
	settings, err := mqttSettings(cfg.MQTT)
	if err != nil {
		return err
	}
	return configureMQTT(ctx, dev, settings, c.App.Writer)
})

// StatusCommand prints the sensor and pin status once, or on every tick of
// the --every cron schedule until interrupted.
var StatusCommand = action(0, func(ctx context.Context, c *cli.Context, cfg *config.Config, logger *zap.Logger) error {
	dev, err := newDevice(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Device.StatusSchedule == "" {
		ctx, cancel := context.WithTimeout(ctx, oneShotTimeout)
		defer cancel()
		return printStatus(ctx, dev, c.App.Writer)
	}
	return pollStatus(ctx, dev, cfg.Device.StatusSchedule, c.App.Writer, logger)
})

// SubscribeCommand follows lightning events from the broker, a websocket
// stream or the device's SSE stream and logs each one.
var SubscribeCommand = action(0, func(ctx context.Context, c *cli.Context, cfg *config.Config, logger *zap.Logger) error {
	stream, err := newStream(c.Bool("sse"), cfg, logger)
	if err != nil {
		return err
	}
	dispatcher := events.NewDispatcher(logger)
	if err := dispatcher.Register("log", events.NewLogSink(logger)); err != nil {
		return err
	}
	return run(ctx, stream, dispatcher, logger)
})

func newDevice(cfg *config.Config, logger *zap.Logger) (*device.Client, error) {
	if cfg.Device.URL == "" {
		return nil, errMissingDeviceURL
	}
	return device.New(cfg.Device.URL, device.WithTimeout(cfg.Device.Timeout), device.WithLogger(logger))
}

func newStream(sse bool, cfg *config.Config, logger *zap.Logger) (streamFunc, error) {
	if sse {
		dev, err := newDevice(cfg, logger)
		if err != nil {
			return nil, err
		}
		return sseStream(dev), nil
	}

	if cfg.MQTT.BrokerURI == "" {
		return nil, errMissingBrokerURI
	}
	d, err := transport.Parse(cfg.MQTT.BrokerURI)
	if err != nil {
		return nil, err
	}
	if d.Scheme.Websocket() {
		return websocketStream(d, cfg.MQTT.InsecureSkipVerify), nil
	}
	client, err := mqtt.NewClient(d, cfg.MQTT)
	if err != nil {
		return nil, err
	}
	logger.Info("subscribing", zap.String("broker", d.BrokerURL()), zap.String("topic", cfg.MQTT.Topic))
	return brokerStream(mqtt.New(client), cfg.MQTT.Topic, cfg.MQTT.QoS), nil
}

func brokerStream(sub Subscriber, topic string, qos byte) streamFunc {
	return func(ctx context.Context, fn func(model.Event)) error {
		if err := sub.Connect(); err != nil {
			return err
		}
		defer sub.Disconnect()
		if err := sub.Subscribe(topic, qos, fn); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	}
}

func sseStream(dev DeviceClient) streamFunc {
	return func(ctx context.Context, fn func(model.Event)) error {
		body, err := dev.EventStream(ctx)
		if err != nil {
			return err
		}
		defer body.Close()
		return events.ReadSSE(ctx, body, fn)
	}
}

func websocketStream(d transport.Descriptor, insecure bool) streamFunc {
	return func(ctx context.Context, fn func(model.Event)) error {
		return events.Websocket(ctx, d, insecure, fn)
	}
}

// openInput returns the file named by the first argument, or the app's
// reader for "-" and no argument.
func openInput(c *cli.Context) (io.ReadCloser, error) {
	path := c.Args().First()
	if path == "" || path == "-" {
		return io.NopCloser(c.App.Reader), nil
	}
	return os.Open(path)
}

func readRegisters(r io.Reader) (registers.Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, err
	}
	return registers.Validate(doc)
}

func validateRegisters(r io.Reader, w io.Writer) error {
	regs, err := readRegisters(r)
	if err != nil {
		return err
	}
	return printJSON(w, regs)
}

func describeURI(uri string, w io.Writer) error {
	d, err := transport.Parse(uri)
	if err != nil {
		return err
	}
	return printJSON(w, d)
}

func applyRegisters(ctx context.Context, dev DeviceClient, r io.Reader, w io.Writer) error {
	regs, err := readRegisters(r)
	if err != nil {
		return err
	}
	res, err := dev.SaveRegisters(ctx, regs)
	if err != nil {
		return err
	}
	zap.L().Info("registers saved", zap.Int("count", len(regs)))
	return printJSON(w, res)
}

func configurePins(ctx context.Context, dev DeviceClient, pins model.Pins, w io.Writer) error {
	if _, err := dev.SavePins(ctx, pins); err != nil {
		return err
	}
	status, err := dev.PinsStatus(ctx)
	if err != nil {
		return err
	}
	return printJSON(w, status)
}

func mqttSettings(cfg *config.MQTTConfig) (model.MQTTSettings, error) {
	if cfg.BrokerURI == "" {
		return model.MQTTSettings{}, errMissingBrokerURI
	}
	settings := model.MQTTSettings{
		URI:      cfg.BrokerURI,
		Topic:    cfg.Topic,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if cfg.CACertFile != "" {
		pem, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return model.MQTTSettings{}, fmt.Errorf("read ca cert: %w", err)
		}
		settings.CACert = string(pem)
	}
	return settings, nil
}

func configureMQTT(ctx context.Context, dev DeviceClient, settings model.MQTTSettings, w io.Writer) error {
	res, err := dev.SaveMQTT(ctx, settings)
	if err != nil {
		return err
	}
	return printJSON(w, res)
}

type statusReport struct {
	Status jsondoc.Object `json:"status"`
	Pins   jsondoc.Object `json:"pins"`
}

func printStatus(ctx context.Context, dev DeviceClient, w io.Writer) error {
	status, err := dev.Status(ctx)
	if err != nil {
		return err
	}
	pins, err := dev.PinsStatus(ctx)
	if err != nil {
		return err
	}
	return printJSON(w, statusReport{Status: status, Pins: pins})
}

func pollStatus(ctx context.Context, dev DeviceClient, schedule string, w io.Writer, logger *zap.Logger) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		if err := printStatus(ctx, dev, w); err != nil {
			logger.Error("status poll failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info("polling status", zap.String("schedule", schedule))
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
