package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/as3935-integration/cmd"
	"github.com/anicoll/as3935-integration/internal/pkg/model"
)

func main() {
	deviceFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "device-url",
			EnvVars: []string{"DEVICE_URL"},
			Usage:   "base URL of the sensor, e.g. http://192.168.4.1",
		},
		&cli.DurationFlag{
			Name:    "http-timeout",
			EnvVars: []string{"HTTP_TIMEOUT"},
			Value:   5 * time.Second,
		},
	}
	brokerFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "broker-uri",
			EnvVars: []string{"BROKER_URI"},
			Usage:   "mqtt://, mqtts://, ws:// or wss:// broker URI",
		},
		&cli.StringFlag{
			Name:    "topic",
			EnvVars: []string{"MQTT_TOPIC"},
			Value:   model.DefaultTopic,
		},
		&cli.StringFlag{
			Name:    "mqtt-user",
			EnvVars: []string{"MQTT_USER"},
		},
		&cli.StringFlag{
			Name:    "mqtt-pass",
			EnvVars: []string{"MQTT_PASS"},
		},
		&cli.StringFlag{
			Name:    "mqtt-ca-cert",
			EnvVars: []string{"MQTT_CA_CERT"},
			Usage:   "PEM file with the broker CA",
		},
	}

	app := &cli.App{
		Name:  "as3935",
		Usage: "configure and follow an AS3935 lightning sensor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate a register map and print it normalised",
				ArgsUsage: "<file|->",
				Action:    cmd.ValidateCommand,
			},
			{
				Name:      "uri",
				Usage:     "validate a broker URI and print its parts",
				ArgsUsage: "<uri>",
				Action:    cmd.URICommand,
			},
			{
				Name:      "apply",
				Usage:     "validate a register map and save it to the sensor",
				ArgsUsage: "<file|->",
				Flags:     deviceFlags,
				Action:    cmd.ApplyCommand,
			},
			{
				Name:  "pins",
				Usage: "save the SPI and IRQ pin assignment",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "spi-host", Value: model.DefaultPins.SPIHost},
					&cli.IntFlag{Name: "sclk", Value: model.DefaultPins.SCLK},
					&cli.IntFlag{Name: "mosi", Value: model.DefaultPins.MOSI},
					&cli.IntFlag{Name: "miso", Value: model.DefaultPins.MISO},
					&cli.IntFlag{Name: "cs", Value: model.DefaultPins.CS},
					&cli.IntFlag{Name: "irq", Value: model.DefaultPins.IRQ},
				}, deviceFlags...),
				Action: cmd.PinsCommand,
			},
			{
				Name:   "mqtt-config",
				Usage:  "send broker settings to the sensor",
				Flags:  append(append([]cli.Flag{}, deviceFlags...), brokerFlags...),
				Action: cmd.MQTTConfigCommand,
			},
			{
				Name:  "status",
				Usage: "print sensor and pin status",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "every",
						EnvVars: []string{"STATUS_SCHEDULE"},
						Usage:   "cron schedule to poll on, e.g. '@every 30s'",
					},
				}, deviceFlags...),
				Action: cmd.StatusCommand,
			},
			{
				Name:  "subscribe",
				Usage: "log lightning events as they arrive",
				Flags: append(append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "sse",
						Usage: "follow the sensor's event stream instead of the broker",
					},
					&cli.UintFlag{
						Name:    "qos",
						EnvVars: []string{"MQTT_QOS"},
					},
					&cli.StringFlag{
						Name:    "mqtt-client-id",
						EnvVars: []string{"MQTT_CLIENT_ID"},
					},
					&cli.BoolFlag{
						Name:    "mqtt-insecure",
						EnvVars: []string{"MQTT_INSECURE"},
					},
				}, deviceFlags...), brokerFlags...),
				Action: cmd.SubscribeCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
