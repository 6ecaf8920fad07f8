package model

import "time"

type EventSource string

func (s EventSource) String() string {
	return string(s)
}

const (
	SourceMQTT      EventSource = "mqtt"
	SourceWebsocket EventSource = "websocket"
	SourceSSE       EventSource = "sse"
)

// DefaultTopic is where the device publishes lightning events.
const DefaultTopic = "as3935/lightning"

// Event is a message received from the device, through a broker or an event
// stream. Data holds the decoded payload when it was valid JSON.
type Event struct {
	Source   EventSource
	Topic    string
	Name     string
	Payload  []byte
	Data     any
	Received time.Time
}
