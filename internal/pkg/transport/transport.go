// Package transport validates broker and event-stream URIs such as
// mqtt://host:1883 or wss://host/mqtt and resolves them into a Descriptor.
package transport

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrEmptyOrInvalidInput = errors.New("transport: uri must be a non-empty string")
	ErrUnsupportedScheme   = errors.New("transport: unsupported scheme")
	ErrMissingHost         = errors.New("transport: missing host in URI")
	ErrInvalidPort         = errors.New("transport: port out of range 1-65535")
)

type Scheme string

func (s Scheme) String() string {
	return string(s)
}

const (
	MQTT  Scheme = "mqtt"
	MQTTS Scheme = "mqtts"
	WS    Scheme = "ws"
	WSS   Scheme = "wss"
)

const (
	DefaultPort       = 1883
	DefaultSecurePort = 8883
)

// Secure reports whether the scheme runs over TLS.
func (s Scheme) Secure() bool {
	return s == MQTTS || s == WSS
}

// Websocket reports whether the scheme is a websocket transport.
func (s Scheme) Websocket() bool {
	return s == WS || s == WSS
}

func (s Scheme) supported() bool {
	switch s {
	case MQTT, MQTTS, WS, WSS:
		return true
	}
	return false
}

// Descriptor is a resolved transport endpoint.
type Descriptor struct {
	Scheme Scheme `json:"scheme"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Secure bool   `json:"secure"`
	Path   string `json:"path,omitempty"`
}

// Parse validates uri and fills in the default port for its scheme when the
// URI has none: 8883 for mqtts and wss, 1883 for mqtt and ws.
func Parse(uri string) (Descriptor, error) {
	if uri == "" {
		return Descriptor{}, ErrEmptyOrInvalidInput
	}
	u, err := url.Parse(uri)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrEmptyOrInvalidInput, err)
	}

	scheme := Scheme(strings.ToLower(u.Scheme))
	if !scheme.supported() {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Descriptor{}, ErrMissingHost
	}

	port := DefaultPort
	if scheme.Secure() {
		port = DefaultSecurePort
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrInvalidPort, p)
		}
	}

	return Descriptor{
		Scheme: scheme,
		Host:   host,
		Port:   port,
		Secure: scheme.Secure(),
		Path:   u.EscapedPath(),
	}, nil
}

// Address returns host:port, bracketing IPv6 hosts.
func (d Descriptor) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// BrokerURL returns the URL form the paho client dials: tcp:// or ssl:// for
// mqtt and mqtts, ws:// or wss:// (with path) for websockets.
func (d Descriptor) BrokerURL() string {
	switch d.Scheme {
	case MQTT:
		return "tcp://" + d.Address()
	case MQTTS:
		return "ssl://" + d.Address()
	}
	return d.URL()
}

// URL renders the descriptor back into a URI with an explicit port.
func (d Descriptor) URL() string {
	u := url.URL{Scheme: d.Scheme.String(), Host: d.Address(), Path: d.Path}
	if p, err := url.PathUnescape(d.Path); err == nil {
		u.Path = p
		u.RawPath = d.Path
	}
	return u.String()
}

func (d Descriptor) String() string {
	return d.URL()
}
