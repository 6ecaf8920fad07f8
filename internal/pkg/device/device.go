// Package device talks to the AS3935 firmware's HTTP API. Register maps and
// broker URIs are validated before anything is sent.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/as3935-integration/internal/pkg/jsondoc"
	"github.com/anicoll/as3935-integration/internal/pkg/model"
	"github.com/anicoll/as3935-integration/internal/pkg/registers"
	"github.com/anicoll/as3935-integration/internal/pkg/transport"
)

const (
	saveRegistersPath = "/api/as3935/save"
	savePinsPath      = "/api/as3935/pins/save"
	statusPath        = "/api/as3935/status"
	pinsStatusPath    = "/api/as3935/pins/status"
	saveMQTTPath      = "/api/mqtt/save"
	eventStreamPath   = "/api/events/stream"

	defaultTimeout = 5 * time.Second
)

var (
	ErrUnexpectedStatus = errors.New("device: unexpected response status")
	ErrRejected         = errors.New("device: request rejected")
)

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

func WithTimeout(d time.Duration) func(*Client) {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the default client. WithTimeout and request
// logging do not apply to it.
func WithHTTPClient(h *http.Client) func(*Client) {
	return func(c *Client) {
		c.http = h
	}
}

func WithLogger(l *zap.Logger) func(*Client) {
	return func(c *Client) {
		c.logger = l
	}
}

// New returns a client for the device at baseURL, e.g. http://192.168.4.1.
func New(baseURL string, opts ...func(*Client)) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("device url must be http(s)://host, got %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		logger:  zap.L(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: &loggingTransport{next: http.DefaultTransport, logger: c.logger},
		}
	}
	return c, nil
}

// BaseURL returns the device URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SaveRegisters writes a validated register map to the device.
func (c *Client) SaveRegisters(ctx context.Context, regs registers.Map) (*model.SaveResult, error) {
	return c.save(ctx, saveRegistersPath, regs)
}

func (c *Client) SavePins(ctx context.Context, pins model.Pins) (*model.SaveResult, error) {
	return c.save(ctx, savePinsPath, pins)
}

// SaveMQTT validates settings.URI and sends the broker settings. UseTLS is
// derived from the URI scheme.
func (c *Client) SaveMQTT(ctx context.Context, settings model.MQTTSettings) (*model.SaveResult, error) {
	d, err := transport.Parse(settings.URI)
	if err != nil {
		return nil, err
	}
	settings.UseTLS = d.Secure
	return c.save(ctx, saveMQTTPath, settings)
}

func (c *Client) Status(ctx context.Context) (jsondoc.Object, error) {
	return c.getObject(ctx, statusPath)
}

func (c *Client) PinsStatus(ctx context.Context) (jsondoc.Object, error) {
	return c.getObject(ctx, pinsStatusPath)
}

// EventStream opens the device's text/event-stream. The caller closes the
// returned body; ctx bounds the stream instead of the client timeout.
func (c *Client) EventStream(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+eventStreamPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	streaming := *c.http
	streaming.Timeout = 0
	res, err := streaming.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: %d", ErrUnexpectedStatus, eventStreamPath, res.StatusCode)
	}
	c.logger.Info("event stream open", zap.String("url", c.baseURL+eventStreamPath))
	return res.Body, nil
}

func (c *Client) save(ctx context.Context, path string, body any) (*model.SaveResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("sending", zap.String("path", path), zap.ByteString("request", payload))
	data, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	result := &model.SaveResult{}
	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		// some handlers answer with plain text
		c.logger.Debug("non json response", zap.String("path", path), zap.ByteString("response", data))
		return result, nil
	}
	if result.Failed() {
		return result, fmt.Errorf("%w: %s %s", ErrRejected, path, result.Msg)
	}
	return result, nil
}

func (c *Client) getObject(ctx context.Context, path string) (jsondoc.Object, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	v, err := jsondoc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	obj, ok := v.(jsondoc.Object)
	if !ok {
		return nil, fmt.Errorf("%s: expected a JSON object, got %T", path, v)
	}
	return obj, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrUnexpectedStatus, method, path, res.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
