// Package sockets is a small callback-driven websocket client used to follow
// ws:// and wss:// event streams.
package sockets

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrClosed = errors.New("sockets: closed connection")

type Connection interface {
	Dial(ctx context.Context, url, subprotocol string) error
	Send(msg Msg) error
	Done() <-chan struct{}
	io.Closer
}

type Conn struct {
	mu             sync.Mutex
	ws             *websocket.Conn
	sslSkipVerify  bool
	closed         bool
	done           chan struct{}
	pingInterval   time.Duration
	maxMessageSize int64
	onError        func(err error)
	onMessage      func([]byte, Connection)
	onConnected    func(Connection)
	pingMsg        []byte
}

func New(opts ...func(*Conn)) *Conn {
	c := &Conn{closed: true}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Msg is the message structure.
type Msg struct {
	Body []byte
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *Conn) close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return c.ws.Close()
}

// Done is closed once the connection is closed, locally or by the peer.
func (c *Conn) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		c.done = make(chan struct{})
	}
	return c.done
}

func (c *Conn) Send(msg Msg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, msg.Body); err != nil {
		_ = c.close()
		if c.onError != nil {
			go c.onError(err)
		}
		return err
	}
	return nil
}

func (c *Conn) Dial(ctx context.Context, url, subProtocol string) error {
	dialer := &websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.sslSkipVerify,
		},
	}
	if subProtocol != "" {
		dialer.Subprotocols = []string{subProtocol}
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	if c.maxMessageSize > 0 {
		conn.SetReadLimit(c.maxMessageSize)
	}

	c.mu.Lock()
	c.ws = conn
	c.closed = false
	if c.done == nil {
		c.done = make(chan struct{})
	}
	select {
	case <-c.done:
		// redialled after a close
		c.done = make(chan struct{})
	default:
	}
	done := c.done
	c.mu.Unlock()

	if c.onConnected != nil {
		go c.onConnected(c)
	}
	go c.readLoop(conn)
	c.setupPing(done)
	return nil
}

func (c *Conn) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			wasClosed := c.closed
			_ = c.close()
			c.mu.Unlock()
			if !wasClosed && c.onError != nil {
				c.onError(err)
			}
			return
		}
		c.onMsg(msg)
	}
}

func (c *Conn) onMsg(msg []byte) {
	if c.onMessage != nil {
		c.onMessage(msg, c)
	}
}

func (c *Conn) setupPing(done <-chan struct{}) {
	if c.pingInterval <= 0 || len(c.pingMsg) == 0 {
		return
	}
	ticker := time.NewTicker(c.pingInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if c.Send(Msg{Body: c.pingMsg}) != nil {
					return
				}
			}
		}
	}()
}
