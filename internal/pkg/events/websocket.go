package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/as3935-integration/internal/pkg/model"
	"github.com/anicoll/as3935-integration/internal/pkg/transport"
	"github.com/anicoll/as3935-integration/pkg/sockets"
)

const maxWebsocketMessage = 64 * 1024

// Websocket follows a ws:// or wss:// event stream and calls fn for every
// message until ctx is cancelled or the peer goes away.
func Websocket(ctx context.Context, d transport.Descriptor, insecure bool, fn func(model.Event)) error {
	if !d.Scheme.Websocket() {
		return fmt.Errorf("%w: %s is not a websocket scheme", transport.ErrUnsupportedScheme, d.Scheme)
	}

	errs := make(chan error, 1)
	opts := []func(*sockets.Conn){
		sockets.WithMaxMessageSize(maxWebsocketMessage),
		sockets.OnMessage(func(msg []byte, _ sockets.Connection) {
			payload := make([]byte, len(msg))
			copy(payload, msg)
			fn(model.Event{
				Source:   model.SourceWebsocket,
				Topic:    d.Path,
				Payload:  payload,
				Received: time.Now(),
			})
		}),
		sockets.OnError(func(err error) {
			select {
			case errs <- err:
			default:
			}
		}),
		sockets.OnConnected(func(sockets.Connection) {
			zap.L().Info("connected to event stream", zap.String("url", d.URL()))
		}),
	}
	if insecure {
		opts = append(opts, sockets.InsecureSkipVerify())
	}

	conn := sockets.New(opts...)
	if err := conn.Dial(ctx, d.URL(), ""); err != nil {
		return fmt.Errorf("dial %s: %w", d.URL(), err)
	}
	defer conn.Close()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	case <-conn.Done():
		select {
		case err := <-errs:
			return err
		default:
			return nil
		}
	}
}
