package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/as3935-integration/internal/pkg/model"
	"github.com/anicoll/as3935-integration/internal/pkg/transport"
)

func streamServer(t *testing.T, messages []string) transport.Descriptor {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for _, m := range messages {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// hold the connection open until the client leaves
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	d, err := transport.Parse("ws" + strings.TrimPrefix(srv.URL, "http") + "/events")
	require.NoError(t, err)
	return d
}

func TestWebsocket(t *testing.T) {
	d := streamServer(t, []string{`{"distance_km":3}`, `{"distance_km":4}`})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan model.Event, 2)
	errs := make(chan error, 1)
	go func() {
		errs <- Websocket(ctx, d, false, func(ev model.Event) { got <- ev })
	}()

	for _, want := range []string{`{"distance_km":3}`, `{"distance_km":4}`} {
		select {
		case ev := <-got:
			assert.Equal(t, model.SourceWebsocket, ev.Source)
			assert.Equal(t, "/events", ev.Topic)
			assert.Equal(t, want, string(ev.Payload))
		case <-ctx.Done():
			t.Fatal("timed out waiting for events")
		}
	}

	cancel()
	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Websocket did not return after cancel")
	}
}

func TestWebsocket_RejectsMQTTScheme(t *testing.T) {
	d, err := transport.Parse("mqtt://broker.local")
	require.NoError(t, err)
	err = Websocket(context.Background(), d, false, func(model.Event) {})
	assert.ErrorIs(t, err, transport.ErrUnsupportedScheme)
}

func TestWebsocket_DialError(t *testing.T) {
	d, err := transport.Parse("ws://127.0.0.1:1/events")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err = Websocket(ctx, d, false, func(model.Event) {})
	assert.ErrorContains(t, err, "dial ws://127.0.0.1:1/events")
}
