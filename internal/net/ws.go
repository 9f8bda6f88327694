package net

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

// WSTransport sends one JSON text message per batch over a websocket.
type WSTransport struct {
	url    string
	origin string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
	log  *logrus.Entry
}

func NewWSTransport(url, origin string) *WSTransport {
	return &WSTransport{
		url:    url,
		origin: origin,
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		log:    logging.NewLogger("ws"),
	}
}

func (t *WSTransport) Send(ctx context.Context, batch []state.Sample) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		conn, _, err := t.dialer.DialContext(ctx, t.url, nil)
		if err != nil {
			return fmt.Errorf("dial %s: %w", t.url, err)
		}
		t.conn = conn
		t.log.Infof("connected to collector %s", t.url)
	}

	deadline, _ := ctx.Deadline()
	t.conn.SetWriteDeadline(deadline)
	if err := t.conn.WriteJSON(Message{Type: typeSamples, Origin: t.origin, Samples: batch}); err != nil {
		t.conn.Close()
		t.conn = nil
		return fmt.Errorf("send to %s: %w", t.url, err)
	}
	return nil
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := t.conn.Close()
	t.conn = nil
	return err
}
