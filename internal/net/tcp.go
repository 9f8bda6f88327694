package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

// TCPTransport writes newline-delimited JSON messages to a collector. The
// connection is dialed on first use and re-dialed after a failed write.
type TCPTransport struct {
	addr   string
	origin string
	dialer net.Dialer

	mu   sync.Mutex
	conn net.Conn
	enc  *json.Encoder
	log  *logrus.Entry
}

// NewTCPTransport does not dial; the first Send does.
func NewTCPTransport(addr, origin string) *TCPTransport {
	return &TCPTransport{
		addr:   addr,
		origin: origin,
		dialer: net.Dialer{Timeout: 5 * time.Second},
		log:    logging.NewLogger("tcp"),
	}
}

func (t *TCPTransport) Send(ctx context.Context, batch []state.Sample) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		conn, err := t.dialer.DialContext(ctx, "tcp", t.addr)
		if err != nil {
			return fmt.Errorf("dial %s: %w", t.addr, err)
		}
		t.conn = conn
		t.enc = json.NewEncoder(conn)
		t.log.WithField("local", conn.LocalAddr().String()).Infof("connected to collector %s", t.addr)
	}

	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetWriteDeadline(deadline)
	} else {
		t.conn.SetWriteDeadline(time.Time{})
	}
	if err := t.enc.Encode(Message{Type: typeSamples, Origin: t.origin, Samples: batch}); err != nil {
		t.reset()
		return fmt.Errorf("send to %s: %w", t.addr, err)
	}
	return nil
}

func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn, t.enc = nil, nil
	return err
}

func (t *TCPTransport) reset() {
	if t.conn != nil {
		t.conn.Close()
	}
	t.conn, t.enc = nil, nil
}
