package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsHandshakeTimeout = 2 * time.Second
	wsWriteTimeout     = 2 * time.Second
)

// WSCollector streams snapshots over a websocket. The connection is
// dialed lazily on first emit and dropped on the first error; the next
// emit re-dials. There is still no retry within an emit and no
// queueing of missed windows.
type WSCollector struct {
	url    string
	dialer *websocket.Dialer
	conn   *websocket.Conn
}

// NewWSCollector creates a collector for a ws:// or wss:// endpoint.
func NewWSCollector(url string) *WSCollector {
	return &WSCollector{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: wsHandshakeTimeout,
		},
	}
}

// Emit writes one snapshot as a JSON text frame.
func (c *WSCollector) Emit(ctx context.Context, snap Snapshot) error {
	if c.conn == nil {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			return fmt.Errorf("dial collector: %w", err)
		}
		c.conn = conn
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteJSON(snap); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("write telemetry frame: %w", err)
	}
	return nil
}

// Close closes the websocket if open.
func (c *WSCollector) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
