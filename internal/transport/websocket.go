package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

const wsHandshakeTimeout = 10 * time.Second

type wsConn struct {
	conn *websocket.Conn
	name string
}

// DialWebsocket connects to a serial-to-websocket bridge. Every text or
// binary message is one chunk; message boundaries carry no meaning.
func DialWebsocket(ctx context.Context, rawURL string) (Conn, error) {
	dialer := &websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, rawURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	return &wsConn{conn: conn, name: rawURL}, nil
}

func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	// Cancellation unblocks ReadMessage by expiring the deadline.
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var ce *websocket.CloseError
		if errors.As(err, &ce) && (ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read %s: %w", c.name, err)
	}
	return data, nil
}

func (c *wsConn) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *wsConn) Name() string {
	return c.name
}
