// Package transport opens byte sources for the viewer: a serial port, a
// websocket bridge in front of one, or a captured file for replay.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaudRate matches the generator firmware.
const DefaultBaudRate = 115200

// ErrUnknownScheme is returned for a URL no transport understands.
var ErrUnknownScheme = errors.New("transport: unknown URL scheme")

// Config selects and parameterizes a transport. URL takes precedence over Port.
type Config struct {
	Port     string // serial device, e.g. /dev/ttyUSB0 or COM3
	BaudRate int
	URL      string // ws://, wss:// or file://
}

// Target returns a display name for the configured endpoint.
func (c Config) Target() string {
	if c.URL != "" {
		return c.URL
	}
	return c.Port
}

// Conn is an open byte source owned by one read loop.
type Conn interface {
	// Read blocks until a chunk arrives, the stream ends (io.EOF) or ctx is
	// cancelled (ctx.Err()). There is no other timeout.
	Read(ctx context.Context) ([]byte, error)
	// Close releases the handle. Call only after the read loop has returned.
	Close() error
	// Name identifies the endpoint in logs.
	Name() string
}

// Opener opens a Conn.
type Opener interface {
	Open(ctx context.Context, cfg Config) (Conn, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, cfg Config) (Conn, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, cfg Config) (Conn, error) {
	return f(ctx, cfg)
}

// Default dispatches on cfg.URL's scheme, falling back to the serial port.
var Default Opener = OpenerFunc(Open)

// Open opens the transport described by cfg.
func Open(ctx context.Context, cfg Config) (Conn, error) {
	if cfg.URL == "" {
		if cfg.Port == "" {
			return nil, errors.New("transport: no serial port or URL configured")
		}
		return OpenSerial(cfg.Port, cfg.BaudRate)
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss":
		return DialWebsocket(ctx, cfg.URL)
	case "file":
		return OpenFile(u.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
}
