package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrClosed is returned by Read after Close.
var ErrClosed = errors.New("transport: connection closed")

// Pipe is an in-memory Conn. Writes become chunks for Read.
type Pipe struct {
	name   string
	ch     chan []byte
	errCh  chan error
	closed chan struct{}
	once   sync.Once
}

// NewPipe creates a Pipe buffering up to 64 chunks.
func NewPipe(name string) *Pipe {
	return &Pipe{
		name:   name,
		ch:     make(chan []byte, 64),
		errCh:  make(chan error, 1),
		closed: make(chan struct{}),
	}
}

// Write queues a copy of b as one chunk.
func (p *Pipe) Write(b []byte) (int, error) {
	chunk := make([]byte, len(b))
	copy(chunk, b)
	select {
	case p.ch <- chunk:
		return len(b), nil
	case <-p.closed:
		return 0, ErrClosed
	}
}

// Fail makes the next Read (after queued chunks drain) return err. Use
// io.EOF to signal end-of-stream.
func (p *Pipe) Fail(err error) {
	select {
	case p.errCh <- err:
	default:
	}
}

// Read returns the next chunk, the injected error, or ctx.Err().
func (p *Pipe) Read(ctx context.Context) ([]byte, error) {
	select {
	case chunk := <-p.ch:
		return chunk, nil
	default:
	}

	select {
	case chunk := <-p.ch:
		return chunk, nil
	case err := <-p.errCh:
		return nil, err
	case <-p.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the pipe. Idempotent.
func (p *Pipe) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

// Closed reports whether Close has been called.
func (p *Pipe) Closed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// Name returns the pipe's name.
func (p *Pipe) Name() string {
	return p.name
}

// fileConn replays a captured byte stream.
type fileConn struct {
	f   *os.File
	buf []byte
}

// OpenFile opens a capture for replay. Reads return io.EOF at the end.
func OpenFile(path string) (Conn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	return &fileConn{f: f, buf: make([]byte, serialChunk)}, nil
}

func (c *fileConn) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := c.f.Read(c.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, c.buf[:n])
		return chunk, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

func (c *fileConn) Close() error {
	return c.f.Close()
}

func (c *fileConn) Name() string {
	return c.f.Name()
}
