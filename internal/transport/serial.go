package transport

import (
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// serialPoll bounds how long a Read sits inside the driver before checking
// for cancellation. Callers never see it as a timeout.
const serialPoll = 100 * time.Millisecond

const serialChunk = 4096

type serialConn struct {
	port serial.Port
	name string
	buf  []byte
}

// OpenSerial opens a serial port in 8N1 mode at the given baud rate
// (DefaultBaudRate if zero).
func OpenSerial(name string, baud int) (Conn, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	if err := port.SetReadTimeout(serialPoll); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return &serialConn{port: port, name: name, buf: make([]byte, serialChunk)}, nil
}

func (c *serialConn) Read(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := c.port.Read(c.buf)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.name, err)
		}
		if n == 0 {
			// Poll timeout; keep waiting.
			continue
		}
		chunk := make([]byte, n)
		copy(chunk, c.buf[:n])
		return chunk, nil
	}
}

func (c *serialConn) Close() error {
	return c.port.Close()
}

func (c *serialConn) Name() string {
	return c.name
}

// ListPorts returns the serial devices present on this machine.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
