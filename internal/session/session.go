// Package session owns the connection lifecycle: open a transport, run one
// read loop feeding the ingest pipeline, and tear it down on request or on
// transport fault.
//
// A Controller holds at most one Session. Cancellation is the only stop
// mechanism; a fault ends the session and is reported, never retried.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/sigscope/internal/logging"
	"github.com/abelbrown/sigscope/internal/metrics"
	"github.com/abelbrown/sigscope/internal/otel"
	"github.com/abelbrown/sigscope/internal/transport"
)

var (
	// ErrAlreadyConnected is returned by Connect while a session is open or opening.
	ErrAlreadyConnected = errors.New("session: already connected")
	// ErrNotConnected is returned by Disconnect with no session to stop.
	ErrNotConnected = errors.New("session: not connected")
)

// chunkBuffer bounds how far the reader may run ahead of dispatch.
const chunkBuffer = 64

// State is the connection indicator.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Change is one state transition. Err is set when a transport fault caused
// the transition; a user disconnect carries no error.
type Change struct {
	State     State
	Target    string
	SessionID string
	Err       error
}

// Feeder consumes transport chunks. Implemented by *ingest.Pipeline.
type Feeder interface {
	Feed(chunk []byte) int
	End()
}

// Session is one open connection and its read loop.
type Session struct {
	ID      string
	Target  string
	Started time.Time

	conn   transport.Conn
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Done is closed once the read loop has exited and the handle is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err is the fault that ended the session, nil for a cancelled one. Valid
// after Done is closed.
func (s *Session) Err() error {
	return s.err
}

// Controller serializes connect and disconnect requests.
type Controller struct {
	opener    transport.Opener
	cfg       transport.Config
	newFeeder func() Feeder
	onState   func(Change)
	metrics   *metrics.Metrics
	trace     *otel.Logger
	log       *log.Logger

	mu        sync.Mutex
	state     State
	current   *Session
	abortOpen context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithOpener replaces transport.Default.
func WithOpener(o transport.Opener) Option {
	return func(c *Controller) { c.opener = o }
}

// OnState registers the state callback. It runs on the goroutine that
// caused the transition and must not block.
func OnState(fn func(Change)) Option {
	return func(c *Controller) { c.onState = fn }
}

// WithMetrics counts session outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithTrace emits connection lifecycle events.
func WithTrace(l *otel.Logger) Option {
	return func(c *Controller) { c.trace = l }
}

// NewController creates a Controller for cfg. newFeeder is called once per
// session so each connection starts with an empty framer.
func NewController(cfg transport.Config, newFeeder func() Feeder, opts ...Option) *Controller {
	c := &Controller{
		opener:    transport.Default,
		cfg:       cfg,
		newFeeder: newFeeder,
		onState:   func(Change) {},
		log:       logging.WithPrefix("session"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the current connection state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the open session, or nil.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Target returns the configured endpoint name.
func (c *Controller) Target() string {
	return c.cfg.Target()
}

// Connect opens the transport and starts the read loop. The session lives
// until Disconnect, a transport fault, or ctx is cancelled.
func (c *Controller) Connect(ctx context.Context) (*Session, error) {
	openCtx, abort := context.WithCancel(ctx)

	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		abort()
		return nil, ErrAlreadyConnected
	}
	c.state = Connecting
	c.abortOpen = abort
	c.mu.Unlock()

	target := c.cfg.Target()
	c.onState(Change{State: Connecting, Target: target})
	c.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindConnect, Port: target})
	c.log.Info("connecting", "target", target, "baud", c.cfg.BaudRate)

	start := time.Now()
	conn, err := c.opener.Open(openCtx, c.cfg)

	c.mu.Lock()
	// Openers may ignore ctx. A Disconnect that arrived while opening still
	// wins over a late success.
	if err == nil && openCtx.Err() != nil {
		if cerr := conn.Close(); cerr != nil {
			c.log.Debug("close aborted transport", "target", target, "err", cerr)
		}
		err = context.Canceled
	}
	abort()
	c.abortOpen = nil
	if err != nil {
		c.state = Disconnected
		c.mu.Unlock()

		if errors.Is(err, context.Canceled) {
			c.metrics.CountSession("cancelled")
			c.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindDisconnect, Port: target, Msg: "cancelled"})
			c.log.Info("connect cancelled", "target", target)
			c.onState(Change{State: Disconnected, Target: target})
			return nil, fmt.Errorf("connect %s: %w", target, err)
		}

		c.metrics.CountSession("open_failed")
		c.emit(otel.Event{Level: otel.LevelError, Kind: otel.KindSerialError, Port: target, Err: err.Error(), Msg: "open failed"})
		c.log.Warn("connect failed", "target", target, "err", err)
		c.onState(Change{State: Disconnected, Target: target, Err: err})
		return nil, fmt.Errorf("connect %s: %w", target, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:      uuid.NewString(),
		Target:  target,
		Started: time.Now(),
		conn:    conn,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	c.current = s
	c.state = Connected
	c.mu.Unlock()

	c.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindConnected, SessionID: s.ID, Port: target, Dur: time.Since(start)})
	c.log.Info("connected", "target", target, "session", s.ID)
	c.onState(Change{State: Connected, Target: target, SessionID: s.ID})

	go c.run(runCtx, s, c.newFeeder())
	return s, nil
}

// Disconnect cancels the pending read, waits for the loop to exit, then
// closes the handle. Aborts an in-flight open.
func (c *Controller) Disconnect() error {
	c.mu.Lock()
	s := c.current
	abort := c.abortOpen
	c.mu.Unlock()

	switch {
	case s != nil:
		s.cancel()
		<-s.done
		return nil
	case abort != nil:
		abort()
		return nil
	default:
		return ErrNotConnected
	}
}

// Toggle connects when disconnected and disconnects otherwise.
func (c *Controller) Toggle(ctx context.Context) error {
	if c.State() == Disconnected {
		_, err := c.Connect(ctx)
		return err
	}
	err := c.Disconnect()
	if errors.Is(err, ErrNotConnected) {
		return nil
	}
	return err
}

// run owns the session until it ends. The reader forwards chunks in order;
// the dispatcher drains them so bytes read before a fault still reach the
// pipeline.
func (c *Controller) run(ctx context.Context, s *Session, feeder Feeder) {
	chunks := make(chan []byte, chunkBuffer)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chunks)
		for {
			chunk, err := s.conn.Read(gctx)
			if err != nil {
				return err
			}
			select {
			case chunks <- chunk:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		for chunk := range chunks {
			lines := feeder.Feed(chunk)
			if otel.TraceEnabled() {
				c.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindChunk, SessionID: s.ID, Bytes: len(chunk), Count: lines})
			}
		}
		feeder.End()
		return nil
	})

	err := g.Wait()
	if cerr := s.conn.Close(); cerr != nil {
		c.log.Debug("close transport", "target", s.Target, "err", cerr)
	}

	result := "error"
	switch {
	case errors.Is(err, context.Canceled):
		result = "cancelled"
		err = nil
	case errors.Is(err, io.EOF):
		result = "eof"
	}
	s.err = err

	c.mu.Lock()
	if c.current == s {
		c.current = nil
		c.state = Disconnected
	}
	c.mu.Unlock()

	c.metrics.CountSession(result)
	ev := otel.Event{Level: otel.LevelInfo, Kind: otel.KindDisconnect, SessionID: s.ID, Port: s.Target, Dur: time.Since(s.Started), Msg: result}
	if err != nil {
		ev.Level = otel.LevelWarn
		ev.Err = err.Error()
	}
	c.emit(ev)
	c.log.Info("disconnected", "target", s.Target, "session", s.ID, "result", result)

	close(s.done)
	c.onState(Change{State: Disconnected, Target: s.Target, SessionID: s.ID, Err: err})
}

func (c *Controller) emit(e otel.Event) {
	if c.trace == nil {
		return
	}
	e.Comp = "session"
	c.trace.Emit(e)
}
