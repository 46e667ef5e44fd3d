// Package connection owns the transport lifecycle for the chat session: at
// most one live WebSocket, the observable connection state, bounded
// linear-backoff reconnection and the heartbeat. Everything the transport
// produces — state changes, decoded frames, surfaced errors — is delivered
// as events on a single channel, so the consumer (the TUI event loop)
// applies them in arrival order.
package connection

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"finchat/internal/logging"
	"finchat/internal/protocol"
)

// ErrNotConnected is returned by Send when no transport is open.
var ErrNotConnected = errors.New("not connected")

// State is the visible connection state. Exactly one value at a time,
// owned exclusively by the Manager.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Errored
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Errored:
		return "error"
	default:
		return "unknown"
	}
}

// EventKind discriminates manager events.
type EventKind int

const (
	// EventStateChanged reports a new connection state in Event.State.
	EventStateChanged EventKind = iota
	// EventFrame carries a decoded incoming frame in Event.Frame.
	EventFrame
	// EventError surfaces a transport error in Event.Err.
	EventError
)

// Event is one item on the manager's event stream.
type Event struct {
	Kind  EventKind
	State State
	Frame protocol.Incoming
	Err   error
}

// Conn is the minimal transport surface the manager needs. Satisfied by
// gorilla/websocket connections via wsConn; tests substitute fakes.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Dialer opens transport connections.
type Dialer interface {
	Dial(url string) (Conn, error)
}

// Config controls the manager. Zero fields take the defaults below.
type Config struct {
	URL         string
	BaseDelay   time.Duration // reconnect delay unit, default 2s
	MaxAttempts int           // reconnect ceiling, default 5
	Heartbeat   time.Duration // ping interval, 0 disables
}

const (
	defaultBaseDelay   = 2 * time.Second
	defaultMaxAttempts = 5
)

// reconnectDelay is the bounded linear backoff: attempt n (1-based) waits
// base × n, so with the default base the schedule is 2s, 4s, 6s, 8s, 10s.
func reconnectDelay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(attempt)
}

// Manager maintains at most one live connection and the visible state.
// Construct once per UI session with New; there is no ambient global.
type Manager struct {
	cfg    Config
	dialer Dialer
	log    interface {
		Debugw(msg string, kv ...interface{})
		Infow(msg string, kv ...interface{})
		Warnw(msg string, kv ...interface{})
	}

	mu        sync.Mutex
	state     State
	conn      Conn
	gen       int // connection generation; stale goroutines check it and bail
	attempts  int
	reconnect *time.Timer
	suppress  bool // caller-initiated close: no auto-reconnect
	closed    bool

	events chan Event
}

// New creates a manager using the real WebSocket dialer.
func New(cfg Config) *Manager {
	return NewWithDialer(cfg, wsDialer{})
}

// NewWithDialer creates a manager with a custom dialer. Used by tests.
func NewWithDialer(cfg Config, d Dialer) *Manager {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &Manager{
		cfg:    cfg,
		dialer: d,
		log:    logging.For(logging.CategoryTransport),
		events: make(chan Event, 64),
	}
}

// Events is the manager's output stream. Closed by Close.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect opens the transport. A no-op while already connected or
// connecting. This is the manual path: it restarts the retry budget.
func (m *Manager) Connect() {
	m.connect(true)
}

func (m *Manager) connect(manual bool) {
	m.mu.Lock()
	if m.closed || m.state == Connected || m.state == Connecting {
		m.mu.Unlock()
		return
	}
	m.suppress = false
	if manual {
		m.attempts = 0
	}
	m.cancelReconnectLocked()
	m.setStateLocked(Connecting)
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	go m.dial(gen)
}

func (m *Manager) dial(gen int) {
	conn, err := m.dialer.Dial(m.cfg.URL)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}

	if err != nil {
		// A failed dial is a transport error immediately followed by a
		// close: surface it, drop to Disconnected, let the retry policy run.
		m.log.Warnw("dial failed", "url", m.cfg.URL, "err", err)
		m.setStateLocked(Errored)
		m.emitLocked(Event{Kind: EventError, Err: err})
		m.setStateLocked(Disconnected)
		m.scheduleReconnectLocked()
		return
	}

	// Transport open: the retry counter starts over.
	m.conn = conn
	m.attempts = 0
	m.log.Infow("transport open", "url", m.cfg.URL)

	go m.readLoop(conn, gen)
	if m.cfg.Heartbeat > 0 {
		go m.heartbeatLoop(conn, gen)
	}
}

func (m *Manager) readLoop(conn Conn, gen int) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			m.handleClosed(gen, err)
			return
		}
		m.handleFrame(gen, data)
	}
}

// handleFrame decodes and routes one incoming frame. Malformed or unknown
// frames are logged and discarded; they never reach the consumer and never
// end the session. Frames from a superseded connection generation are
// dropped: a frame already in flight when the caller disconnects must not
// revive the session.
func (m *Manager) handleFrame(gen int, data []byte) {
	in, err := protocol.Decode(data)
	if err != nil {
		logging.For(logging.CategoryProtocol).Warnw("discarding frame", "err", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		return
	}

	switch in.(type) {
	case protocol.Pong:
		// Heartbeat reply: liveness only, no further effect.
		m.log.Debugw("pong")
	case protocol.Connected:
		m.setStateLocked(Connected)
		m.emitLocked(Event{Kind: EventFrame, Frame: in})
	default:
		m.emitLocked(Event{Kind: EventFrame, Frame: in})
	}
}

func (m *Manager) handleClosed(gen int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		return
	}

	m.conn = nil
	manual := m.suppress

	if err != nil && !manual && !isExpectedClose(err) {
		m.log.Warnw("transport error", "err", err)
		m.setStateLocked(Errored)
		m.emitLocked(Event{Kind: EventError, Err: err})
	}

	m.setStateLocked(Disconnected)

	if !manual {
		m.scheduleReconnectLocked()
	}
}

// scheduleReconnectLocked arms exactly one reconnect timer, or none once the
// attempt ceiling is reached.
func (m *Manager) scheduleReconnectLocked() {
	if m.attempts >= m.cfg.MaxAttempts {
		m.log.Infow("retry ceiling reached", "attempts", m.attempts)
		return
	}
	m.attempts++
	delay := reconnectDelay(m.cfg.BaseDelay, m.attempts)
	m.log.Infow("scheduling reconnect", "attempt", m.attempts, "delay", delay)
	m.reconnect = time.AfterFunc(delay, func() {
		m.connect(false)
	})
}

func (m *Manager) cancelReconnectLocked() {
	if m.reconnect != nil {
		m.reconnect.Stop()
		m.reconnect = nil
	}
}

// Disconnect closes the transport on behalf of the caller. Always lands on
// Disconnected, cancels any pending reconnect, and suppresses the
// auto-reconnect the close would otherwise trigger.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.suppress = true
	m.cancelReconnectLocked()
	conn := m.conn
	m.conn = nil
	m.gen++ // orphan the read loop for this connection
	m.setStateLocked(Disconnected)
	m.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Close disconnects and shuts the event stream down. The manager is not
// reusable afterwards.
func (m *Manager) Close() {
	m.Disconnect()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.events)
}

// Send writes one encoded frame. It fails with ErrNotConnected when no
// transport is open; it never panics and never blocks on the UI's behalf.
func (m *Manager) Send(data []byte) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	if err := conn.WriteMessage(data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// SendChat encodes and sends a chat request.
func (m *Manager) SendChat(message string) error {
	data, err := protocol.EncodeChat(message)
	if err != nil {
		return err
	}
	return m.Send(data)
}

// SendCancel encodes and sends a cancel request.
func (m *Manager) SendCancel() error {
	data, err := protocol.EncodeCancel()
	if err != nil {
		return err
	}
	return m.Send(data)
}

// SendClear encodes and sends a clear request.
func (m *Manager) SendClear() error {
	data, err := protocol.EncodeClear()
	if err != nil {
		return err
	}
	return m.Send(data)
}

// Ping sends one heartbeat frame.
func (m *Manager) Ping() error {
	data, err := protocol.EncodePing()
	if err != nil {
		return err
	}
	return m.Send(data)
}

func (m *Manager) heartbeatLoop(conn Conn, gen int) {
	ticker := time.NewTicker(m.cfg.Heartbeat)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		stale := m.closed || gen != m.gen || m.conn == nil
		m.mu.Unlock()
		if stale {
			return
		}
		data, err := protocol.EncodePing()
		if err != nil {
			return
		}
		if err := conn.WriteMessage(data); err != nil {
			return
		}
	}
}

func (m *Manager) setStateLocked(s State) {
	if m.state == s {
		return
	}
	m.state = s
	m.emitLocked(Event{Kind: EventStateChanged, State: s})
}

// emitLocked delivers an event without ever blocking the transport
// goroutines; if the consumer has fallen 64 events behind, the oldest
// semantics are already lost and dropping is the safe option.
func (m *Manager) emitLocked(ev Event) {
	if m.closed {
		return
	}
	select {
	case m.events <- ev:
	default:
		m.log.Warnw("event dropped, consumer lagging", "kind", ev.Kind)
	}
}
