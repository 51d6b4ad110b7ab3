package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/strands-coop/transport/wire"
)

const (
	// DefaultPingInterval is how often an open link sends PING.
	DefaultPingInterval = 2 * time.Minute

	// DefaultWriteWait bounds a single frame write.
	DefaultWriteWait = 10 * time.Second
)

var (
	ErrNotConnected     = errors.New("link is not open")
	ErrAlreadyConnected = errors.New("link is already connecting or open")
)

// State is the lifecycle position of a Link.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LinkConfig configures a Link.
type LinkConfig struct {
	URL          string
	PingInterval time.Duration
	WriteWait    time.Duration
	Dialer       *websocket.Dialer
	Logger       *slog.Logger
}

// Link is the client side of the game server connection. It never
// reconnects on its own: after a loss the caller must Connect again.
type Link struct {
	url          string
	pingInterval time.Duration
	writeWait    time.Duration
	dialer       *websocket.Dialer
	logger       *slog.Logger

	mu    sync.Mutex
	state State
	conn  *websocket.Conn
	done  chan struct{}

	// serializes frame writes; gorilla allows one concurrent writer
	writeMu sync.Mutex
}

// NewLink creates a disconnected link.
func NewLink(cfg LinkConfig) *Link {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = DefaultWriteWait
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Link{
		url:          cfg.URL,
		pingInterval: cfg.PingInterval,
		writeWait:    cfg.WriteWait,
		dialer:       cfg.Dialer,
		logger:       cfg.Logger.With("component", "link"),
	}
}

// State reports the current lifecycle state.
func (l *Link) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Connect dials the server. Every received frame is passed to onFrame from
// a single goroutine, in arrival order. onLost is invoked at most once per
// successful Connect when the connection drops for any reason other than
// Close.
func (l *Link) Connect(ctx context.Context, onFrame func(string), onLost func(error)) error {
	l.mu.Lock()
	if l.state != StateDisconnected {
		l.mu.Unlock()
		return ErrAlreadyConnected
	}
	l.state = StateConnecting
	l.mu.Unlock()

	conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		l.mu.Lock()
		l.state = StateDisconnected
		l.mu.Unlock()
		return fmt.Errorf("dial %s: %w", l.url, err)
	}

	done := make(chan struct{})
	l.mu.Lock()
	l.conn = conn
	l.done = done
	l.state = StateOpen
	l.mu.Unlock()

	l.logger.Info("link open", "url", l.url)

	go l.readPump(conn, done, onFrame, onLost)
	go l.pingLoop(done)
	return nil
}

// Send writes one encoded line as a text frame.
func (l *Link) Send(line string) error {
	l.mu.Lock()
	conn := l.conn
	open := l.state == StateOpen
	l.mu.Unlock()
	if !open || conn == nil {
		return ErrNotConnected
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(l.writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Close shuts the connection down without a link-lost notification.
func (l *Link) Close() error {
	l.mu.Lock()
	conn := l.conn
	if !l.detach(conn) {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	l.writeMu.Lock()
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(l.writeWait))
	l.writeMu.Unlock()

	l.logger.Info("link closed")
	return conn.Close()
}

// detach moves an open link for conn back to Disconnected. It reports false
// when conn is no longer the current connection. Callers hold l.mu.
func (l *Link) detach(conn *websocket.Conn) bool {
	if conn == nil || l.conn != conn {
		return false
	}
	close(l.done)
	l.conn = nil
	l.done = nil
	l.state = StateDisconnected
	return true
}

func (l *Link) readPump(conn *websocket.Conn, done chan struct{}, onFrame func(string), onLost func(error)) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			l.mu.Lock()
			lost := l.detach(conn)
			l.mu.Unlock()
			if !lost {
				// Close got there first.
				return
			}
			conn.Close()
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Warn("link lost", "error", err)
			} else {
				l.logger.Info("link closed by server", "error", err)
			}
			if onLost != nil {
				onLost(err)
			}
			return
		}
		if onFrame != nil {
			onFrame(string(data))
		}
	}
}

func (l *Link) pingLoop(done chan struct{}) {
	ping, _ := wire.Ping().Encode()

	ticker := time.NewTicker(l.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		default:
		}
		if err := l.Send(ping); err != nil {
			if !errors.Is(err, ErrNotConnected) {
				l.logger.Warn("ping failed", "error", err)
			}
			return
		}
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
