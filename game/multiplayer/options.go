package multiplayer

import (
	"log/slog"
	"time"

	"github.com/wricardo/strands-coop/game/session"
	"go.opentelemetry.io/otel/trace"
)

// DefaultReplayStep paces the replay of a peer's in-progress selection.
const DefaultReplayStep = 50 * time.Millisecond

// Option configures a Client.
type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithReplayStep sets the delay between replayed letters. Zero replays a
// selection all at once.
func WithReplayStep(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.replayStep = d
		}
	}
}

// WithIdentityStore sets where LoginCached reads and every login writes the
// identity.
func WithIdentityStore(store session.IdentityPersistence) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

// WithAutoSync controls whether a successful join fetches the room board
// and, as a guest, asks the host for its progress.
func WithAutoSync(on bool) Option {
	return func(c *Client) {
		c.autoSync = on
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}
