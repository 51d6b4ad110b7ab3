package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/session"
	"github.com/wricardo/strands-coop/transport/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/wricardo/strands-coop/game/multiplayer"

// Link is the connection the client speaks over.
type Link interface {
	Connect(ctx context.Context, onFrame func(string), onLost func(error)) error
	Send(line string) error
	Close() error
}

// Client is one participant's session with the game server.
//
// Session state, the room directory and the pending replies are guarded by
// one mutex. Inbound frames are handled one line at a time in arrival
// order; GameLogic and Notifier callbacks produced by a line run after the
// lock is released and before the next line is handled.
type Client struct {
	link     Link
	logic    GameLogic
	notifier Notifier
	recorder Recorder
	store    session.IdentityPersistence
	logger   *slog.Logger
	tracer   trace.Tracer

	replayStep time.Duration
	autoSync   bool

	mu        sync.Mutex
	state     session.State
	dir       Directory
	corr      correlator
	catalog   []board.Summary
	replayGen uint64
}

// New builds a disconnected client.
func New(link Link, logic GameLogic, opts ...Option) *Client {
	c := &Client{
		link:       link,
		logic:      logic,
		recorder:   nopRecorder{},
		store:      session.NewMemoryPersistence(),
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		replayStep: DefaultReplayStep,
		autoSync:   true,
		corr:       newCorrelator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "multiplayer")
	if c.notifier == nil {
		c.notifier = logNotifier{logger: c.logger}
	}
	return c
}

// Connect opens the link. A failure is reported to the Notifier and
// returned; nothing is retried.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.link.Connect(ctx, c.handleFrame, c.handleLost); err != nil {
		c.notifier.Error("errorConnect", "Couldn't connect to server, multiplayer and board download unavailable.")
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

// Close shuts the link down. Pending requests fail with ErrLinkLost and the
// room is forgotten; the identity is kept.
func (c *Client) Close() error {
	err := c.link.Close()
	c.disconnected()
	return err
}

// State returns a copy of the session state.
func (c *Client) State() session.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.View()
}

// Identity returns the current identity, empty before login.
func (c *Client) Identity() session.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Identity
}

// Rooms returns the latest room listing.
func (c *Client) Rooms() []RoomDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir.List()
}

// RoomBoard returns the current room's board document, "" if none.
func (c *Client) RoomBoard() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Room.Board
}

// effects are callbacks gathered under the lock and run after it.
type effects []func()

func (fx *effects) add(f func()) {
	*fx = append(*fx, f)
}

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}

// exec runs fn under the lock, fails req with fn's error and then runs the
// gathered effects.
func exec[T any](c *Client, req *Request[T], fn func(fx *effects) error) *Request[T] {
	var fx effects
	c.mu.Lock()
	err := fn(&fx)
	c.mu.Unlock()
	if err != nil {
		var zero T
		req.complete(zero, err)
	}
	fx.run()
	return req
}

// sendLocked encodes and writes one command.
func (c *Client) sendLocked(cmd wire.Command) error {
	line, err := cmd.Encode()
	if err != nil {
		return err
	}

	_, span := c.tracer.Start(context.Background(), "strands.send "+string(cmd.Tag),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("strands.command", string(cmd.Tag)),
			attribute.String("strands.room", c.state.Room.ID),
		))
	defer span.End()

	if err := c.link.Send(line); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("send %s: %w", cmd.Tag, err)
	}
	c.recorder.Outbound(string(cmd.Tag))
	c.logger.Debug("sent", "command", cmd.Tag)
	return nil
}

// issueLocked arms p and sends cmd. prepare, if set, runs between the two
// so that a rejected command changes nothing.
func (c *Client) issueLocked(p *pending, cmd wire.Command, prepare func()) error {
	if !c.corr.arm(p) {
		c.logger.Warn("request rejected, reply slot busy", "command", cmd.Tag)
		return fmt.Errorf("%s: %w", cmd.Tag, ErrRequestPending)
	}
	if prepare != nil {
		prepare()
	}
	if err := c.sendLocked(cmd); err != nil {
		c.corr.disarm(p)
		return err
	}
	return nil
}

func (c *Client) handleFrame(frame string) {
	for _, line := range wire.SplitLines(frame) {
		c.handleLine(line)
	}
}

func (c *Client) handleLine(line string) {
	ev, err := wire.Decode(line)
	if err != nil {
		switch {
		case errors.Is(err, wire.ErrUnknownTag):
			c.recorder.Dropped("unknown_tag")
			c.logger.Info("dropping unknown line", "line", line)
		default:
			c.recorder.Dropped("malformed")
			c.logger.Debug("dropping line", "line", line, "error", err)
		}
		return
	}
	c.recorder.Inbound(string(ev.Tag))

	var fx effects
	c.mu.Lock()
	c.route(ev, &fx)
	c.mu.Unlock()
	fx.run()
}

func (c *Client) handleLost(err error) {
	c.recorder.LinkLost()
	c.logger.Warn("link lost", "error", err)
	c.notifier.Error("disconnected", "Disconnected from server, reconnect to keep playing.")
	c.disconnected()
}

// disconnected fails everything in flight and leaves the room.
func (c *Client) disconnected() {
	var fx effects
	c.mu.Lock()
	for _, p := range c.corr.drain() {
		p.fail(ErrLinkLost, &fx)
	}
	c.state.LeaveRoom()
	c.cancelReplayLocked()
	c.mu.Unlock()
	fx.run()
}
