package multiplayer

import (
	"errors"
	"fmt"

	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/session"
	"github.com/wricardo/strands-coop/transport/wire"
)

// Login presents cached, or asks for a new identity when cached is empty.
// A rejected cached identity is replaced by a new one without surfacing the
// rejection. The adopted identity is written to the identity store.
func (c *Client) Login(cached session.Identity) *Request[session.Identity] {
	req := newRequest[session.Identity]()
	return exec(c, req, func(fx *effects) error {
		if cached.Empty() {
			return c.helloLocked(req)
		}
		return c.resumeLocked(cached, req)
	})
}

// LoginCached is Login with the identity from the identity store.
func (c *Client) LoginCached() *Request[session.Identity] {
	cached, err := c.store.Load()
	if err != nil && !errors.Is(err, session.ErrNoIdentityCached) {
		c.logger.Warn("identity cache unreadable, requesting a new identity", "error", err)
	}
	return c.Login(cached)
}

func (c *Client) resumeLocked(cached session.Identity, req *Request[session.Identity]) error {
	p := &pending{
		command: wire.TagHello,
		replies: []wire.Tag{wire.TagHello, wire.TagInvalid},
		onReply: func(ev wire.Event, fx *effects) {
			if ev.Tag == wire.TagInvalid {
				c.logger.Info("cached identity rejected, requesting a new one", "participant", cached.ID)
				if err := c.helloLocked(req); err != nil {
					req.complete(session.Identity{}, err)
				}
				return
			}
			c.adoptLocked(ev, req, fx)
		},
		onFail: func(err error, _ *effects) { req.complete(session.Identity{}, err) },
	}
	return c.issueLocked(p, wire.Resume(cached.ID, cached.Secret), nil)
}

func (c *Client) helloLocked(req *Request[session.Identity]) error {
	p := &pending{
		command: wire.TagHello,
		replies: []wire.Tag{wire.TagHello},
		onReply: func(ev wire.Event, fx *effects) { c.adoptLocked(ev, req, fx) },
		onFail:  func(err error, _ *effects) { req.complete(session.Identity{}, err) },
	}
	return c.issueLocked(p, wire.Hello(), nil)
}

func (c *Client) adoptLocked(ev wire.Event, req *Request[session.Identity], fx *effects) {
	id := session.Identity{ID: ev.Arg(0), Secret: ev.Arg(1)}
	if id.Empty() {
		req.complete(session.Identity{}, fmt.Errorf("%w: %q", wire.ErrMalformed, ev.Raw))
		return
	}
	c.state.Adopt(id)
	c.logger.Info("logged in", "participant", id.ID)

	store := c.store
	fx.add(func() {
		if err := store.Save(id); err != nil {
			c.logger.Warn("failed to cache identity", "error", err)
		}
	})
	req.complete(id, nil)
}

// CreateRoom asks for a new room and joins it. The request completes with
// the room id once the join succeeds, and only then is this client host.
// A refused create or join completes with "".
func (c *Client) CreateRoom(name, password string) *Request[string] {
	req := newRequest[string]()
	return exec(c, req, func(fx *effects) error {
		id := c.state.Identity
		if id.Empty() {
			return ErrNoIdentity
		}
		p := &pending{
			command: wire.TagNewRoom,
			replies: []wire.Tag{wire.TagNewRoom, wire.TagInvalid},
			onReply: func(ev wire.Event, fx *effects) {
				roomID := ev.Arg(0)
				if ev.Tag != wire.TagNewRoom || roomID == "" {
					c.notifyLocked(fx, false, "failedCreate", "Couldn't create room.")
					req.complete("", nil)
					return
				}
				c.logger.Info("room created", "room", roomID)
				err := c.joinLocked(roomID, name, password, func(ok bool, err error, fx *effects) {
					if !ok {
						req.complete("", err)
						return
					}
					c.state.Host = true
					label := name
					if label == "" {
						label = roomID
					}
					c.notifyLocked(fx, true, "roomCreated", fmt.Sprintf("Room %q created.", label))
					req.complete(roomID, nil)
				})
				if err != nil {
					req.complete("", err)
				}
			},
			onFail: func(err error, _ *effects) { req.complete("", err) },
		}
		return c.issueLocked(p, wire.NewRoom(id.ID, id.Secret, name, password), nil)
	})
}

// JoinRoom enters roomID. The previous room is dropped before the command
// is sent, so a refused join leaves the client outside any room and not
// host.
func (c *Client) JoinRoom(roomID, password string) *Request[bool] {
	req := newRequest[bool]()
	return exec(c, req, func(fx *effects) error {
		return c.joinLocked(roomID, "", password, func(ok bool, err error, _ *effects) {
			req.complete(ok, err)
		})
	})
}

func (c *Client) joinLocked(roomID, name, password string, done func(ok bool, err error, fx *effects)) error {
	id := c.state.Identity
	if id.Empty() {
		return ErrNoIdentity
	}
	p := &pending{
		command: wire.TagJoin,
		replies: []wire.Tag{wire.TagSuccess, wire.TagFail, wire.TagInvalid},
		onReply: func(ev wire.Event, fx *effects) {
			if ev.Tag != wire.TagSuccess {
				c.logger.Info("join refused", "room", roomID, "reply", ev.Tag)
				c.notifyLocked(fx, false, "failedJoin", "Couldn't join room.")
				done(false, nil, fx)
				return
			}
			if name == "" {
				if d, ok := c.dir.Get(roomID); ok {
					name = d.Name
				}
			}
			c.state.EnterRoom(roomID, name, password)
			c.logger.Info("joined room", "room", roomID)
			done(true, nil, fx)

			if c.autoSync {
				if err := c.fetchLocked(nil); err != nil {
					c.logger.Warn("board fetch after join failed", "error", err)
				}
			}
		},
		onFail: func(err error, fx *effects) { done(false, err, fx) },
	}
	return c.issueLocked(p, wire.Join(id.ID, id.Secret, roomID, password), func() {
		c.state.LeaveRoom()
		c.cancelReplayLocked()
	})
}

// LeaveRoom leaves the current room. Membership is cleared once the server
// acknowledges. Outside a room it does nothing.
func (c *Client) LeaveRoom() *Request[bool] {
	req := newRequest[bool]()
	return exec(c, req, func(fx *effects) error {
		if !c.state.InRoom() {
			c.logger.Debug("leave ignored, not in a room")
			req.complete(false, nil)
			return nil
		}
		id := c.state.Identity
		p := &pending{
			command: wire.TagLeave,
			replies: []wire.Tag{wire.TagSuccess, wire.TagInvalid},
			onReply: func(ev wire.Event, fx *effects) {
				if ev.Tag != wire.TagSuccess {
					req.complete(false, nil)
					return
				}
				c.logger.Info("left room", "room", c.state.Room.ID)
				c.state.LeaveRoom()
				c.cancelReplayLocked()
				c.notifyLocked(fx, true, "roomLeft", "Room left.")
				req.complete(true, nil)
			},
			onFail: func(err error, _ *effects) { req.complete(false, err) },
		}
		return c.issueLocked(p, wire.Leave(id.ID, id.Secret), nil)
	})
}

// ListRooms replaces the room directory with a fresh listing.
func (c *Client) ListRooms() *Request[[]RoomDescriptor] {
	req := newRequest[[]RoomDescriptor]()
	return exec(c, req, func(fx *effects) error {
		p := &pending{
			command: wire.TagListRooms,
			replies: []wire.Tag{wire.TagEnd},
			entry:   wire.TagRoom,
			onEntry: func(ev wire.Event, _ *effects) {
				e, err := wire.ParseRoom(ev)
				if err != nil {
					c.logger.Warn("bad room entry", "error", err)
					return
				}
				c.dir.Put(descriptorFrom(e))
			},
			onReply: func(wire.Event, *effects) { req.complete(c.dir.List(), nil) },
			onFail:  func(err error, _ *effects) { req.complete(nil, err) },
		}
		return c.issueLocked(p, wire.ListRooms(), c.dir.Reset)
	})
}

// PublishBoard sets the room's board document. Only the host may publish,
// and only once per room.
func (c *Client) PublishBoard(document string) *Request[bool] {
	req := newRequest[bool]()
	return exec(c, req, func(fx *effects) error {
		return c.publishLocked(document, req)
	})
}

func (c *Client) publishLocked(document string, req *Request[bool]) error {
	switch {
	case !c.state.InRoom():
		c.logger.Debug("publish ignored, not in a room")
		req.complete(false, nil)
		return nil
	case !c.state.Host:
		return ErrNotHost
	case c.state.Room.Board != "":
		return ErrBoardPublished
	}
	id := c.state.Identity
	p := &pending{
		command: wire.TagSetBoard,
		replies: []wire.Tag{wire.TagSuccess, wire.TagFail, wire.TagInvalid},
		onReply: func(ev wire.Event, _ *effects) {
			if ev.Tag != wire.TagSuccess {
				c.logger.Warn("board publish refused", "reply", ev.Tag)
				req.complete(false, nil)
				return
			}
			c.state.Room.Board = document
			c.logger.Info("board published", "room", c.state.Room.ID)
			req.complete(true, nil)
		},
		onFail: func(err error, _ *effects) { req.complete(false, err) },
	}
	return c.issueLocked(p, wire.SetBoard(id.ID, id.Secret, document), nil)
}

// FetchBoard asks for the current room's board. The reply drives board
// sync: a guest loads it and asks the host for progress; a host whose room
// has no board publishes its own.
func (c *Client) FetchBoard() *Request[string] {
	req := newRequest[string]()
	return exec(c, req, func(fx *effects) error {
		if !c.state.InRoom() {
			c.logger.Debug("fetch ignored, not in a room")
			req.complete("", nil)
			return nil
		}
		return c.fetchLocked(req)
	})
}

// fetchLocked sends BOARD. req may be nil.
func (c *Client) fetchLocked(req *Request[string]) error {
	finish := func(doc string, err error) {
		if req != nil {
			req.complete(doc, err)
		}
	}
	id := c.state.Identity
	p := &pending{
		command: wire.TagBoard,
		replies: []wire.Tag{wire.TagBoard, wire.TagFail, wire.TagInvalid},
		onReply: func(ev wire.Event, fx *effects) {
			if ev.Tag != wire.TagBoard {
				c.boardMissingLocked(fx)
				finish("", nil)
				return
			}
			doc, err := c.boardReceivedLocked(ev.Arg(0), fx)
			finish(doc, err)
		},
		onFail: func(err error, _ *effects) { finish("", err) },
	}
	return c.issueLocked(p, wire.GetBoard(id.ID, id.Secret), nil)
}

// DownloadBoard fetches a catalog board by date. It completes with "" when
// the server has no board for that date. Room state is not touched.
func (c *Client) DownloadBoard(date string) *Request[string] {
	req := newRequest[string]()
	return exec(c, req, func(fx *effects) error {
		p := &pending{
			command: wire.TagDownloadBoard,
			replies: []wire.Tag{wire.TagBoard, wire.TagFail},
			onReply: func(ev wire.Event, _ *effects) {
				if ev.Tag != wire.TagBoard {
					req.complete("", nil)
					return
				}
				doc, err := wire.DecodeOptionalText(ev.Arg(0))
				req.complete(doc, err)
			},
			onFail: func(err error, _ *effects) { req.complete("", err) },
		}
		return c.issueLocked(p, wire.DownloadBoard(date), nil)
	})
}

// ListCatalog lists the downloadable boards. Each entry is also reported to
// GameLogic.OnCatalogEntry as it arrives.
func (c *Client) ListCatalog() *Request[[]board.Summary] {
	req := newRequest[[]board.Summary]()
	return exec(c, req, func(fx *effects) error {
		p := &pending{
			command: wire.TagBoardSummaries,
			replies: []wire.Tag{wire.TagEnd},
			entry:   wire.TagBoardSummary,
			onEntry: func(ev wire.Event, fx *effects) {
				if s, ok := c.catalogEntryLocked(ev, fx); ok {
					c.catalog = append(c.catalog, s)
				}
			},
			onReply: func(wire.Event, *effects) {
				out := make([]board.Summary, len(c.catalog))
				copy(out, c.catalog)
				req.complete(out, nil)
			},
			onFail: func(err error, _ *effects) { req.complete(nil, err) },
		}
		return c.issueLocked(p, wire.BoardSummaries(), func() { c.catalog = nil })
	})
}

// Guess relays a touch of the letter at column x, row y to the room.
func (c *Client) Guess(x, y int) error {
	return c.relay("guess", func(id session.Identity) wire.Command { return wire.Guess(id.ID, id.Secret, x, y) })
}

// EndSelection relays the end of the current selection.
func (c *Client) EndSelection() error {
	return c.relay("end selection", func(id session.Identity) wire.Command { return wire.EndGuess(id.ID, id.Secret) })
}

// UseHint relays hint use.
func (c *Client) UseHint() error {
	return c.relay("hint", func(id session.Identity) wire.Command { return wire.Hint(id.ID, id.Secret) })
}

// RequestState asks the host, through the server, for its progress.
func (c *Client) RequestState() error {
	return c.relay("state request", func(id session.Identity) wire.Command { return wire.GetState(id.ID, id.Secret) })
}

// relay sends a fire-and-forget room command. Outside a room nothing is
// sent and nil is returned.
func (c *Client) relay(what string, build func(session.Identity) wire.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.InRoom() {
		c.logger.Debug(what+" ignored, not in a room")
		return nil
	}
	return c.sendLocked(build(c.state.Identity))
}

// notifyLocked queues a notice.
func (c *Client) notifyLocked(fx *effects, info bool, key, msg string) {
	n := c.notifier
	if info {
		fx.add(func() { n.Info(key, msg) })
	} else {
		fx.add(func() { n.Error(key, msg) })
	}
}
