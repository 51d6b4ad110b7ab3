package multiplayer

import (
	"time"

	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/transport/wire"
)

// SnapshotCommands renders a snapshot as the lines a host forwards to a
// catching-up peer: theme words, the spangram if found, the in-progress
// selection if any, then always the hint counter. Peers apply them as they
// arrive, so live moves made after the snapshot may interleave with them.
func SnapshotCommands(s board.Snapshot) []wire.Command {
	cmds := make([]wire.Command, 0, len(s.ThemeWordsFound)+3)
	for _, w := range s.ThemeWordsFound {
		cmds = append(cmds, wire.ThemeWord(w))
	}
	if s.SpangramFound {
		cmds = append(cmds, wire.Spangram(s.SpangramCoords))
	}
	if len(s.CurrentGuess) > 0 {
		cmds = append(cmds, wire.CurrentGuess(s.CurrentGuess))
	}
	return append(cmds, wire.WordsToHint(s.WordsToHint))
}

// hostStateRequestedLocked answers HOSTSTATE. The snapshot is taken outside
// the lock since it calls into GameLogic.
func (c *Client) hostStateRequestedLocked(peer string, fx *effects) {
	if !c.state.Host {
		c.logger.Debug("state request ignored, not host", "peer", peer)
		return
	}
	if peer == "" {
		c.recorder.Dropped("malformed")
		c.logger.Warn("state request without a peer")
		return
	}
	logic := c.logic
	fx.add(func() {
		snap := logic.ProduceSnapshot()

		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.state.Host || !c.state.InRoom() {
			return
		}
		id := c.state.Identity
		for _, inner := range SnapshotCommands(snap) {
			cmd, err := wire.Forward(id.ID, id.Secret, peer, inner)
			if err == nil {
				err = c.sendLocked(cmd)
			}
			if err != nil {
				c.logger.Warn("state forward failed", "peer", peer, "piece", inner.Tag, "error", err)
				return
			}
		}
		c.logger.Debug("state sent", "peer", peer, "words", len(snap.ThemeWordsFound))
	})
}

// boardReceivedLocked handles a board document, from a fetch reply or a
// push. It returns the decoded document.
func (c *Client) boardReceivedLocked(token string, fx *effects) (string, error) {
	doc, err := wire.DecodeOptionalText(token)
	if err != nil {
		c.recorder.Dropped("malformed")
		c.logger.Warn("undecodable board", "error", err)
		return "", err
	}
	if doc == "" {
		c.boardMissingLocked(fx)
		return "", nil
	}
	if c.state.Host {
		// The host already plays its own board.
		c.state.Room.Board = doc
		return doc, nil
	}

	parsed, err := board.Parse([]byte(doc))
	if err != nil {
		c.logger.Warn("room board unusable", "room", c.state.Room.ID, "error", err)
		c.notifyLocked(fx, false, "badBoard", "The room's board could not be loaded.")
		return doc, err
	}
	c.state.Room.Board = doc
	logic := c.logic
	fx.add(func() { logic.OnBoardReady(parsed) })

	if err := c.sendLocked(wire.GetState(c.state.Identity.ID, c.state.Identity.Secret)); err != nil {
		c.logger.Warn("state request failed", "error", err)
	}
	return doc, nil
}

// boardMissingLocked handles a room without a board: the host publishes its
// local one, a guest waits for the push.
func (c *Client) boardMissingLocked(fx *effects) {
	if !c.state.Host {
		c.logger.Info("room has no board yet", "room", c.state.Room.ID)
		return
	}
	logic := c.logic
	fx.add(func() {
		doc := logic.LocalBoard()
		if doc == "" {
			c.logger.Warn("host has no local board to publish")
			return
		}
		// The reply arrives on this goroutine, so never wait for it here.
		req := c.PublishBoard(doc)
		select {
		case <-req.Done():
			if _, err := req.Result(); err != nil {
				c.logger.Warn("board publish failed", "error", err)
			}
		default:
		}
	})
}

// replayLocked feeds a peer's in-progress selection to GameLogic one letter
// at a time, replayStep apart, in the order received. Coordinates arrive as
// row,col and are reported as x=col, y=row.
func (c *Client) replayLocked(coords []board.Coord, fx *effects) {
	if len(coords) == 0 {
		return
	}
	logic := c.logic
	if c.replayStep <= 0 {
		for _, co := range coords {
			co := co
			fx.add(func() { logic.OnLetterTouched(co.Col, co.Row) })
		}
		return
	}
	gen := c.replayGen
	first := coords[0]
	fx.add(func() {
		logic.OnLetterTouched(first.Col, first.Row)
		c.scheduleReplay(gen, coords[1:])
	})
}

func (c *Client) scheduleReplay(gen uint64, rest []board.Coord) {
	if len(rest) == 0 {
		return
	}
	time.AfterFunc(c.replayStep, func() {
		c.mu.Lock()
		live := c.replayGen == gen
		c.mu.Unlock()
		if !live {
			return
		}
		co := rest[0]
		c.logic.OnLetterTouched(co.Col, co.Row)
		c.scheduleReplay(gen, rest[1:])
	})
}

// cancelReplayLocked stops replays scheduled for the room being left.
func (c *Client) cancelReplayLocked() {
	c.replayGen++
}
