package multiplayer

import (
	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/transport/wire"
)

// route dispatches one decoded line. Callers hold c.mu.
func (c *Client) route(ev wire.Event, fx *effects) {
	logic := c.logic

	switch ev.Tag {
	case wire.TagPong:
		return

	case wire.TagStart:
		c.logger.Debug("server start notice")

	case wire.TagHello, wire.TagNewRoom, wire.TagSuccess, wire.TagFail, wire.TagEnd, wire.TagInvalid:
		c.completeLocked(ev, fx)

	case wire.TagBoard:
		if c.corr.peek(wire.TagBoard) != nil {
			c.completeLocked(ev, fx)
			return
		}
		// Pushed to guests when the host publishes.
		if !c.state.InRoom() {
			c.logger.Debug("board push outside a room dropped")
			return
		}
		c.boardReceivedLocked(ev.Arg(0), fx)

	case wire.TagRoom, wire.TagBoardSummary:
		if p := c.corr.peek(wire.TagEnd); p != nil && p.entry == ev.Tag {
			p.onEntry(ev, fx)
			return
		}
		if ev.Tag == wire.TagBoardSummary {
			c.catalogEntryLocked(ev, fx)
			return
		}
		c.recorder.Dropped("unsolicited")
		c.logger.Debug("unsolicited room entry dropped", "line", ev.Raw)

	case wire.TagGuess:
		x, errX := ev.IntArg(0)
		y, errY := ev.IntArg(1)
		if errX != nil || errY != nil {
			c.malformedLocked(ev)
			return
		}
		fx.add(func() { logic.OnLetterTouched(x, y) })

	case wire.TagEndGuess:
		fx.add(logic.OnSelectionEnded)

	case wire.TagHint:
		fx.add(logic.OnHintUsed)

	case wire.TagHostState:
		c.hostStateRequestedLocked(ev.Arg(0), fx)

	case wire.TagThemeWord:
		word := ev.Arg(0)
		if word == "" {
			c.malformedLocked(ev)
			return
		}
		fx.add(func() { logic.OnThemeWordRevealed(word) })

	case wire.TagSpangram:
		coords, err := wire.ParseCoords(ev.Args)
		if err != nil || len(coords) == 0 {
			c.malformedLocked(ev)
			return
		}
		fx.add(func() { logic.OnSpangramRevealed(coords) })

	case wire.TagCurrentGuess:
		coords, err := wire.ParseCoords(ev.Args)
		if err != nil {
			c.malformedLocked(ev)
			return
		}
		c.replayLocked(coords, fx)

	case wire.TagWordsToHint:
		n, err := ev.IntArg(0)
		if err != nil {
			c.malformedLocked(ev)
			return
		}
		fx.add(func() { logic.OnHintBudgetChanged(n) })

	case wire.TagNewHost:
		c.state.Host = true
		c.logger.Info("promoted to host", "room", c.state.Room.ID)
		fx.add(logic.OnHostPromoted)
		c.notifyLocked(fx, true, "hostPromotion", "You were made host.")

	case wire.TagJoined:
		peer := ev.Arg(0)
		fx.add(func() { logic.OnPeerJoined(peer) })
		c.notifyLocked(fx, true, "playerJoined", "Player \""+peer+"\" joined.")

	case wire.TagLeft:
		peer := ev.Arg(0)
		fx.add(func() { logic.OnPeerLeft(peer) })
		c.notifyLocked(fx, true, "playerLeft", "Player \""+peer+"\" left.")

	default:
		c.logger.Debug("no handler for tag", "tag", ev.Tag)
	}
}

// completeLocked hands a reply to the command armed on its tag.
func (c *Client) completeLocked(ev wire.Event, fx *effects) {
	p := c.corr.take(ev.Tag)
	if p == nil {
		c.recorder.Dropped("unarmed_reply")
		c.logger.Debug("reply with nothing pending", "tag", ev.Tag)
		return
	}
	p.onReply(ev, fx)
}

func (c *Client) catalogEntryLocked(ev wire.Event, fx *effects) (board.Summary, bool) {
	s, err := wire.ParseSummary(ev)
	if err != nil {
		c.malformedLocked(ev)
		return board.Summary{}, false
	}
	logic := c.logic
	fx.add(func() { logic.OnCatalogEntry(s) })
	return s, true
}

func (c *Client) malformedLocked(ev wire.Event) {
	c.recorder.Dropped("malformed")
	c.logger.Warn("malformed line dropped", "line", ev.Raw)
}
