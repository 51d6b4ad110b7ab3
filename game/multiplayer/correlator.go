package multiplayer

import "github.com/wricardo/strands-coop/transport/wire"

// pending is one in-flight command waiting for a reply. It is armed on
// every tag in replies; whichever arrives first consumes it.
type pending struct {
	command wire.Tag
	replies []wire.Tag

	// entry names the streamed tag collected until the END reply.
	entry   wire.Tag
	onEntry func(ev wire.Event, fx *effects)

	onReply func(ev wire.Event, fx *effects)
	onFail  func(err error, fx *effects)
}

func (p *pending) fail(err error, fx *effects) {
	if p.onFail != nil {
		p.onFail(err, fx)
	}
}

// correlator maps reply tags to the pending command armed on them. The
// protocol has no request ids, so a tag can only belong to one command at a
// time.
type correlator struct {
	slots map[wire.Tag]*pending
}

func newCorrelator() correlator {
	return correlator{slots: make(map[wire.Tag]*pending)}
}

// arm claims every reply tag of p. It claims nothing and returns false if
// any of them is already held.
func (c *correlator) arm(p *pending) bool {
	for _, t := range p.replies {
		if c.slots[t] != nil {
			return false
		}
	}
	for _, t := range p.replies {
		c.slots[t] = p
	}
	return true
}

func (c *correlator) disarm(p *pending) {
	for _, t := range p.replies {
		if c.slots[t] == p {
			delete(c.slots, t)
		}
	}
}

// take removes and returns the command armed on tag.
func (c *correlator) take(tag wire.Tag) *pending {
	p := c.slots[tag]
	if p != nil {
		c.disarm(p)
	}
	return p
}

func (c *correlator) peek(tag wire.Tag) *pending {
	return c.slots[tag]
}

// drain disarms everything and returns each pending command once.
func (c *correlator) drain() []*pending {
	seen := make(map[*pending]bool)
	var out []*pending
	for _, p := range c.slots {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	c.slots = make(map[wire.Tag]*pending)
	return out
}
