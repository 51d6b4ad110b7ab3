package engine

import (
	"encoding/json"
	"log/slog"

	"github.com/wricardo/strands-coop/game/board"
)

// Callbacks from the multiplayer client. Remote moves update the same state
// local play does.

func (p *Progress) OnLetterTouched(x, y int) {
	p.Touch(x, y)
}

func (p *Progress) OnSelectionEnded() {
	p.EndSelection()
}

// OnHintUsed applies a peer's hint, which resets the shared budget.
func (p *Progress) OnHintUsed() {
	p.update(func() {
		if _, err := p.hintLocked(); err != nil {
			p.wordsToHint = board.DefaultWordsToHint
		}
	})
}

// OnHostPromoted has nothing to update: the host role is session state.
func (p *Progress) OnHostPromoted() {
	p.mu.RLock()
	logger := p.logger
	p.mu.RUnlock()
	logger.Debug("promoted to host")
}

func (p *Progress) OnPeerJoined(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.peers[id] = true
}

func (p *Progress) OnPeerLeft(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.peers, id)
}

// OnThemeWordRevealed marks word found. Words the board does not know are
// logged and ignored; the peer is usually on a different board.
func (p *Progress) OnThemeWordRevealed(word string) {
	var logger *slog.Logger
	p.update(func() {
		if _, ok := p.doc.ThemeCoords[word]; !ok {
			logger = p.logger
			return
		}
		p.markThemeLocked(word)
		p.selection = nil
	})
	if logger != nil {
		logger.Debug("ignoring unknown theme word", "word", word)
	}
}

func (p *Progress) OnSpangramRevealed(coords []board.Coord) {
	p.update(func() {
		p.spangramFound = true
		p.spangram = append([]board.Coord(nil), coords...)
		p.selection = nil
	})
}

func (p *Progress) OnHintBudgetChanged(n int) {
	p.update(func() { p.wordsToHint = n })
}

func (p *Progress) OnCatalogEntry(s board.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.catalog {
		if e.Date == s.Date {
			p.catalog[i] = s
			return
		}
	}
	p.catalog = append(p.catalog, s)
}

// OnBoardReady switches to the room's board.
func (p *Progress) OnBoardReady(doc *board.Document) {
	p.LoadBoard(doc)
}

func (p *Progress) ProduceSnapshot() board.Snapshot {
	return p.Snapshot()
}

// LocalBoard returns the current board as catalog JSON.
func (p *Progress) LocalBoard() string {
	p.mu.RLock()
	doc := p.doc
	p.mu.RUnlock()

	data, err := board.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(data)
}

// MarshalJSON renders the status.
func (p *Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Status())
}
